// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"encoding/binary"
	"fmt"
)

// Artifact identifies a cache entry: a Maven coordinate plus the
// classifier, extension and version that distinguish one artifact file
// from another belonging to the same GAV.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Extension  string
	Version    string
}

// encodeKey serializes a as the tuple (group, artifact, classifier,
// extension, version) of length-prefixed strings, in that order.
//
// The source format this is modeled on used a 16-bit length prefix for the
// cached byte payload, which truncates any POM or JAR larger than 64KiB.
// This implementation uses 32-bit prefixes for key fields and version
// lists, and stores artifact/POM bytes as the raw bbolt value with no
// length prefix, so payload size is not capped. It makes no attempt at
// being bit-for-bit compatible with that format.
func encodeKey(a Artifact) []byte {
	fields := []string{a.GroupID, a.ArtifactID, a.Classifier, a.Extension, a.Version}
	var buf []byte
	for _, f := range fields {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(f)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, f...)
	}
	return buf
}

// encodeVersions serializes a list of version strings as a 32-bit count
// followed by length-prefixed strings.
func encodeVersions(versions []string) []byte {
	var buf []byte
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(versions)))
	buf = append(buf, countBuf[:]...)
	for _, v := range versions {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, v...)
	}
	return buf
}

func decodeVersions(b []byte) ([]string, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("cache: truncated versions payload")
	}
	count := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	versions := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(b) < 4 {
			return nil, fmt.Errorf("cache: truncated versions payload")
		}
		n := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint32(len(b)) < n {
			return nil, fmt.Errorf("cache: truncated versions payload")
		}
		versions = append(versions, string(b[:n]))
		b = b[n:]
	}
	return versions, nil
}
