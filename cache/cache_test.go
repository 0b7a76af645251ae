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
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCacheMemoryOnlyRoundTrip(t *testing.T) {
	c, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	a := Artifact{GroupID: "com.example", ArtifactID: "lib", Version: "1.0", Extension: "jar"}
	if _, ok := c.Lookup(a); ok {
		t.Fatalf("Lookup() on empty cache returned a hit")
	}
	c.Store(a, []byte("jar bytes"))
	got, ok := c.Lookup(a)
	if !ok {
		t.Fatalf("Lookup() after Store() returned a miss")
	}
	if string(got) != "jar bytes" {
		t.Errorf("Lookup() = %q, want %q", got, "jar bytes")
	}
}

func TestCacheDiskTierSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	a := Artifact{GroupID: "com.example", ArtifactID: "lib", Version: "1.0", Extension: "pom"}
	c.Store(a, []byte("pom bytes"))
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	c2, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen Open() error = %v", err)
	}
	defer c2.Close()
	got, ok := c2.Lookup(a)
	if !ok {
		t.Fatalf("Lookup() after reopen returned a miss")
	}
	if string(got) != "pom bytes" {
		t.Errorf("Lookup() after reopen = %q, want %q", got, "pom bytes")
	}
}

func TestCacheVersionsRoundTrip(t *testing.T) {
	c, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.LookupVersions("com.example", "lib"); ok {
		t.Fatalf("LookupVersions() on empty cache returned a hit")
	}
	want := []string{"1.0", "1.1", "2.0-SNAPSHOT"}
	c.StoreVersions("com.example", "lib", want)
	got, ok := c.LookupVersions("com.example", "lib")
	if !ok {
		t.Fatalf("LookupVersions() after StoreVersions() returned a miss")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LookupVersions() mismatch (-want +got):\n%s", diff)
	}
}

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	var c *Cache
	if _, ok := c.Lookup(Artifact{GroupID: "g", ArtifactID: "a"}); ok {
		t.Fatalf("nil Cache Lookup() returned a hit")
	}
	c.Store(Artifact{GroupID: "g", ArtifactID: "a"}, []byte("x"))
	if err := c.Close(); err != nil {
		t.Errorf("nil Cache Close() error = %v", err)
	}
}

func TestEncodeVersionsRoundTrip(t *testing.T) {
	in := []string{"1.0", "", "2.0-rc1"}
	got, err := decodeVersions(encodeVersions(in))
	if err != nil {
		t.Fatalf("decodeVersions() error = %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("encode/decodeVersions round trip mismatch (-want +got):\n%s", diff)
	}
}
