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

// Package downloader defines the contract the resolver uses to fetch POMs,
// artifact bytes and version metadata. Network I/O, HTTP fallback, mirrors
// and repository-settings handling all live in an implementation of this
// interface; the resolver only ever calls through it.
package downloader

import (
	"context"

	"github.com/google/mvnresolve/pom"
)

// Downloader fetches the data the resolver needs from one or more Maven
// repositories. Implementations must be safe for concurrent use and
// idempotent: calling a method twice with the same arguments must return
// the same result (modulo transient I/O failures).
type Downloader interface {
	// DownloadPom returns the raw POM for the given coordinate, or
	// ErrNotFound if it could not be located in any of the given
	// repositories. classifier and relativePath may be empty.
	// originatingPom identifies the POM that requested this download, for
	// diagnostics.
	DownloadPom(ctx context.Context, groupID, artifactID, version string, classifier, relativePath, originatingPom string, repositories []pom.Repository) (*pom.RawPom, error)

	// DownloadArtifactBytes returns the bytes of the artifact at the given
	// coordinate, or ErrNotFound.
	DownloadArtifactBytes(ctx context.Context, coordinate pom.Coordinate, classifier, version string) ([]byte, error)

	// FindVersions returns all known versions of coordinate, used to
	// resolve a Maven version-range requirement against its metadata.
	FindVersions(ctx context.Context, coordinate pom.Coordinate) ([]string, error)
}

// ErrNotFound is returned by a Downloader when the requested artifact or
// POM does not exist in any of the repositories it was asked to search.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }
