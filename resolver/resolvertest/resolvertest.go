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

// Package resolvertest provides an in-memory downloader.Downloader fixture
// for resolver tests, built the way util/resolve/internal/resolvetest
// builds synthetic dependency universes, but emitting pom.RawPom values
// keyed by GAV rather than generic resolve.Version/RequirementVersion
// pairs.
package resolvertest

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/mvnresolve/downloader"
	"github.com/google/mvnresolve/pom"
)

type artifactKey struct {
	groupID, artifactID, version, classifier string
}

// Universe is an in-memory set of POMs and artifact bytes a test can
// populate and then resolve against, implementing downloader.Downloader.
type Universe struct {
	poms      map[artifactKey]*pom.RawPom
	artifacts map[artifactKey][]byte
	versions  map[pom.Coordinate][]string
}

// New returns an empty Universe.
func New() *Universe {
	return &Universe{
		poms:      map[artifactKey]*pom.RawPom{},
		artifacts: map[artifactKey][]byte{},
		versions:  map[pom.Coordinate][]string{},
	}
}

// AddPom registers p so it can be downloaded at its own (groupId,
// artifactId, version), and records its version among the coordinate's
// known versions for range resolution.
func (u *Universe) AddPom(p *pom.RawPom) *pom.RawPom {
	key := artifactKey{groupID: p.GroupID, artifactID: p.ArtifactID, version: p.Version}
	u.poms[key] = p
	coord := pom.Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
	u.versions[coord] = append(u.versions[coord], p.Version)
	return p
}

// AddArtifact registers raw bytes for a (possibly classified) artifact.
func (u *Universe) AddArtifact(groupID, artifactID, version, classifier string, data []byte) {
	u.artifacts[artifactKey{groupID, artifactID, version, classifier}] = data
}

// DownloadPom implements downloader.Downloader.
func (u *Universe) DownloadPom(_ context.Context, groupID, artifactID, version string, classifier, relativePath, originatingPom string, repositories []pom.Repository) (*pom.RawPom, error) {
	p, ok := u.poms[artifactKey{groupID: groupID, artifactID: artifactID, version: version}]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s:%s (required by %s)", downloader.ErrNotFound, groupID, artifactID, version, originatingPom)
	}
	return p, nil
}

// DownloadArtifactBytes implements downloader.Downloader.
func (u *Universe) DownloadArtifactBytes(_ context.Context, coordinate pom.Coordinate, classifier, version string) ([]byte, error) {
	data, ok := u.artifacts[artifactKey{coordinate.GroupID, coordinate.ArtifactID, version, classifier}]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s classifier=%q", downloader.ErrNotFound, coordinate, version, classifier)
	}
	return data, nil
}

// FindVersions implements downloader.Downloader.
func (u *Universe) FindVersions(_ context.Context, coordinate pom.Coordinate) ([]string, error) {
	versions := append([]string(nil), u.versions[coordinate]...)
	sort.Strings(versions)
	return versions, nil
}

// Dep is a convenience constructor for a pom.RawDependency in test data.
func Dep(groupID, artifactID, version, scope string) pom.RawDependency {
	return pom.RawDependency{GroupID: groupID, ArtifactID: artifactID, Version: version, Scope: scope}
}

// ManagedDep is a convenience constructor for a pom.RawDependency destined
// for a <dependencyManagement> block.
func ManagedDep(groupID, artifactID, version, scope string) pom.RawDependency {
	return pom.RawDependency{GroupID: groupID, ArtifactID: artifactID, Version: version, Scope: scope}
}

// ImportDep is a convenience constructor for a <scope>import</scope> BOM
// reference in a <dependencyManagement> block.
func ImportDep(groupID, artifactID, version string) pom.RawDependency {
	return pom.RawDependency{GroupID: groupID, ArtifactID: artifactID, Version: version, Type: "pom", Scope: "import"}
}
