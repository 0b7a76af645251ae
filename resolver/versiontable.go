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

package resolver

import (
	"context"
	"fmt"

	"deps.dev/util/semver"

	"github.com/google/mvnresolve/downloader"
	"github.com/google/mvnresolve/pom"
	"github.com/google/mvnresolve/scope"
)

// RequestedVersion is an entry in the version-selection table: the
// version string a particular (scope, coordinate) pairing asked for,
// along with whichever broader-scope ancestor selection already pinned
// the same coordinate first, if any.
type RequestedVersion struct {
	Coordinate pom.Coordinate
	Nearer     *RequestedVersion
	Version    string
}

// Resolve returns the concrete version r designates: the nearer
// ancestor's resolution if one pinned this coordinate first, otherwise
// r's own version string resolved against the coordinate's published
// versions if it is a Maven range, or returned as-is if it is a hard
// version.
func (r *RequestedVersion) Resolve(ctx context.Context, dl downloader.Downloader) (string, error) {
	if r.Nearer != nil {
		return r.Nearer.Resolve(ctx, dl)
	}
	constraint, err := semver.Maven.ParseConstraint(r.Version)
	if err != nil || constraint.IsSimple() {
		// Not a range, or not parseable as one: treat as a hard version
		// literal, per §4.4's note that non-range-aware implementations
		// must document that choice.
		return r.Version, nil
	}
	versions, err := dl.FindVersions(ctx, r.Coordinate)
	if err != nil {
		return "", fmt.Errorf("finding versions for range %s of %s: %w", r.Version, r.Coordinate, err)
	}
	var best string
	for _, v := range versions {
		if !constraint.Match(v) {
			continue
		}
		if best == "" || semver.Maven.Compare(best, v) < 0 {
			best = v
		}
	}
	if best == "" {
		return "", fmt.Errorf("no published version of %s satisfies range %s", r.Coordinate, r.Version)
	}
	return best, nil
}

// versionTable is the scope-ordered mapping used to answer "what ancestor
// scope already pinned this coordinate". selectVersion both looks up and
// records entries: the resolution worker calls it for each surviving
// dependency before that dependency's child task is created, and the
// assembler's inheritance splice calls it for each inherited dependency,
// so entries are also added during assembly.
type versionTable struct {
	byScope map[scope.Scope]map[pom.Coordinate]*RequestedVersion
}

func newVersionTable() *versionTable {
	return &versionTable{byScope: map[scope.Scope]map[pom.Coordinate]*RequestedVersion{}}
}

// select implements §4.4's selectVersion: it looks through every scope
// ranked at or below sc (headMap(scope, inclusive=true) in ascending order)
// for a prior selection of coord, and either returns the existing entry
// for (sc, coord) or creates one pointing at that nearer ancestor.
func (t *versionTable) selectVersion(sc scope.Scope, coord pom.Coordinate, version string) *RequestedVersion {
	var nearer *RequestedVersion
	for _, s := range scope.Ordered() {
		if m, ok := t.byScope[s]; ok {
			if rv, ok := m[coord]; ok {
				nearer = rv
				break
			}
		}
		if s == sc {
			break
		}
	}

	m, ok := t.byScope[sc]
	if !ok {
		m = map[pom.Coordinate]*RequestedVersion{}
		t.byScope[sc] = m
	}
	if rv, ok := m[coord]; ok {
		return rv
	}
	rv := &RequestedVersion{Coordinate: coord, Nearer: nearer, Version: version}
	m[coord] = rv
	return rv
}
