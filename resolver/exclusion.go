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
	"log/slog"

	"github.com/gobwas/glob"

	"github.com/google/mvnresolve/pom"
)

// exclusionMatcher tests a dependency's group:artifact coordinate against
// a path-accumulated set of exclusion patterns. Patterns use '*' as a
// wildcard over any character sequence; a pattern that fails to compile
// is skipped rather than failing the resolution.
type exclusionMatcher struct {
	pairs []globPair
}

type globPair struct {
	group, artifact glob.Glob
}

func newExclusionMatcher(exclusions []pom.Exclusion, log *slog.Logger) *exclusionMatcher {
	m := &exclusionMatcher{}
	for _, e := range exclusions {
		g, err := glob.Compile(e.GroupID)
		if err != nil {
			log.Debug("skipping exclusion with invalid group pattern", "pattern", e.GroupID, "error", err)
			continue
		}
		a, err := glob.Compile(e.ArtifactID)
		if err != nil {
			log.Debug("skipping exclusion with invalid artifact pattern", "pattern", e.ArtifactID, "error", err)
			continue
		}
		m.pairs = append(m.pairs, globPair{group: g, artifact: a})
	}
	return m
}

// matches reports whether groupID:artifactID is excluded by any pattern.
func (m *exclusionMatcher) matches(groupID, artifactID string) bool {
	for _, p := range m.pairs {
		if p.group.Match(groupID) && p.artifact.Match(artifactID) {
			return true
		}
	}
	return false
}

// accumulate returns the exclusion set a child dependency sees: the
// parent task's own accumulated exclusions plus the exclusions the
// dependency itself declares.
func accumulate(inherited []pom.Exclusion, own []pom.Exclusion) []pom.Exclusion {
	if len(own) == 0 {
		return inherited
	}
	out := make([]pom.Exclusion, 0, len(inherited)+len(own))
	out = append(out, inherited...)
	out = append(out, own...)
	return out
}
