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

// Package resolver implements the Maven transitive-dependency resolver: a
// breadth-first work queue producing one PartialModel per task, followed
// by a depth-first assembly pass that splices in inherited parent
// dependencies under conflict-resolved versions.
package resolver

import (
	"sort"
	"strings"

	"github.com/google/mvnresolve/pom"
	"github.com/google/mvnresolve/scope"
)

// ResolutionTask is a node in the breadth-first work queue. Two tasks
// describe the same node iff their key() matches; the repository list and
// seenParents set are carried for use while processing the task but are
// excluded from its identity.
type ResolutionTask struct {
	Scope        scope.Scope
	POM          *pom.RawPom
	Exclusions   []pom.Exclusion
	Optional     bool
	Classifier   string
	Version      string
	Repositories []pom.Repository
	SeenParents  []pom.GAV

	// OriginatingPom names the POM that declared this dependency, for
	// diagnostics in download errors.
	OriginatingPom string

	// IsRoot marks the single task created directly by Resolve, as
	// opposed to one enqueued while walking dependencies. Dependencies
	// declared on a root task keep their requested scope as their
	// effective scope (scope.RootScope); dependencies of every other task
	// get theirs from scope.TransitiveOf.
	IsRoot bool
}

type taskKey struct {
	scope      scope.Scope
	pom        *pom.RawPom
	exclusions string
	optional   bool
	classifier string
	version    string
}

func (t *ResolutionTask) key() taskKey {
	excl := make([]string, len(t.Exclusions))
	for i, e := range t.Exclusions {
		excl[i] = e.GroupID + ":" + e.ArtifactID
	}
	sort.Strings(excl)
	return taskKey{
		scope:      t.Scope,
		pom:        t.POM,
		exclusions: strings.Join(excl, ","),
		optional:   t.Optional,
		classifier: t.Classifier,
		version:    t.Version,
	}
}

// PartialTreeKey uniquely identifies a PartialModel's coordinate.
type PartialTreeKey = pom.GAV

// ManagedDependency is a dependencyManagement entry after per-entry
// property evaluation. Imported reports whether it was pulled in via
// <scope>import</scope>, and ImportedFrom records the BOM coordinate it
// came from (the zero value if it was declared directly).
type ManagedDependency struct {
	Dependency pom.RawDependency
	Imported   bool
	ImportedFrom pom.GAV
}

// PartialModel is the per-task output of the BFS resolution worker: the
// task's own data plus everything that can be computed without visiting
// the rest of the tree.
type PartialModel struct {
	SourcePath           string
	POM                  *pom.RawPom
	Parent               *ResolvedPom
	DependencyManagement []ManagedDependency
	Children             []*ResolutionTask
	Licenses             []pom.License
	Repositories         []pom.Repository
	Properties           map[string]string
}

// Dependency is an edge in the resolved output graph.
type Dependency struct {
	Scope            scope.Scope
	Classifier       string
	Optional         bool
	Target           *ResolvedPom
	RequestedVersion string
	Exclusions       []pom.Exclusion
}

// ResolvedPom is the fully assembled output of resolving one Maven
// coordinate: every transitive dependency, with scope, classifier,
// optional flag and conflict-resolved version.
type ResolvedPom struct {
	GroupID         string
	ArtifactID      string
	Version         string
	SnapshotVersion string

	Parent *ResolvedPom

	Dependencies         []*Dependency
	DependencyManagement []ManagedDependency
	Licenses             []pom.License
	Repositories         []pom.Repository
	Properties           map[string]string
}

// Coordinate returns the group:artifact:version identity of r.
func (r *ResolvedPom) Coordinate() pom.GAV {
	return pom.GAV{Coordinate: pom.Coordinate{GroupID: r.GroupID, ArtifactID: r.ArtifactID}, Version: r.Version}
}
