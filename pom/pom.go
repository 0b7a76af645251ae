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

// Package pom holds the raw, already-parsed Maven POM data model consumed
// by the resolver. It performs no XML parsing and no I/O; producing a
// RawPom from pom.xml bytes is the job of an upstream collaborator.
package pom

import "fmt"

// Coordinate identifies a Maven artifact without a version.
type Coordinate struct {
	GroupID    string
	ArtifactID string
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%s", c.GroupID, c.ArtifactID)
}

// GAV is a fully qualified Maven artifact identity: group, artifact and
// version.
type GAV struct {
	Coordinate
	Version string
}

func (g GAV) String() string {
	return fmt.Sprintf("%s:%s:%s", g.GroupID, g.ArtifactID, g.Version)
}

// Parent identifies the parent POM declared by a project, along with the
// relative filesystem path a build tool would use to find it without
// contacting a repository.
type Parent struct {
	GAV
	RelativePath string
}

// RawPom is a POM that has been parsed but not yet resolved: version
// strings may still contain `${...}` placeholders, the parent may be
// unset, and dependencies are exactly as declared (after profile
// activation, which is applied upstream — see the pom/profile package).
type RawPom struct {
	GroupID    string
	ArtifactID string
	Version    string

	Parent *Parent

	Packaging string

	Properties map[string]string

	DependencyManagement []RawDependency
	Dependencies         []RawDependency

	Repositories []Repository
	Licenses     []string
}

// Name returns the group:artifact identity of the POM, ignoring version.
func (p *RawPom) Name() string {
	return fmt.Sprintf("%s:%s", p.GroupID, p.ArtifactID)
}

// Repository describes a remote Maven repository a POM declares.
type Repository struct {
	ID  string
	URL string
}
