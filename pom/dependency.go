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

package pom

// Exclusion is a (groupId, artifactId) glob pattern pair; dependencies
// matching it are pruned from the subtree below the dependency that
// declares it.
type Exclusion struct {
	GroupID    string
	ArtifactID string
}

// RawDependency is a dependency exactly as declared in a pom.xml, before
// property evaluation or dependency-management back-fill.
type RawDependency struct {
	GroupID    string
	ArtifactID string
	// Version may contain ${...} placeholders, or be empty if it is meant
	// to be supplied by dependency management.
	Version string
	// Type defaults to "jar" when empty.
	Type       string
	Classifier string
	// Scope may be empty, meaning Compile.
	Scope      string
	Exclusions []Exclusion
	Optional   bool
}

// EffectiveType returns d.Type, defaulting to "jar".
func (d *RawDependency) EffectiveType() string {
	if d.Type == "" {
		return "jar"
	}
	return d.Type
}

// Key uniquely identifies a dependency declaration within a single POM's
// dependencies or dependencyManagement list, ignoring version and scope.
type Key struct {
	GroupID    string
	ArtifactID string
	Type       string
	Classifier string
}

// Key returns the Key for d.
func (d *RawDependency) Key() Key {
	return Key{
		GroupID:    d.GroupID,
		ArtifactID: d.ArtifactID,
		Type:       d.EffectiveType(),
		Classifier: d.Classifier,
	}
}

// Coordinate returns the group:artifact coordinate of d.
func (d *RawDependency) Coordinate() Coordinate {
	return Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// MaxImports bounds the number of dependencyManagement BOM imports
// Flatten will follow for a single POM, guarding against import cycles
// between BOMs.
const MaxImports = 300

// GetDependencyManagement fetches the dependencyManagement list of the
// BOM identified by groupID:artifactID:version. Implementations typically
// delegate to a Downloader.
type GetDependencyManagement func(groupID, artifactID, version string) ([]RawDependency, error)

// Flatten deduplicates p's Dependencies and DependencyManagement, resolves
// <scope>import</scope> BOM entries in DependencyManagement transitively
// (up to MaxImports), and back-fills each dependency's version, scope and
// exclusions from dependency management when the dependency itself omits
// them. It mutates p in place.
//
// The resolver runs this on the POM each resolve call starts from (the
// root, and each parent or imported BOM a nested resolve starts from),
// before BFS begins; dependency POMs reached during BFS are not
// flattened. It is distinct from
// the per-task import-BOM handling the resolver performs for a task's own
// dependencyManagement block while walking the tree.
func (p *RawPom) Flatten(getManagement GetDependencyManagement) {
	addManagement := func(deps []RawDependency, m map[Key]RawDependency) (keys []Key, imports []RawDependency) {
		for _, d := range deps {
			if d.Scope == "import" {
				imports = append(imports, d)
				continue
			}
			k := d.Key()
			if _, ok := m[k]; !ok {
				m[k] = d
				keys = append(keys, k)
			}
		}
		return keys, imports
	}

	deps := make(map[Key]RawDependency, len(p.Dependencies))
	depKeys := make([]Key, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		k := d.Key()
		if _, ok := deps[k]; !ok {
			deps[k] = d
			depKeys = append(depKeys, k)
		}
	}

	management := make(map[Key]RawDependency, len(p.DependencyManagement))
	managementKeys, imports := addManagement(p.DependencyManagement, management)

	imported := make(map[Key]bool)
	for n := 0; n < MaxImports && len(imports) > 0; n++ {
		d := imports[0]
		imports = imports[1:]
		k := d.Key()
		if imported[k] {
			continue
		}
		imported[k] = true
		if d.EffectiveType() != "pom" {
			continue
		}
		bom, err := getManagement(d.GroupID, d.ArtifactID, d.Version)
		if err != nil {
			continue
		}
		newKeys, newImports := addManagement(bom, management)
		managementKeys = append(managementKeys, newKeys...)
		imports = append(newImports, imports...)
	}

	p.Dependencies = make([]RawDependency, 0, len(depKeys))
	for _, k := range depKeys {
		d := deps[k]
		if dm, ok := management[k]; ok {
			if d.Version == "" {
				d.Version = dm.Version
			}
			if d.Scope == "" {
				d.Scope = dm.Scope
			}
			if len(d.Exclusions) == 0 {
				d.Exclusions = dm.Exclusions
			}
		}
		p.Dependencies = append(p.Dependencies, d)
	}

	p.DependencyManagement = make([]RawDependency, 0, len(managementKeys))
	for _, k := range managementKeys {
		p.DependencyManagement = append(p.DependencyManagement, management[k])
	}
}
