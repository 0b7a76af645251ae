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
	"strings"

	"github.com/google/mvnresolve/pom"
)

// maxPropertyPasses bounds the fixed-point loop property evaluation runs:
// a managed version can itself be a property reference one level deep
// (e.g. dependencyManagement pins a BOM whose own version is a property),
// so a single substitution pass is not always enough. Three passes is
// generous headroom without risking an unbounded loop on a cyclic
// property definition.
const maxPropertyPasses = 3

// evaluator expands ${...} placeholders against a PartialModel, following
// the lookup order: well-known project/parent coordinates, the partial
// model's own active properties, the partial model's dependencyManagement
// (keyed as "groupId:artifactId" for a managed entry's version), the
// resolved parent chain's properties, and finally process-wide ambient
// properties.
type evaluator struct {
	ambient map[string]string
}

func newEvaluator(ambient map[string]string) *evaluator {
	if ambient == nil {
		ambient = map[string]string{}
	}
	return &evaluator{ambient: ambient}
}

// evaluate expands every placeholder in s against pm, iterating to a fixed
// point (capped at maxPropertyPasses). If the result still contains an
// unresolved placeholder, it returns the partially-expanded string and
// false; callers that require a concrete value turn that into a
// property-unresolved error.
func (e *evaluator) evaluate(s string, pm *PartialModel) (string, bool) {
	for i := 0; i < maxPropertyPasses; i++ {
		next := e.expandOnce(s, pm)
		if next == s {
			break
		}
		s = next
	}
	return s, !pom.HasPlaceholder(s)
}

func (e *evaluator) expandOnce(s string, pm *PartialModel) string {
	var out strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			out.WriteString(s)
			break
		}
		end := strings.Index(s[start+2:], "}")
		if end < 0 {
			out.WriteString(s)
			break
		}
		end += start + 2
		key := s[start+2 : end]
		out.WriteString(s[:start])
		if v, ok := e.lookup(key, pm); ok {
			out.WriteString(v)
		} else {
			out.WriteString("${")
			out.WriteString(key)
			out.WriteString("}")
		}
		s = s[end+1:]
	}
	return out.String()
}

func (e *evaluator) lookup(key string, pm *PartialModel) (string, bool) {
	if v, ok := wellKnown(key, pm); ok {
		return v, true
	}
	if v, ok := pm.Properties[key]; ok {
		return v, true
	}
	if v, ok := managedVersionProperty(key, pm.DependencyManagement); ok {
		return v, true
	}
	for parent := pm.Parent; parent != nil; parent = parent.Parent {
		if v, ok := parent.Properties[key]; ok {
			return v, true
		}
	}
	if v, ok := e.ambient[key]; ok {
		return v, true
	}
	return "", false
}

// wellKnown resolves the fixed set of project/pom self-referential
// placeholders. project.version and project.groupId fall through to the
// raw parent declaration when the current POM leaves them blank;
// project.artifactId never does, since Maven requires every POM to
// declare its own artifactId.
func wellKnown(key string, pm *PartialModel) (string, bool) {
	p := pm.POM
	switch key {
	case "project.groupId", "pom.groupId":
		if p.GroupID != "" {
			return p.GroupID, true
		}
		if p.Parent != nil {
			return p.Parent.GroupID, true
		}
		return "", false
	case "project.artifactId", "pom.artifactId":
		return p.ArtifactID, p.ArtifactID != ""
	case "project.version", "pom.version":
		if p.Version != "" {
			return p.Version, true
		}
		if p.Parent != nil {
			return p.Parent.Version, true
		}
		return "", false
	case "project.parent.groupId":
		if p.Parent != nil {
			return p.Parent.GroupID, true
		}
		return "", false
	case "project.parent.artifactId":
		if p.Parent != nil {
			return p.Parent.ArtifactID, true
		}
		return "", false
	case "project.parent.version":
		if p.Parent != nil {
			return p.Parent.Version, true
		}
		return "", false
	}
	return "", false
}

// managedVersionProperty looks up key as a "groupId:artifactId" coordinate
// within the partial model's dependencyManagement, returning the managed
// version for that coordinate. This lets a dependency's version indirect
// through another managed entry's pinned version without naming an
// explicit <properties> entry for it.
func managedVersionProperty(key string, management []ManagedDependency) (string, bool) {
	for _, m := range management {
		if m.Dependency.Coordinate().String() == key {
			return m.Dependency.Version, true
		}
	}
	return "", false
}
