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

package resolver_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/mvnresolve/pom"
	"github.com/google/mvnresolve/resolver"
	"github.com/google/mvnresolve/resolver/resolvertest"
	"github.com/google/mvnresolve/scope"
)

func depNames(r *resolver.ResolvedPom) []string {
	var out []string
	for _, d := range r.Dependencies {
		out = append(out, d.Target.Coordinate().String())
	}
	return out
}

// Scenario 1: direct jar dependency.
func TestDirectJar(t *testing.T) {
	u := resolvertest.New()
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "a", Version: "1.0"})
	root := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "root", Version: "1.0",
		Dependencies: []pom.RawDependency{resolvertest.Dep("com.example", "a", "1.0", "")},
	})

	got, err := resolver.New(u).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Dependencies) != 1 {
		t.Fatalf("want 1 dependency, got %d (%v)", len(got.Dependencies), depNames(got))
	}
	dep := got.Dependencies[0]
	if dep.Scope != scope.Compile {
		t.Errorf("scope = %v, want Compile", dep.Scope)
	}
	if dep.Target.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", dep.Target.Version)
	}
}

// Scenario 2: transitive conflict, nearer wins.
func TestTransitiveConflictNearerWins(t *testing.T) {
	u := resolvertest.New()
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "b", Version: "2.0"})
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "b", Version: "1.0"})
	u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "a", Version: "1.0",
		Dependencies: []pom.RawDependency{resolvertest.Dep("com.example", "b", "2.0", "")},
	})
	root := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "root", Version: "1.0",
		Dependencies: []pom.RawDependency{
			resolvertest.Dep("com.example", "a", "1.0", ""),
			resolvertest.Dep("com.example", "b", "1.0", ""),
		},
	})

	got, err := resolver.New(u).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	bVersions := map[string]bool{}
	for _, d := range got.Dependencies {
		if d.Target.ArtifactID == "b" {
			bVersions[d.Target.Version] = true
		}
		for _, dd := range d.Target.Dependencies {
			if dd.Target.ArtifactID == "b" {
				bVersions[dd.Target.Version] = true
			}
		}
	}
	if len(bVersions) != 1 || !bVersions["1.0"] {
		t.Errorf("distinct b versions appearing = %v, want exactly {1.0}", bVersions)
	}
}

// Scenario 3: scope transitivity prunes a Test-scoped transitive dependency.
func TestScopeTransitivityPrunesTest(t *testing.T) {
	u := resolvertest.New()
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "b", Version: "1.0"})
	u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "a", Version: "1.0",
		Dependencies: []pom.RawDependency{resolvertest.Dep("com.example", "b", "1.0", "test")},
	})
	root := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "root", Version: "1.0",
		Dependencies: []pom.RawDependency{resolvertest.Dep("com.example", "a", "1.0", "")},
	})

	got, err := resolver.New(u).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Dependencies) != 1 {
		t.Fatalf("want 1 top-level dependency, got %d", len(got.Dependencies))
	}
	aNode := got.Dependencies[0].Target
	for _, d := range aNode.Dependencies {
		if d.Target.ArtifactID == "b" {
			t.Errorf("b should have been pruned by scope transitivity, found %v", d.Target.Coordinate())
		}
	}
}

// Scenario 4: a BOM import pins an unversioned direct dependency's version.
func TestBOMImportPinsVersion(t *testing.T) {
	u := resolvertest.New()
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "c", Version: "3.0"})
	u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "bom", Version: "1.0", Packaging: "pom",
		DependencyManagement: []pom.RawDependency{resolvertest.ManagedDep("com.example", "c", "3.0", "")},
	})
	root := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "root", Version: "1.0",
		DependencyManagement: []pom.RawDependency{resolvertest.ImportDep("com.example", "bom", "1.0")},
		Dependencies:         []pom.RawDependency{resolvertest.Dep("com.example", "c", "", "")},
	})

	got, err := resolver.New(u).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].Target.Version != "3.0" {
		t.Fatalf("dependencies = %v, want exactly c:3.0", depNames(got))
	}
}

// Scenario 5: a parent cycle is reported with both GAVs present, in order.
func TestParentCycle(t *testing.T) {
	u := resolvertest.New()
	a := &pom.RawPom{GroupID: "com.example", ArtifactID: "a", Version: "1.0"}
	b := &pom.RawPom{GroupID: "com.example", ArtifactID: "b", Version: "1.0"}
	a.Parent = &pom.Parent{GAV: pom.GAV{Coordinate: pom.Coordinate{GroupID: "com.example", ArtifactID: "b"}, Version: "1.0"}}
	b.Parent = &pom.Parent{GAV: pom.GAV{Coordinate: pom.Coordinate{GroupID: "com.example", ArtifactID: "a"}, Version: "1.0"}}
	u.AddPom(a)
	u.AddPom(b)

	_, err := resolver.New(u).Resolve(context.Background(), a)
	if err == nil {
		t.Fatal("Resolve: want ParentCycle error, got nil")
	}
	var rerr *resolver.Error
	if !errors.As(err, &rerr) || rerr.Kind != resolver.KindParentCycle {
		t.Fatalf("err = %v, want a resolver.Error of KindParentCycle", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "com.example:a:1.0") || !strings.Contains(msg, "com.example:b:1.0") {
		t.Errorf("error message %q does not mention both GAVs", msg)
	}
	if strings.Count(msg, "com.example:b:1.0") < 2 {
		t.Errorf("error message %q does not show the cycle closing back on b", msg)
	}
}

// A child POM that redeclares a dependency its parent also declares
// directly must see its own version win, and the coordinate must appear
// exactly once in the resolved output (spec.md's "every declared or
// inherited dependency appears exactly once" invariant).
func TestChildOverridesParentDependencyAppearsOnce(t *testing.T) {
	u := resolvertest.New()
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "x", Version: "1.0"})
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "x", Version: "2.0"})
	parent := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "parent", Version: "1.0",
		Dependencies: []pom.RawDependency{resolvertest.Dep("com.example", "x", "1.0", "")},
	})
	child := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "child", Version: "1.0",
		Parent:       &pom.Parent{GAV: pom.GAV{Coordinate: pom.Coordinate{GroupID: parent.GroupID, ArtifactID: parent.ArtifactID}, Version: parent.Version}},
		Dependencies: []pom.RawDependency{resolvertest.Dep("com.example", "x", "2.0", "")},
	})

	got, err := resolver.New(u).Resolve(context.Background(), child)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var xDeps []*resolver.Dependency
	for _, d := range got.Dependencies {
		if d.Target.ArtifactID == "x" {
			xDeps = append(xDeps, d)
		}
	}
	if len(xDeps) != 1 {
		t.Fatalf("dependencies on x = %d, want exactly 1 (%v)", len(xDeps), depNames(got))
	}
	if xDeps[0].Target.Version != "2.0" {
		t.Errorf("x version = %q, want child's own declared 2.0 to win over inherited 1.0", xDeps[0].Target.Version)
	}
}

// Scenario 6: property indirection resolves an unversioned dependency's
// version through a dependencyManagement entry that itself uses a property.
func TestPropertyIndirection(t *testing.T) {
	u := resolvertest.New()
	u.AddPom(&pom.RawPom{GroupID: "com.example", ArtifactID: "d", Version: "4.0"})
	root := u.AddPom(&pom.RawPom{
		GroupID: "com.example", ArtifactID: "root", Version: "1.0",
		Properties:           map[string]string{"lib.version": "4.0"},
		DependencyManagement: []pom.RawDependency{resolvertest.ManagedDep("com.example", "d", "${lib.version}", "")},
		Dependencies:         []pom.RawDependency{resolvertest.Dep("com.example", "d", "", "")},
	})

	got, err := resolver.New(u).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].Target.Version != "4.0" {
		t.Fatalf("dependencies = %v, want exactly d:4.0", depNames(got))
	}
}
