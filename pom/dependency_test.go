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

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlattenBackfillsFromManagement(t *testing.T) {
	p := &RawPom{
		GroupID:    "com.example",
		ArtifactID: "app",
		Version:    "1.0",
		Dependencies: []RawDependency{
			{GroupID: "com.example", ArtifactID: "lib"},
		},
		DependencyManagement: []RawDependency{
			{GroupID: "com.example", ArtifactID: "lib", Version: "2.0", Scope: "runtime"},
		},
	}
	p.Flatten(func(groupID, artifactID, version string) ([]RawDependency, error) {
		t.Fatalf("unexpected BOM fetch for %s:%s:%s", groupID, artifactID, version)
		return nil, nil
	})

	want := []RawDependency{
		{GroupID: "com.example", ArtifactID: "lib", Version: "2.0", Scope: "runtime"},
	}
	if diff := cmp.Diff(want, p.Dependencies); diff != "" {
		t.Errorf("Flatten() dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenDeduplicatesFirstWins(t *testing.T) {
	p := &RawPom{
		Dependencies: []RawDependency{
			{GroupID: "g", ArtifactID: "a", Version: "1.0"},
			{GroupID: "g", ArtifactID: "a", Version: "2.0"},
		},
	}
	p.Flatten(func(groupID, artifactID, version string) ([]RawDependency, error) { return nil, nil })

	want := []RawDependency{{GroupID: "g", ArtifactID: "a", Version: "1.0"}}
	if diff := cmp.Diff(want, p.Dependencies); diff != "" {
		t.Errorf("Flatten() dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenResolvesBOMImportsTransitively(t *testing.T) {
	p := &RawPom{
		Dependencies: []RawDependency{
			{GroupID: "com.example", ArtifactID: "lib"},
		},
		DependencyManagement: []RawDependency{
			{GroupID: "com.example", ArtifactID: "bom", Version: "1.0", Type: "pom", Scope: "import"},
		},
	}

	fetches := 0
	p.Flatten(func(groupID, artifactID, version string) ([]RawDependency, error) {
		fetches++
		if groupID == "com.example" && artifactID == "bom" {
			return []RawDependency{
				{GroupID: "com.example", ArtifactID: "lib", Version: "3.1.4"},
				{GroupID: "com.example", ArtifactID: "nested-bom", Version: "1.0", Type: "pom", Scope: "import"},
			}, nil
		}
		if groupID == "com.example" && artifactID == "nested-bom" {
			return []RawDependency{
				{GroupID: "com.example", ArtifactID: "extra", Version: "9.9"},
			}, nil
		}
		return nil, fmt.Errorf("unexpected fetch %s:%s:%s", groupID, artifactID, version)
	})

	if fetches != 2 {
		t.Errorf("expected 2 BOM fetches, got %d", fetches)
	}
	if len(p.Dependencies) != 1 || p.Dependencies[0].Version != "3.1.4" {
		t.Errorf("lib dependency not backfilled from BOM: %+v", p.Dependencies)
	}
}

func TestFlattenStopsOnImportCycle(t *testing.T) {
	p := &RawPom{
		DependencyManagement: []RawDependency{
			{GroupID: "com.example", ArtifactID: "bom-a", Version: "1.0", Type: "pom", Scope: "import"},
		},
	}
	calls := 0
	p.Flatten(func(groupID, artifactID, version string) ([]RawDependency, error) {
		calls++
		other := "bom-b"
		if artifactID == "bom-b" {
			other = "bom-a"
		}
		return []RawDependency{
			{GroupID: "com.example", ArtifactID: other, Version: "1.0", Type: "pom", Scope: "import"},
		}, nil
	})
	if calls != 2 {
		t.Errorf("expected the cycle to be visited exactly once per BOM, got %d calls", calls)
	}
}

func TestEffectiveType(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"", "jar"},
		{"pom", "pom"},
		{"war", "war"},
	}
	for _, tc := range tests {
		d := RawDependency{Type: tc.typ}
		if got := d.EffectiveType(); got != tc.want {
			t.Errorf("EffectiveType() with Type=%q = %q, want %q", tc.typ, got, tc.want)
		}
	}
}
