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

import "testing"

func TestMergeParentFillsBlankFieldsOnly(t *testing.T) {
	p := &RawPom{ArtifactID: "child"}
	parent := &RawPom{GroupID: "com.example", ArtifactID: "parent", Version: "1.0"}
	p.MergeParent(parent)

	if p.GroupID != "com.example" {
		t.Errorf("GroupID = %q, want inherited com.example", p.GroupID)
	}
	if p.Version != "1.0" {
		t.Errorf("Version = %q, want inherited 1.0", p.Version)
	}
	if p.ArtifactID != "child" {
		t.Errorf("ArtifactID = %q, want own value preserved", p.ArtifactID)
	}
}

func TestMergeParentDoesNotOverwriteOwnValues(t *testing.T) {
	p := &RawPom{GroupID: "com.own", Version: "2.0"}
	p.MergeParent(&RawPom{GroupID: "com.example", Version: "1.0"})

	if p.GroupID != "com.own" || p.Version != "2.0" {
		t.Errorf("own fields were overwritten: %+v", p)
	}
}

func TestHasPlaceholder(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", false},
		{"1.2.3", false},
		{"${project.version}", true},
		{"prefix-${foo}-suffix", true},
		{"${unterminated", true},
		{"}${", true},
	}
	for _, tc := range tests {
		if got := HasPlaceholder(tc.s); got != tc.want {
			t.Errorf("HasPlaceholder(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}
