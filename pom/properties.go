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

import "strings"

// MergeParent fills in the fields of p that are inherited from parent when
// p itself leaves them unset. This covers only GroupID and Version; other
// scalar fields are not inherited here, and Dependencies,
// DependencyManagement and Repositories are
// spliced in by the resolver's assembler, under conflict-resolved
// versions, rather than flatly appended here.
func (p *RawPom) MergeParent(parent *RawPom) {
	if p.GroupID == "" {
		p.GroupID = parent.GroupID
	}
	if p.Version == "" {
		p.Version = parent.Version
	}
}

// HasPlaceholder reports whether s still contains `${`, the opening of a
// placeholder, whether or not a closing `}` follows it.
func HasPlaceholder(s string) bool {
	return strings.Contains(s, "${")
}
