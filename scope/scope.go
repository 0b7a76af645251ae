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

// Package scope implements the Maven dependency scope lattice: the total
// order used for conflict-resolution lookups, and the partial
// transitive-scope function used while walking the dependency tree.
package scope

import "fmt"

// Scope is the lifecycle class of a dependency.
type Scope int

const (
	None Scope = iota
	Compile
	Provided
	Runtime
	Test
	System
	Import
)

var names = map[Scope]string{
	None:     "none",
	Compile:  "compile",
	Provided: "provided",
	Runtime:  "runtime",
	Test:     "test",
	System:   "system",
	Import:   "import",
}

func (s Scope) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Parse maps a pom.xml <scope> string to a Scope. An empty string is
// Compile, Maven's default.
func Parse(s string) (Scope, error) {
	switch s {
	case "", "compile":
		return Compile, nil
	case "provided":
		return Provided, nil
	case "runtime":
		return Runtime, nil
	case "test":
		return Test, nil
	case "system":
		return System, nil
	case "import":
		return Import, nil
	default:
		return None, fmt.Errorf("unrecognized scope %q", s)
	}
}

// Less reports whether s orders before o in the total order used by the
// version-selection table: None < Compile < Provided < Runtime < Test <
// System. Import never appears as a dependency's effective scope (it is
// only used to tag dependencyManagement entries), but is given the highest
// rank so a headMap(Import, inclusive) query observes every other scope.
func (s Scope) Less(o Scope) bool {
	return rank(s) < rank(o)
}

func rank(s Scope) int {
	switch s {
	case None:
		return 0
	case Compile:
		return 1
	case Provided:
		return 2
	case Runtime:
		return 3
	case Test:
		return 4
	case System:
		return 5
	case Import:
		return 6
	default:
		return 99
	}
}

// transitiveTable[parent][requested] gives the effective scope of a
// dependency declared with scope `requested`, appearing transitively
// below a dependency that was pulled in with scope `parent`. A missing
// entry means the dependency is pruned.
// https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html#dependency-scope
var transitiveTable = map[Scope]map[Scope]Scope{
	Compile: {
		Compile: Compile,
		Runtime: Runtime,
	},
	Provided: {
		Compile: Provided,
		Runtime: Provided,
	},
	Runtime: {
		Compile: Runtime,
		Runtime: Runtime,
	},
	Test: {
		Compile: Test,
		Runtime: Test,
	},
	// System and Import dependencies do not carry transitive dependencies.
}

// TransitiveOf returns the effective scope a dependency declared with
// scope `requested` takes on when it appears below a dependency that was
// reached with scope `parent`, and whether the dependency survives at
// all (false means it is pruned). Use RootScope, not TransitiveOf, for
// dependencies declared directly on the POM being resolved.
func TransitiveOf(parent, requested Scope) (Scope, bool) {
	row, ok := transitiveTable[parent]
	if !ok {
		return None, false
	}
	s, ok := row[requested]
	return s, ok
}

// Ordered returns every Scope except None in ascending rank order, for
// callers that need to walk the conflict-resolution lookup from the lowest
// rank to the highest.
func Ordered() []Scope {
	return []Scope{Compile, Provided, Runtime, Test, System, Import}
}

// RootScope returns the effective scope of a dependency declared directly
// on the POM being resolved: it is simply the dependency's own requested
// scope, Provided/System/Test included. Every other level of the tree
// goes through TransitiveOf instead.
func RootScope(requested Scope) Scope {
	return requested
}
