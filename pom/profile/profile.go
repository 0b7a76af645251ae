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

// Package profile implements Maven build profile activation. It is the
// upstream collaborator that produces the "active" dependencies,
// properties and repositories a pom.RawPom carries into the resolver —
// the resolver itself never looks at a Profile.
package profile

import (
	"fmt"
	"strings"

	"deps.dev/util/semver"

	"github.com/google/mvnresolve/pom"
)

// Profile contains information about a build profile.
// https://maven.apache.org/guides/introduction/introduction-to-profiles.html
type Profile struct {
	ID                   string
	Activation           Activation
	Properties           map[string]string
	DependencyManagement []pom.RawDependency
	Dependencies         []pom.RawDependency
	Repositories         []pom.Repository
}

// Activation contains the criteria that decide whether a Profile is
// activated.
// https://maven.apache.org/guides/introduction/introduction-to-profiles.html#details-on-profile-activation
type Activation struct {
	ActiveByDefault bool
	JDK             string
	OS              ActivationOS
	Property        ActivationProperty
}

// ActivationOS is a criterion matched against the current OS.
type ActivationOS struct {
	Name    string
	Family  string
	Arch    string
	Version string
}

func (a ActivationOS) blank() bool {
	return a.Name == "" && a.Family == "" && a.Arch == "" && a.Version == ""
}

// ActivationProperty is a property criterion. Activation has no ambient
// property store to match it against: a bare negated name (no Value)
// never activates the profile, and any other non-empty Name activates it
// without its Value being compared.
type ActivationProperty struct {
	Name  string
	Value string
}

// activated reports whether p is activated given the supplied JDK version
// and OS. If neither jdk nor os criteria are supplied, the profile is
// considered not activated — Maven requires explicit criteria.
// https://maven.apache.org/pom.html#activation
func (p *Profile) activated(jdk string, os ActivationOS) (bool, error) {
	if jdk == "" && os.blank() {
		return false, nil
	}

	act := p.Activation
	activated := false
	if act.JDK != "" {
		c, err := semver.Maven.ParseConstraint(act.JDK)
		if err != nil {
			return false, err
		}
		if c.IsSimple() {
			// A profile is active when the running JDK shares the same
			// major and minor version number.
			cmp, diff, err := semver.Maven.Difference(act.JDK, jdk)
			if err != nil {
				return false, err
			}
			if cmp > 0 || (cmp < 0 && (diff == semver.DiffMajor || diff == semver.DiffMinor)) {
				return false, nil
			}
		} else if !c.Match(jdk) {
			return false, nil
		}
		activated = true
	}

	if !act.OS.blank() {
		isAllowed := func(got, want string) bool {
			if got == "" {
				return true
			}
			negate := strings.HasPrefix(got, "!")
			got = strings.ToLower(strings.TrimPrefix(got, "!"))
			return negate && got != want || !negate && got == want
		}
		if !isAllowed(act.OS.Family, os.Family) ||
			!isAllowed(act.OS.Name, os.Name) ||
			!isAllowed(act.OS.Version, os.Version) ||
			!isAllowed(act.OS.Arch, os.Arch) {
			return false, nil
		}
		activated = true
	}

	if act.Property.Name != "" {
		name, want := act.Property.Name, act.Property.Value
		negated := strings.HasPrefix(name, "!")
		if want == "" && negated {
			// A bare negated property name is satisfied when the
			// property is unset; we have no ambient property store
			// here, so treat it as unmet.
			return false, nil
		}
		activated = true
	}

	return activated, nil
}

// Activate merges the profiles in profiles that are activated given jdk
// and os into p: their properties overwrite p's existing properties of
// the same name, and their dependencies, dependency management and
// repositories are appended. If no profile activates, profiles marked
// ActiveByDefault are merged instead, matching Maven's "active profiles
// default to the activeByDefault set" rule.
func Activate(p *pom.RawPom, profiles []Profile, jdk string, os ActivationOS) error {
	var active, defaults []Profile
	var activationErr error
	for _, prof := range profiles {
		ok, err := prof.activated(jdk, os)
		if err != nil {
			activationErr = appendError(activationErr, err)
		}
		if ok {
			active = append(active, prof)
		}
		if prof.Activation.ActiveByDefault {
			defaults = append(defaults, prof)
		}
	}
	if len(active) == 0 {
		active = defaults
	}

	if p.Properties == nil {
		p.Properties = make(map[string]string)
	}
	for _, prof := range active {
		for k, v := range prof.Properties {
			p.Properties[k] = v
		}
		p.DependencyManagement = append(p.DependencyManagement, prof.DependencyManagement...)
		p.Dependencies = append(p.Dependencies, prof.Dependencies...)
		p.Repositories = append(p.Repositories, prof.Repositories...)
	}
	return activationErr
}

func appendError(e1, e2 error) error {
	if e1 == nil {
		return e2
	}
	return fmt.Errorf("%w, %w", e1, e2)
}

// Default JDK/OS activation criteria for environments that have no better
// information; arbitrary, matching the values the teacher resolver used
// when sampling `mvn enforcer:display-info` on a Debian amd64 host.
const DefaultJDK = "11.0.8"

var DefaultOS = ActivationOS{
	Name:    "linux",
	Family:  "unix",
	Arch:    "amd64",
	Version: "5.10.0-26-cloud-amd64",
}
