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
	"fmt"
	"strings"

	"github.com/google/mvnresolve/pom"
)

// ErrorKind classifies a resolution error.
type ErrorKind int

const (
	// KindParse covers malformed POM content, malformed repository URLs
	// and unresolved property placeholders.
	KindParse ErrorKind = iota
	// KindMissingArtifact means the downloader returned ErrNotFound for a
	// coordinate the resolver needed.
	KindMissingArtifact
	// KindManagedDependencyMissingVersion means a dependencyManagement
	// entry declared no version and none could be inferred.
	KindManagedDependencyMissingVersion
	// KindParentCycle means a POM's parent chain revisits a GAV already
	// on the path.
	KindParentCycle
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindMissingArtifact:
		return "missing artifact"
	case KindManagedDependencyMissingVersion:
		return "managed dependency missing version"
	case KindParentCycle:
		return "parent cycle"
	default:
		return "unknown"
	}
}

// Error is the error type every resolution failure is reported as. Every
// non-fatal failure kind in the design (MissingArtifact,
// ManagedDependencyMissingVersion, ParentCycle) is surfaced as an Error
// with the appropriate Kind rather than as a distinct Go type, matching
// §7 of the resolver design, which treats them all as ParseError
// variants distinguished only by message and cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &resolver.Error{Kind: resolver.KindParentCycle}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func parseError(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

func wrapParseError(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func missingArtifactError(coord pom.GAV, originatingPom string, cause error) *Error {
	msg := fmt.Sprintf("%s not found", coord)
	if originatingPom != "" {
		msg += fmt.Sprintf(" (required by %s)", originatingPom)
	}
	return &Error{Kind: KindMissingArtifact, Message: msg, Cause: cause}
}

func managedDependencyMissingVersionError(coord pom.Coordinate) *Error {
	return &Error{Kind: KindManagedDependencyMissingVersion, Message: fmt.Sprintf("dependencyManagement entry %s has no version", coord)}
}

func parentCycleError(chain []pom.GAV) *Error {
	names := make([]string, len(chain))
	for i, g := range chain {
		names[i] = g.String()
	}
	return &Error{Kind: KindParentCycle, Message: "parent cycle: " + strings.Join(names, " -> ")}
}
