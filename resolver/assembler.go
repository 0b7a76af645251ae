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
	"context"

	"github.com/google/mvnresolve/pom"
)

// assembler runs the second, depth-first pass over the task tree the BFS
// worker built, producing the final ResolvedPom. It shares the
// resolver's partialResults and version table but keeps its own path
// stack so sibling calls don't see each other's in-progress state.
type assembler struct {
	resolver *Resolver
}

// assemble builds the ResolvedPom for task, given the stack of tasks
// currently being assembled above it (for cycle cutting). A nil return
// with a nil error means the subtree could not be assembled and should
// be omitted from its parent's dependency list, never dropped silently
// without the caller knowing.
func (a *assembler) assemble(ctx context.Context, task *ResolutionTask, path []*ResolutionTask) (*ResolvedPom, error) {
	k := task.key()
	for _, p := range path {
		if p.key() == k {
			return nil, nil
		}
	}

	pmModel, ok := a.resolver.partialResults[k]
	if !ok {
		return nil, nil
	}

	// A GAV already fully assembled (in any task context) is reused as-is:
	// a dependency's own transitive closure is a property of the artifact,
	// not of the edge that reached it, matching the Invariants' GAV-keyed
	// `resolved` memo.
	groupID := task.POM.GroupID
	if groupID == "" && pmModel.Parent != nil {
		groupID = pmModel.Parent.GroupID
	}
	gav := pom.GAV{Coordinate: pom.Coordinate{GroupID: groupID, ArtifactID: task.POM.ArtifactID}, Version: task.Version}
	if resolved, ok := a.resolver.shared.resolved[gav]; ok {
		return resolved, nil
	}

	path = append(path, task)

	out := &ResolvedPom{
		GroupID:              task.POM.GroupID,
		ArtifactID:           task.POM.ArtifactID,
		Version:              task.POM.Version,
		SnapshotVersion:      task.Version,
		Parent:               pmModel.Parent,
		DependencyManagement: pmModel.DependencyManagement,
		Licenses:             pmModel.Licenses,
		Properties:           pmModel.Properties,
	}
	if out.Version == "" {
		out.Version = task.Version
	}

	for _, child := range pmModel.Children {
		childResolved, err := a.assemble(ctx, child, path)
		if err != nil {
			return nil, err
		}
		if childResolved == nil {
			continue
		}
		optional := child.Optional
		for _, p := range path[:len(path)-1] {
			optional = optional || p.Optional
		}
		out.Dependencies = append(out.Dependencies, &Dependency{
			Scope:            child.Scope,
			Classifier:       child.Classifier,
			Optional:         optional,
			Target:           childResolved,
			RequestedVersion: child.Version,
			Exclusions:       child.Exclusions,
		})
	}

	if err := a.spliceInheritedDependencies(ctx, task, pmModel, out, path); err != nil {
		return nil, err
	}

	if out.Parent != nil {
		self := &pom.RawPom{GroupID: out.GroupID, Version: out.Version}
		self.MergeParent(&pom.RawPom{GroupID: out.Parent.GroupID, Version: out.Parent.Version})
		out.GroupID, out.Version = self.GroupID, self.Version
	}

	// Repository URLs were already placeholder-expanded and validated in
	// the BFS worker's stageRepositories; nothing further to translate.
	out.Repositories = pmModel.Repositories

	a.resolver.shared.resolved[out.Coordinate()] = out
	return out, nil
}

// spliceInheritedDependencies implements §4.7's inheritance splice: every
// ancestor's own declared dependency is re-checked against the
// version-selection table, and if conflict resolution now prefers a
// different version than the ancestor declared, the conflict-resolved
// POM is downloaded and assembled as an additional dependency of out.
func (a *assembler) spliceInheritedDependencies(ctx context.Context, task *ResolutionTask, pmModel *PartialModel, out *ResolvedPom, path []*ResolutionTask) error {
	for ancestor := pmModel.Parent; ancestor != nil; ancestor = ancestor.Parent {
		for _, dep := range ancestor.Dependencies {
			coord := pom.Coordinate{GroupID: dep.Target.GroupID, ArtifactID: dep.Target.ArtifactID}
			if hasCoordinate(out.Dependencies, coord) {
				// task (or a nearer ancestor already spliced above) declares
				// this coordinate itself; its own version/scope overrides the
				// inherited one, so the dependency appears exactly once.
				continue
			}
			requested := a.resolver.versions.selectVersion(dep.Scope, coord, dep.RequestedVersion)
			resolvedVersion, err := requested.Resolve(ctx, a.resolver.downloader)
			if err != nil || resolvedVersion == dep.Target.Version {
				out.Dependencies = append(out.Dependencies, dep)
				continue
			}

			spliced, err := a.assembleConflictResolved(ctx, task, pmModel, coord, resolvedVersion, dep, path)
			if err != nil || spliced == nil {
				out.Dependencies = append(out.Dependencies, dep)
				continue
			}
			out.Dependencies = append(out.Dependencies, spliced)
		}
	}
	return nil
}

func hasCoordinate(deps []*Dependency, coord pom.Coordinate) bool {
	for _, d := range deps {
		if d.Target.GroupID == coord.GroupID && d.Target.ArtifactID == coord.ArtifactID {
			return true
		}
	}
	return false
}

func (a *assembler) assembleConflictResolved(ctx context.Context, task *ResolutionTask, pmModel *PartialModel, coord pom.Coordinate, version string, original *Dependency, path []*ResolutionTask) (*Dependency, error) {
	childRaw, err := a.resolver.downloadPom(ctx, coord.GroupID, coord.ArtifactID, version, original.Classifier, "", task.POM.Name(), pmModel.Repositories)
	if err != nil {
		return nil, err
	}
	childTask := &ResolutionTask{
		Scope:        original.Scope,
		POM:          childRaw,
		Exclusions:   original.Exclusions,
		Optional:     original.Optional,
		Classifier:   original.Classifier,
		Version:      version,
		Repositories: pmModel.Repositories,
		SeenParents:  task.SeenParents,
	}
	if err := a.resolver.processOnDemand(ctx, childTask); err != nil {
		return nil, err
	}

	resolvedTarget, err := a.assemble(ctx, childTask, path)
	if err != nil || resolvedTarget == nil {
		return nil, err
	}
	return &Dependency{
		Scope:            original.Scope,
		Classifier:       original.Classifier,
		Optional:         original.Optional,
		Target:           resolvedTarget,
		RequestedVersion: version,
		Exclusions:       original.Exclusions,
	}, nil
}
