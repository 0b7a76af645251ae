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
	"net/url"

	"github.com/google/mvnresolve/pom"
	"github.com/google/mvnresolve/scope"
)

// processTask runs the six BFS stages of §4.6 against task, producing its
// PartialModel. A stage-local error is routed through r.fail: under
// continueOnError it is logged and the affected piece (a repository, a
// managed entry, a dependency) is simply omitted; otherwise it aborts the
// whole task.
func (r *Resolver) processTask(ctx context.Context, task *ResolutionTask) (*PartialModel, error) {
	pmModel := &PartialModel{
		SourcePath: task.POM.Name(),
		POM:        task.POM,
		Properties: copyProperties(task.POM.Properties),
	}

	if err := r.stageRepositories(task, pmModel); err != nil {
		return nil, err
	}
	if err := r.stageParent(ctx, task, pmModel); err != nil {
		return nil, err
	}
	if err := r.stageDependencyManagement(ctx, task, pmModel); err != nil {
		return nil, err
	}
	r.stageLicenses(task, pmModel)
	if err := r.stageDependencies(ctx, task, pmModel); err != nil {
		return nil, err
	}

	return pmModel, nil
}

func copyProperties(props map[string]string) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

// stageRepositories implements §4.6 stage 2.
func (r *Resolver) stageRepositories(task *ResolutionTask, pmModel *PartialModel) error {
	var repos []pom.Repository
	for _, repo := range task.POM.Repositories {
		resolvedURL, ok := r.evaluator.evaluate(repo.URL, pmModel)
		if !ok {
			if err := r.fail(parseError("repository %s has an unresolved property in URL %s", repo.ID, repo.URL)); err != nil {
				return err
			}
			continue
		}
		if _, err := url.Parse(resolvedURL); err != nil {
			if err2 := r.fail(wrapParseError(err, "repository %s has a malformed URL %s", repo.ID, resolvedURL)); err2 != nil {
				return err2
			}
			continue
		}
		repos = append(repos, pom.Repository{ID: repo.ID, URL: resolvedURL})
	}
	repos = append(repos, task.Repositories...)
	pmModel.Repositories = repos
	return nil
}

// stageParent implements §4.6 stage 3.
func (r *Resolver) stageParent(ctx context.Context, task *ResolutionTask, pmModel *PartialModel) error {
	if task.POM.Parent == nil {
		return nil
	}
	parentGAV := task.POM.Parent.GAV
	for _, seen := range task.SeenParents {
		if seen == parentGAV {
			return r.fail(parentCycleError(append(append([]pom.GAV{}, task.SeenParents...), parentGAV)))
		}
	}

	parentRaw, err := r.downloadPom(ctx, parentGAV.GroupID, parentGAV.ArtifactID, parentGAV.Version, "", task.POM.Parent.RelativePath, task.POM.Name(), pmModel.Repositories)
	if err != nil {
		return r.fail(missingArtifactError(parentGAV, task.POM.Name(), err))
	}

	if resolved, ok := r.shared.resolved[parentGAV]; ok {
		pmModel.Parent = resolved
		return nil
	}

	child := r.nested(true)
	seenParents := append(append([]pom.GAV{}, task.SeenParents...), parentGAV)
	resolvedParent, err := child.resolveWithSeenParents(ctx, parentRaw, seenParents)
	if err != nil {
		return r.fail(err)
	}
	r.shared.resolved[parentGAV] = resolvedParent
	pmModel.Parent = resolvedParent
	return nil
}

// stageDependencyManagement implements §4.6 stage 4.
func (r *Resolver) stageDependencyManagement(ctx context.Context, task *ResolutionTask, pmModel *PartialModel) error {
	for _, raw := range task.POM.DependencyManagement {
		groupID, ok1 := r.evaluator.evaluate(raw.GroupID, pmModel)
		artifactID, ok2 := r.evaluator.evaluate(raw.ArtifactID, pmModel)
		if !ok1 || !ok2 {
			if err := r.fail(parseError("dependencyManagement entry %s:%s has an unresolved property", raw.GroupID, raw.ArtifactID)); err != nil {
				return err
			}
			continue
		}
		evaluated := raw
		evaluated.GroupID, evaluated.ArtifactID = groupID, artifactID

		if evaluated.EffectiveType() == "pom" && evaluated.Scope == "import" {
			version, ok := r.evaluator.evaluate(evaluated.Version, pmModel)
			if !ok {
				if err := r.fail(managedDependencyMissingVersionError(evaluated.Coordinate())); err != nil {
					return err
				}
				continue
			}
			bomRaw, err := r.downloadPom(ctx, groupID, artifactID, version, "", "", task.POM.Name(), pmModel.Repositories)
			if err != nil {
				if err2 := r.fail(missingArtifactError(pom.GAV{Coordinate: evaluated.Coordinate(), Version: version}, task.POM.Name(), err)); err2 != nil {
					return err2
				}
				continue
			}
			child := r.nested(true)
			resolvedBOM, err := child.resolveWithSeenParents(ctx, bomRaw, task.SeenParents)
			if err != nil {
				if err2 := r.fail(err); err2 != nil {
					return err2
				}
				continue
			}
			bomGAV := pom.GAV{Coordinate: evaluated.Coordinate(), Version: version}
			for _, m := range resolvedBOM.DependencyManagement {
				pmModel.DependencyManagement = append(pmModel.DependencyManagement, ManagedDependency{
					Dependency:   m.Dependency,
					Imported:     true,
					ImportedFrom: bomGAV,
				})
			}
			continue
		}

		version, ok := r.evaluator.evaluate(evaluated.Version, pmModel)
		if !ok || version == "" {
			if err := r.fail(managedDependencyMissingVersionError(evaluated.Coordinate())); err != nil {
				return err
			}
			continue
		}
		evaluated.Version = version
		pmModel.DependencyManagement = append(pmModel.DependencyManagement, ManagedDependency{Dependency: evaluated})
	}
	return nil
}

// stageLicenses implements §4.6 stage 5.
func (r *Resolver) stageLicenses(task *ResolutionTask, pmModel *PartialModel) {
	for _, name := range task.POM.Licenses {
		pmModel.Licenses = append(pmModel.Licenses, pom.CanonicalLicense(name))
	}
}

// stageDependencies implements §4.6 stage 6.
func (r *Resolver) stageDependencies(ctx context.Context, task *ResolutionTask, pmModel *PartialModel) error {
	matcher := newExclusionMatcher(task.Exclusions, r.config.logger)

	for _, d := range task.POM.Dependencies {
		if d.EffectiveType() != "jar" {
			r.config.logger.Debug("pruning non-jar dependency", "coordinate", d.Coordinate(), "type", d.EffectiveType())
			continue
		}
		if d.Optional && !r.config.resolveOptional {
			r.config.logger.Debug("pruning optional dependency", "coordinate", d.Coordinate())
			continue
		}
		if matcher.matches(d.GroupID, d.ArtifactID) {
			r.config.logger.Debug("pruning excluded dependency", "coordinate", d.Coordinate())
			continue
		}

		groupID, ok1 := r.evaluator.evaluate(d.GroupID, pmModel)
		artifactID, ok2 := r.evaluator.evaluate(d.ArtifactID, pmModel)
		if !ok1 || groupID == "" || !ok2 || artifactID == "" {
			if err := r.fail(parseError("dependency %s:%s has an unresolved group or artifact id", d.GroupID, d.ArtifactID)); err != nil {
				return err
			}
			continue
		}
		coord := pom.Coordinate{GroupID: groupID, ArtifactID: artifactID}

		requestedScope, err := scope.Parse(d.Scope)
		if err != nil {
			if err2 := r.fail(wrapParseError(err, "dependency %s has an invalid scope %q", coord, d.Scope)); err2 != nil {
				return err2
			}
			continue
		}

		var effectiveScope scope.Scope
		if task.IsRoot {
			effectiveScope = scope.RootScope(requestedScope)
		} else {
			var survives bool
			effectiveScope, survives = scope.TransitiveOf(task.Scope, requestedScope)
			if !survives {
				r.config.logger.Debug("pruning dependency not carried by transitive scope", "coordinate", coord, "parent_scope", task.Scope, "requested_scope", requestedScope)
				continue
			}
		}

		version, ok := r.resolveDependencyVersion(d, coord, pmModel)
		if !ok {
			if err := r.fail(parseError("could not resolve a version for dependency %s", coord)); err != nil {
				return err
			}
			continue
		}

		requested := r.versions.selectVersion(effectiveScope, coord, version)
		finalVersion, err := requested.Resolve(ctx, r.downloader)
		if err != nil {
			if err2 := r.fail(wrapParseError(err, "resolving version for %s", coord)); err2 != nil {
				return err2
			}
			continue
		}

		childRaw, err := r.downloadPom(ctx, groupID, artifactID, finalVersion, d.Classifier, "", task.POM.Name(), pmModel.Repositories)
		if err != nil {
			if err2 := r.fail(missingArtifactError(pom.GAV{Coordinate: coord, Version: finalVersion}, task.POM.Name(), err)); err2 != nil {
				return err2
			}
			continue
		}

		childTask := &ResolutionTask{
			Scope:          requestedScope,
			POM:            childRaw,
			Exclusions:     accumulate(task.Exclusions, d.Exclusions),
			Optional:       d.Optional,
			Classifier:     d.Classifier,
			Version:        finalVersion,
			Repositories:   pmModel.Repositories,
			SeenParents:    task.SeenParents,
			OriginatingPom: task.POM.Name(),
		}
		r.enqueue(childTask)
		pmModel.Children = append(pmModel.Children, childTask)
	}
	return nil
}

// resolveDependencyVersion implements §4.6 stage 6's version priority:
// (a) placeholder-expand whatever value is in hand, (b) the partial
// model's own dependencyManagement, (c) the resolved parent chain's
// managed versions, (d) the dependency's own declared version — iterated
// to a fixed point, capped at maxPropertyPasses.
func (r *Resolver) resolveDependencyVersion(d pom.RawDependency, coord pom.Coordinate, pmModel *PartialModel) (string, bool) {
	candidate := d.Version
	for i := 0; i < maxPropertyPasses; i++ {
		if candidate != "" {
			expanded, ok := r.evaluator.evaluate(candidate, pmModel)
			if ok && expanded != "" {
				return expanded, true
			}
			candidate = expanded
		}
		if mv, ok := managedVersionProperty(coord.String(), pmModel.DependencyManagement); ok {
			candidate = mv
			continue
		}
		if mv, ok := managedVersionInParentChain(coord, pmModel.Parent); ok {
			candidate = mv
			continue
		}
		if candidate == "" {
			candidate = d.Version
		}
	}
	if candidate == "" || pom.HasPlaceholder(candidate) {
		return "", false
	}
	return candidate, true
}

func managedVersionInParentChain(coord pom.Coordinate, parent *ResolvedPom) (string, bool) {
	for p := parent; p != nil; p = p.Parent {
		for _, m := range p.DependencyManagement {
			if m.Dependency.Coordinate() == coord {
				return m.Dependency.Version, true
			}
		}
	}
	return "", false
}
