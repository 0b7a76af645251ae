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
	"log/slog"

	"github.com/google/mvnresolve/downloader"
	"github.com/google/mvnresolve/pom"
	"github.com/google/mvnresolve/scope"
)

// Config holds the resolver's tunables. Build one with New's functional
// options rather than constructing it directly.
type Config struct {
	forParent         bool
	resolveOptional   bool
	continueOnError   bool
	onError           func(error)
	activeProfiles    map[string]bool
	logger            *slog.Logger
	ambientProperties map[string]string
}

func defaultConfig() Config {
	return Config{logger: slog.Default()}
}

// Option configures a Resolver at construction time.
type Option func(*Config)

// WithResolveOptional controls whether optional dependencies are followed.
func WithResolveOptional(v bool) Option {
	return func(c *Config) { c.resolveOptional = v }
}

// WithContinueOnError controls whether a non-fatal resolution error prunes
// the affected branch (true) or aborts the whole resolve call (false).
func WithContinueOnError(v bool) Option {
	return func(c *Config) { c.continueOnError = v }
}

// WithOnError registers an observer invoked with every error the resolver
// encounters, fatal or not.
func WithOnError(f func(error)) Option {
	return func(c *Config) { c.onError = f }
}

// WithActiveProfiles records which build profiles were already activated
// upstream, for diagnostics; the resolver itself does not perform
// activation (see the pom/profile package).
func WithActiveProfiles(profiles ...string) Option {
	return func(c *Config) {
		c.activeProfiles = make(map[string]bool, len(profiles))
		for _, p := range profiles {
			c.activeProfiles[p] = true
		}
	}
}

// WithLogger sets the structured logger the resolver reports routine
// pruning and recoverable failures to. A nil logger (the default) uses
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// WithAmbientProperties seeds the property evaluator's process-wide
// fallback tier (§4.3's "process-wide ambient properties").
func WithAmbientProperties(props map[string]string) Option {
	return func(c *Config) { c.ambientProperties = props }
}

type pomCacheKey struct {
	groupID, artifactID, version, classifier string
}

// sharedState is carried, unmodified by pointer, from a Resolver into
// every nested Resolver it spawns for a parent or an imported BOM. It is
// what makes raw-POM identity stable across an entire resolve call (so
// ResolutionTask's POM-pointer equality means what it says) and what lets
// a parent resolved once be reused by every sibling that shares it.
type sharedState struct {
	pomCache map[pomCacheKey]*pom.RawPom
	resolved map[pom.GAV]*ResolvedPom
}

// Resolver resolves a raw Maven POM into its fully resolved dependency
// graph. Construct one with New for a root resolve call; nested resolves
// for parents and imported BOMs are spawned internally.
type Resolver struct {
	downloader downloader.Downloader
	config     Config
	shared     *sharedState

	queue          []*ResolutionTask
	enqueued       map[taskKey]bool
	partialResults map[taskKey]*PartialModel
	versions       *versionTable
	evaluator      *evaluator
}

// New creates a Resolver that downloads POMs and artifacts through dl.
func New(dl downloader.Downloader, opts ...Option) *Resolver {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return newResolver(dl, cfg, &sharedState{
		pomCache: map[pomCacheKey]*pom.RawPom{},
		resolved: map[pom.GAV]*ResolvedPom{},
	})
}

func newResolver(dl downloader.Downloader, cfg Config, shared *sharedState) *Resolver {
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Resolver{
		downloader:     dl,
		config:         cfg,
		shared:         shared,
		enqueued:       map[taskKey]bool{},
		partialResults: map[taskKey]*PartialModel{},
		versions:       newVersionTable(),
		evaluator:      newEvaluator(cfg.ambientProperties),
	}
}

// nested spawns a Resolver for a parent POM or an imported BOM: it shares
// this Resolver's downloader, POM cache and resolved memo, but gets its
// own work queue, partial-result memo and version-selection table, per
// §4.8.
func (r *Resolver) nested(forParent bool) *Resolver {
	cfg := r.config
	cfg.forParent = forParent
	return newResolver(r.downloader, cfg, r.shared)
}

// Resolve computes the fully resolved dependency graph of root.
func (r *Resolver) Resolve(ctx context.Context, root *pom.RawPom) (*ResolvedPom, error) {
	return r.resolveWithSeenParents(ctx, root, nil)
}

// resolveWithSeenParents is Resolve with a pre-seeded parent-cycle path,
// used when this Resolver was spawned to resolve a parent POM or an
// imported BOM: the chain of GAVs already visited on the way here must
// carry forward so a cycle further up is still caught.
func (r *Resolver) resolveWithSeenParents(ctx context.Context, root *pom.RawPom, seenParents []pom.GAV) (*ResolvedPom, error) {
	root.Flatten(r.getDependencyManagement(ctx, root))

	rootTask := &ResolutionTask{
		Scope:        scope.Compile,
		POM:          root,
		Version:      root.Version,
		Repositories: root.Repositories,
		SeenParents:  seenParents,
		IsRoot:       true,
	}
	r.enqueue(rootTask)

	if err := r.drainQueue(ctx); err != nil {
		return nil, err
	}

	asm := &assembler{resolver: r}
	return asm.assemble(ctx, rootTask, nil)
}

// drainQueue processes every task in the work queue until it is empty,
// including any child tasks a processed task enqueues along the way.
func (r *Resolver) drainQueue(ctx context.Context) error {
	for len(r.queue) > 0 {
		task := r.queue[0]
		r.queue = r.queue[1:]
		if _, done := r.partialResults[task.key()]; done {
			continue
		}
		pm, err := r.processTask(ctx, task)
		if err != nil {
			if err2 := r.fail(err); err2 != nil {
				return err2
			}
			continue
		}
		r.partialResults[task.key()] = pm
	}
	return nil
}

// processOnDemand runs a single task discovered outside the main BFS pass
// (the assembler's inheritance splice finds a conflict-resolved version
// that was never enqueued during BFS) and drains any further tasks it
// spawns, so the assembler can recurse into it immediately afterward.
func (r *Resolver) processOnDemand(ctx context.Context, task *ResolutionTask) error {
	if _, ok := r.partialResults[task.key()]; ok {
		return nil
	}
	r.enqueued[task.key()] = true
	r.queue = append(r.queue, task)
	return r.drainQueue(ctx)
}

// enqueue adds task to the work queue unless an equal task (per key()) has
// already been enqueued in this resolver's lifetime.
func (r *Resolver) enqueue(task *ResolutionTask) {
	k := task.key()
	if r.enqueued[k] {
		return
	}
	r.enqueued[k] = true
	r.queue = append(r.queue, task)
}

// fail applies the continueOnError/onError propagation policy of §7: the
// error is always reported to onError if set; under continueOnError it is
// then swallowed (nil returned, meaning "prune and continue"), otherwise
// it is returned to be re-thrown by the caller.
func (r *Resolver) fail(err error) error {
	if r.config.onError != nil {
		r.config.onError(err)
	}
	if r.config.continueOnError {
		r.config.logger.Warn("pruning branch after error", "error", err)
		return nil
	}
	return err
}

// downloadPom fetches a POM through the resolver's POM cache, so that two
// requests for the same coordinate within one resolve call observe the
// identical *pom.RawPom pointer.
func (r *Resolver) downloadPom(ctx context.Context, groupID, artifactID, version, classifier, relativePath, originatingPom string, repos []pom.Repository) (*pom.RawPom, error) {
	key := pomCacheKey{groupID, artifactID, version, classifier}
	if p, ok := r.shared.pomCache[key]; ok {
		return p, nil
	}
	p, err := r.downloader.DownloadPom(ctx, groupID, artifactID, version, classifier, relativePath, originatingPom, repos)
	if err != nil {
		return nil, err
	}
	r.shared.pomCache[key] = p
	return p, nil
}

// getDependencyManagement adapts the resolver's POM download path to
// pom.GetDependencyManagement, for use by RawPom.Flatten's BOM-import
// pre-pass.
func (r *Resolver) getDependencyManagement(ctx context.Context, owner *pom.RawPom) pom.GetDependencyManagement {
	return func(groupID, artifactID, version string) ([]pom.RawDependency, error) {
		bom, err := r.downloadPom(ctx, groupID, artifactID, version, "", "", owner.Name(), owner.Repositories)
		if err != nil {
			return nil, err
		}
		return bom.DependencyManagement, nil
	}
}
