package core

import (
	"github.com/google/uuid"
)

// A DiscoveryQueue accumulates BuildTargets as descriptor rule functions
// construct them, for the Descriptor Evaluator to drain into a
// Package's target set. It's a plain queue, not a channel: evaluation
// is single-threaded and synchronous, so there's never a concurrent
// producer or consumer to coordinate.
type DiscoveryQueue struct {
	items []*BuildTarget
}

// Enqueue adds target to the queue. Called by a rule function as its
// last act when constructing a target.
func (q *DiscoveryQueue) Enqueue(target *BuildTarget) {
	q.items = append(q.items, target)
}

// Drain returns every target enqueued since the last Drain and empties
// the queue, so targets discovered while evaluating one descriptor
// never leak into the next.
func (q *DiscoveryQueue) Drain() []*BuildTarget {
	items := q.items
	q.items = nil
	return items
}

// A BuildSession is the explicit, non-global carrier of everything that
// would otherwise be process-wide state: the repository root and
// normalizer, the loaded configuration, the shared discovery queue, and
// the package cache the resolver reads and writes. It's threaded
// explicitly through the evaluator, resolver, and scheduler rather than
// held in package-level globals.
type BuildSession struct {
	// ID uniquely identifies this invocation. No staging path or log
	// line includes it.
	ID uuid.UUID

	RepoRoot   string
	Normalizer *Normalizer
	Config     *Configuration

	Discovery *DiscoveryQueue

	// packages caches evaluated descriptors by directory, so a
	// directory is only ever evaluated once per session.
	packages map[string]*Package
}

// NewBuildSession constructs a BuildSession rooted at repoRoot with the
// given configuration.
func NewBuildSession(repoRoot string, config *Configuration) *BuildSession {
	return &BuildSession{
		ID:         uuid.New(),
		RepoRoot:   repoRoot,
		Normalizer: NewNormalizer(repoRoot),
		Config:     config,
		Discovery:  &DiscoveryQueue{},
		packages:   make(map[string]*Package),
	}
}

// CachedPackage returns the previously-evaluated Package for dir, and
// true, or false if dir has not yet been evaluated this session.
func (bs *BuildSession) CachedPackage(dir string) (*Package, bool) {
	p, ok := bs.packages[dir]
	return p, ok
}

// StorePackage records the evaluated Package for dir, for later
// CachedPackage lookups.
func (bs *BuildSession) StorePackage(p *Package) {
	bs.packages[p.Dir] = p
}
