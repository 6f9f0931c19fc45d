package state

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fleetforge/scheduler/structs"
)

// DependencyCache is a bounded cache of predecessor-status lookups, fronting
// the Store the way a plan applier caches node lookups during a single
// scheduling pass. Entries are invalidated explicitly by the
// scheduler on every on_completion call for the cached ID, so staleness is
// bounded by "until the predecessor's status actually changes," never by
// size-based eviction alone.
type DependencyCache struct {
	cache *lru.Cache[string, structs.DeploymentStatus]
}

// NewDependencyCache builds a cache holding up to size predecessor lookups.
func NewDependencyCache(size int) (*DependencyCache, error) {
	c, err := lru.New[string, structs.DeploymentStatus](size)
	if err != nil {
		return nil, err
	}
	return &DependencyCache{cache: c}, nil
}

// Get returns the cached status for id, if present.
func (d *DependencyCache) Get(id string) (structs.DeploymentStatus, bool) {
	return d.cache.Get(id)
}

// Put records the observed status for id.
func (d *DependencyCache) Put(id string, status structs.DeploymentStatus) {
	d.cache.Add(id, status)
}

// Invalidate drops any cached entry for id. Called whenever id's own
// status changes, so dependents never observe a stale COMPLETED/non-COMPLETED
// verdict.
func (d *DependencyCache) Invalidate(id string) {
	d.cache.Remove(id)
}
