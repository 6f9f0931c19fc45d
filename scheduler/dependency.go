package scheduler

import (
	"github.com/fleetforge/scheduler/structs"
	"github.com/fleetforge/scheduler/state"
)

// DependencyOracle implements C2: given a deployment, report whether its
// declared predecessor has reached COMPLETED. A deleted or FAILED
// predecessor yields false permanently; the dependent stays QUEUED/PENDING
// until externally cancelled, per spec.md §4.2.
type DependencyOracle struct {
	store DeploymentStore
	cache *state.DependencyCache
}

// NewDependencyOracle builds an oracle over store, optionally fronted by a
// cache (nil disables caching).
func NewDependencyOracle(store DeploymentStore, cache *state.DependencyCache) *DependencyOracle {
	return &DependencyOracle{store: store, cache: cache}
}

// Satisfied implements satisfied(d) -> bool.
func (o *DependencyOracle) Satisfied(d *structs.Deployment) (bool, error) {
	if !d.HasPredecessor() {
		return true, nil
	}

	if o.cache != nil {
		if status, ok := o.cache.Get(d.PredecessorID); ok {
			return status == structs.DeploymentStatusCompleted, nil
		}
	}

	pred, err := o.store.GetDeployment(d.PredecessorID)
	if err != nil {
		return false, err
	}
	if pred == nil {
		// A deleted predecessor permanently blocks the dependent; cache the
		// verdict as "failed" so repeated polls short-circuit.
		if o.cache != nil {
			o.cache.Put(d.PredecessorID, structs.DeploymentStatusFailed)
		}
		return false, nil
	}

	if o.cache != nil {
		o.cache.Put(pred.ID, pred.Status)
	}
	return pred.Status == structs.DeploymentStatusCompleted, nil
}

// InvalidateCache drops any cached verdict for id. Called by the scheduler
// core whenever id's own status changes, so dependents never see a stale
// answer.
func (o *DependencyOracle) InvalidateCache(id string) {
	if o.cache != nil {
		o.cache.Invalidate(id)
	}
}
