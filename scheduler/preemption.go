package scheduler

import (
	"sort"
	"time"

	"github.com/hashicorp/go-set/v3"

	"github.com/fleetforge/scheduler/structs"
)

// PreemptionPlan is the result of a planning pass: the victims to preempt,
// in the order they were selected, or Feasible=false if no subset of
// eligible RUNNING deployments would free enough capacity.
type PreemptionPlan struct {
	Victims  []*structs.Deployment
	// VictimIDs mirrors Victims as a set for O(1) "was this deployment
	// preempted by this plan" membership checks.
	VictimIDs *set.Set[string]
	Feasible  bool
}

// PreemptionPlanner implements C5: given a demand vector and a cluster's
// RUNNING deployments, pick a minimal victim set such that, after crediting
// them, residual availability covers the demand, subject to every victim
// having a strictly lower priority tier than the demander. This is a greedy
// approximation, deliberately simple and deterministic (spec.md §4.5), not
// an optimal knapsack.
type PreemptionPlanner struct{}

// Plan computes a victim list for demander against running (the cluster's
// current RUNNING deployments) and avail (the cluster's current
// availability).
func (PreemptionPlanner) Plan(demander *structs.Deployment, running []*structs.Deployment, avail structs.Resources) PreemptionPlan {
	demand := demander.Required

	eligible := make([]*structs.Deployment, 0, len(running))
	for _, r := range running {
		if r.Priority < demander.Priority {
			eligible = append(eligible, r)
		}
	}

	// Sort by (priority_tier ascending, started_at descending): lowest
	// priority first, ties broken newest-started first (least sunk work).
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Priority != eligible[j].Priority {
			return eligible[i].Priority < eligible[j].Priority
		}
		ti, tj := startedAtOrZero(eligible[i]), startedAtOrZero(eligible[j])
		return ti.After(tj)
	})

	selected := set.New[string](8)
	victims := make([]*structs.Deployment, 0)
	freed := structs.Resources{}

	for _, candidate := range eligible {
		if avail.Add(freed).GreaterThanOrEqual(demand) {
			break
		}
		victims = append(victims, candidate)
		selected.Insert(candidate.ID)
		freed = freed.Add(candidate.Required)
	}

	if !avail.Add(freed).GreaterThanOrEqual(demand) {
		return PreemptionPlan{Feasible: false}
	}
	return PreemptionPlan{Victims: victims, VictimIDs: selected, Feasible: true}
}

func startedAtOrZero(d *structs.Deployment) time.Time {
	if d.StartedAt == nil {
		return time.Time{}
	}
	return *d.StartedAt
}
