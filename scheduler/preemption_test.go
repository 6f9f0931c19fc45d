package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetforge/scheduler/structs"
)

func TestPreemptionPlanner_PicksLowestTierNewestFirst(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := now.Add(-2 * time.Hour)
	newer := now.Add(-1 * time.Hour)

	running := []*structs.Deployment{
		{ID: "low-old", Priority: structs.PriorityLow, Required: structs.NewResources(2, 0, 0), StartedAt: &older},
		{ID: "low-new", Priority: structs.PriorityLow, Required: structs.NewResources(2, 0, 0), StartedAt: &newer},
		{ID: "medium", Priority: structs.PriorityMedium, Required: structs.NewResources(2, 0, 0), StartedAt: &older},
	}
	demander := &structs.Deployment{Priority: structs.PriorityCritical, Required: structs.NewResources(2, 0, 0)}

	plan := (PreemptionPlanner{}).Plan(demander, running, structs.Resources{})

	require.True(t, plan.Feasible)
	require.Len(t, plan.Victims, 1)
	require.Equal(t, "low-new", plan.Victims[0].ID)
	require.True(t, plan.VictimIDs.Contains("low-new"))
}

func TestPreemptionPlanner_NeverPicksEqualOrHigherTier(t *testing.T) {
	running := []*structs.Deployment{
		{ID: "same-tier", Priority: structs.PriorityHigh, Required: structs.NewResources(10, 10, 10)},
	}
	demander := &structs.Deployment{Priority: structs.PriorityHigh, Required: structs.NewResources(1, 1, 1)}

	plan := (PreemptionPlanner{}).Plan(demander, running, structs.Resources{})
	require.False(t, plan.Feasible)
}

func TestPreemptionPlanner_InfeasibleWhenNoSubsetSuffices(t *testing.T) {
	running := []*structs.Deployment{
		{ID: "low", Priority: structs.PriorityLow, Required: structs.NewResources(1, 1, 1)},
	}
	demander := &structs.Deployment{Priority: structs.PriorityCritical, Required: structs.NewResources(100, 100, 100)}

	plan := (PreemptionPlanner{}).Plan(demander, running, structs.Resources{})
	require.False(t, plan.Feasible)
	require.Empty(t, plan.Victims)
}

func TestPreemptionPlanner_AlreadyAvailableNeedsNoVictims(t *testing.T) {
	running := []*structs.Deployment{
		{ID: "low", Priority: structs.PriorityLow, Required: structs.NewResources(1, 1, 1)},
	}
	demander := &structs.Deployment{Priority: structs.PriorityCritical, Required: structs.NewResources(1, 1, 1)}
	avail := structs.NewResources(5, 5, 5)

	plan := (PreemptionPlanner{}).Plan(demander, running, avail)
	require.True(t, plan.Feasible)
	require.Empty(t, plan.Victims)
}
