package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetforge/scheduler/state"
	"github.com/fleetforge/scheduler/structs"
)

func TestDependencyOracle_NoPredecessorIsSatisfied(t *testing.T) {
	store, err := state.NewStore()
	require.NoError(t, err)
	oracle := NewDependencyOracle(store, nil)

	ok, err := oracle.Satisfied(&structs.Deployment{ID: "d1"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDependencyOracle_CompletedPredecessorIsSatisfied(t *testing.T) {
	store, err := state.NewStore()
	require.NoError(t, err)
	require.NoError(t, store.PutDeployment(&structs.Deployment{ID: "p", Status: structs.DeploymentStatusCompleted}))
	oracle := NewDependencyOracle(store, nil)

	ok, err := oracle.Satisfied(&structs.Deployment{ID: "d1", PredecessorID: "p"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDependencyOracle_RunningPredecessorIsNotSatisfied(t *testing.T) {
	store, err := state.NewStore()
	require.NoError(t, err)
	require.NoError(t, store.PutDeployment(&structs.Deployment{ID: "p", Status: structs.DeploymentStatusRunning}))
	oracle := NewDependencyOracle(store, nil)

	ok, err := oracle.Satisfied(&structs.Deployment{ID: "d1", PredecessorID: "p"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDependencyOracle_DeletedPredecessorPermanentlyBlocks(t *testing.T) {
	store, err := state.NewStore()
	require.NoError(t, err)
	oracle := NewDependencyOracle(store, nil)

	ok, err := oracle.Satisfied(&structs.Deployment{ID: "d1", PredecessorID: "ghost"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDependencyOracle_CacheServesUntilInvalidated(t *testing.T) {
	store, err := state.NewStore()
	require.NoError(t, err)
	cache, err := state.NewDependencyCache(8)
	require.NoError(t, err)
	require.NoError(t, store.PutDeployment(&structs.Deployment{ID: "p", Status: structs.DeploymentStatusRunning}))
	oracle := NewDependencyOracle(store, cache)

	ok, err := oracle.Satisfied(&structs.Deployment{ID: "d1", PredecessorID: "p"})
	require.NoError(t, err)
	require.False(t, ok)

	// Flip the underlying record without invalidating: cache still serves
	// the stale verdict.
	require.NoError(t, store.PutDeployment(&structs.Deployment{ID: "p", Status: structs.DeploymentStatusCompleted}))
	ok, err = oracle.Satisfied(&structs.Deployment{ID: "d1", PredecessorID: "p"})
	require.NoError(t, err)
	require.False(t, ok)

	oracle.InvalidateCache("p")
	ok, err = oracle.Satisfied(&structs.Deployment{ID: "d1", PredecessorID: "p"})
	require.NoError(t, err)
	require.True(t, ok)
}
