package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetforge/scheduler/structs"
)

func TestPendingQueue_PopHighestOrdersByScoreThenFIFO(t *testing.T) {
	q := NewPendingQueue()
	q.Push("c1", "low-a", 1000)
	q.Push("c1", "low-b", 1000)
	q.Push("c1", "high", 3000)

	require.Equal(t, "high", q.PopHighest("c1").DeploymentID)
	require.Equal(t, "low-a", q.PopHighest("c1").DeploymentID)
	require.Equal(t, "low-b", q.PopHighest("c1").DeploymentID)
	require.Nil(t, q.PopHighest("c1"))
}

func TestPendingQueue_PushIsIdempotentPerDeployment(t *testing.T) {
	q := NewPendingQueue()
	q.Push("c1", "d1", 100)
	q.Push("c1", "d1", 9999) // re-push while live is a no-op, score unchanged
	require.Equal(t, 1, q.Len("c1"))
	require.Equal(t, 100.0, q.PopHighest("c1").Score)
}

func TestPendingQueue_ClustersAreIndependent(t *testing.T) {
	q := NewPendingQueue()
	q.Push("c1", "d1", 100)
	q.Push("c2", "d2", 100)
	require.Equal(t, 1, q.Len("c1"))
	require.Equal(t, 1, q.Len("c2"))
}

func TestPendingQueue_RemoveDropsEntry(t *testing.T) {
	q := NewPendingQueue()
	q.Push("c1", "d1", 100)
	require.True(t, q.Remove("c1", "d1"))
	require.False(t, q.Remove("c1", "d1"))
	require.Equal(t, 0, q.Len("c1"))
}

func TestPendingQueue_PeekAllDoesNotMutate(t *testing.T) {
	q := NewPendingQueue()
	q.Push("c1", "d1", 100)
	q.Push("c1", "d2", 200)

	peeked := q.PeekAll("c1")
	require.Len(t, peeked, 2)
	require.Equal(t, "d2", peeked[0].DeploymentID)

	require.Equal(t, 2, q.Len("c1"))
	require.Equal(t, "d2", q.PopHighest("c1").DeploymentID)
}

func TestPendingQueue_Rebuild(t *testing.T) {
	q := NewPendingQueue()
	q.Push("c1", "stale", 500)

	deployments := []*structs.Deployment{
		{ID: "d1", ClusterID: "c1", Status: structs.DeploymentStatusQueued},
		{ID: "d2", ClusterID: "c1", Status: structs.DeploymentStatusRunning},
		{ID: "d3", ClusterID: "other", Status: structs.DeploymentStatusQueued},
	}
	q.Rebuild("c1", deployments, func(d *structs.Deployment) float64 { return 1 })

	require.Equal(t, 1, q.Len("c1"))
	require.Equal(t, "d1", q.PopHighest("c1").DeploymentID)
}
