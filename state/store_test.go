package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetforge/scheduler/structs"
)

func TestStore_PutGetCluster(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	require.NoError(t, s.PutCluster(&structs.Cluster{ID: "c1", Name: "c1"}))

	got, err := s.GetCluster("c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "c1", got.Name)

	missing, err := s.GetCluster("nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStore_ByUserAndByCluster(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d1", ClusterID: "c1", UserID: "u1"}))
	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d2", ClusterID: "c1", UserID: "u2"}))
	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d3", ClusterID: "c2", UserID: "u1"}))

	byUser, err := s.ByUser("u1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	byCluster, err := s.ByCluster("c1")
	require.NoError(t, err)
	require.Len(t, byCluster, 2)
}

func TestStore_ByClusterStatus(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d1", ClusterID: "c1", Status: structs.DeploymentStatusQueued}))
	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d2", ClusterID: "c1", Status: structs.DeploymentStatusRunning}))

	queued, err := s.ByClusterStatus("c1", structs.DeploymentStatusQueued)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	require.Equal(t, "d1", queued[0].ID)
}

func TestStore_PutReplacesExistingRecord(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d1", Status: structs.DeploymentStatusPending}))
	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d1", Status: structs.DeploymentStatusRunning}))

	got, err := s.GetDeployment("d1")
	require.NoError(t, err)
	require.Equal(t, structs.DeploymentStatusRunning, got.Status)
}

func TestStore_All(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)
	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d1"}))
	require.NoError(t, s.PutDeployment(&structs.Deployment{ID: "d2"}))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
}
