package scheduler

import (
	"time"

	"github.com/fleetforge/scheduler/structs"
)

// ClusterDirectory is the read-only collaborator spec.md §6 names:
// get_cluster(id) -> Cluster?. Clusters are created and mutated (their
// Avail* fields aside) entirely outside the scheduler core.
type ClusterDirectory interface {
	GetCluster(id string) (*structs.Cluster, error)
	PutCluster(c *structs.Cluster) error
}

// DeploymentStore is the CRUD + bounded-scan collaborator spec.md §6 names.
type DeploymentStore interface {
	GetDeployment(id string) (*structs.Deployment, error)
	PutDeployment(d *structs.Deployment) error
	ByUser(userID string) ([]*structs.Deployment, error)
	ByCluster(clusterID string) ([]*structs.Deployment, error)
	ByClusterStatus(clusterID string, status structs.DeploymentStatus) ([]*structs.Deployment, error)
}

// Clock is the monotonically-non-decreasing now() collaborator.
type Clock interface {
	Now() time.Time
}

// Persister commits a cluster record and a batch of deployment records as
// one atomic unit. Every scheduler call (submit, report_completion, cancel,
// a drain pop) produces at most one cluster mutation and a handful of
// deployment mutations (the subject plus any preemption victims); spec.md
// §7 requires these land together or not at all, so Persister's backing
// store must run them inside a single transaction rather than one per call.
type Persister interface {
	CommitSchedule(cluster *structs.Cluster, deployments []*structs.Deployment) error
}
