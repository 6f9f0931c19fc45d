// Package state implements the collaborators spec.md §6 assumes: a cluster
// directory, a deployment store with bounded scans and single-cluster
// transactional units, and a settable clock. It is backed by
// github.com/hashicorp/go-memdb, the same package nomad/state/state_store.go
// is built on.
package state

import (
	"github.com/hashicorp/go-memdb"

	"github.com/fleetforge/scheduler/structs"
)

// Store is the in-memory, transactional home for clusters and deployments.
// Despite the name it plays two of spec.md §6's roles at once: the Cluster
// directory (read-only from the scheduler's perspective) and the Deployment
// store (CRUD + bounded scans, single-cluster transactional unit).
type Store struct {
	db *memdb.MemDB
}

// NewStore constructs an empty Store.
func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// PutCluster inserts or replaces a cluster record. Clusters are created
// externally to the scheduler core (spec.md §6); this method exists for the
// collaborator's own CRUD surface, not for scheduler/ to call.
func (s *Store) PutCluster(c *structs.Cluster) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableClusters, c); err != nil {
		return structs.WrapTransient(err)
	}
	txn.Commit()
	return nil
}

// GetCluster implements the Cluster directory collaborator: get_cluster(id).
func (s *Store) GetCluster(id string) (*structs.Cluster, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tableClusters, indexID, id)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*structs.Cluster), nil
}

// PutDeployment inserts or replaces a deployment record.
func (s *Store) PutDeployment(d *structs.Deployment) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableDeployments, d); err != nil {
		return structs.WrapTransient(err)
	}
	txn.Commit()
	return nil
}

// CommitSchedule writes cluster and deployments in a single memdb
// transaction, so a scheduler call's capacity debit/credit and its
// deployment status transitions land together or not at all. cluster may be
// nil, in which case only deployments are written; deployments may include
// preemption victims alongside the call's primary subject.
func (s *Store) CommitSchedule(cluster *structs.Cluster, deployments []*structs.Deployment) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if cluster != nil {
		if err := txn.Insert(tableClusters, cluster); err != nil {
			return structs.WrapTransient(err)
		}
	}
	for _, d := range deployments {
		if err := txn.Insert(tableDeployments, d); err != nil {
			return structs.WrapTransient(err)
		}
	}
	txn.Commit()
	return nil
}

// GetDeployment implements by_id.
func (s *Store) GetDeployment(id string) (*structs.Deployment, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tableDeployments, indexID, id)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*structs.Deployment), nil
}

// ByUser implements list_by_user: a bounded scan over one user's
// deployments.
func (s *Store) ByUser(userID string) ([]*structs.Deployment, error) {
	return s.scan(indexUser, userID)
}

// ByCluster implements list_by_cluster: a bounded scan over one cluster's
// deployments.
func (s *Store) ByCluster(clusterID string) ([]*structs.Deployment, error) {
	return s.scan(indexCluster, clusterID)
}

// ByClusterStatus scans one cluster's deployments filtered to a single
// status. Used by the queue to rebuild itself from "SELECT ... WHERE
// status=QUEUED" (spec.md §4.4, §9) when the in-memory heap is lost.
func (s *Store) ByClusterStatus(clusterID string, status structs.DeploymentStatus) ([]*structs.Deployment, error) {
	all, err := s.scan(indexCluster, clusterID)
	if err != nil {
		return nil, err
	}
	out := make([]*structs.Deployment, 0, len(all))
	for _, d := range all {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) scan(index, arg string) ([]*structs.Deployment, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableDeployments, index, arg)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	var out []*structs.Deployment
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*structs.Deployment))
	}
	return out, nil
}

// All returns every deployment in the store. Used by the HTTP filter
// endpoint and by tests asserting global invariants.
func (s *Store) All() ([]*structs.Deployment, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableDeployments, indexID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	var out []*structs.Deployment
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*structs.Deployment))
	}
	return out, nil
}
