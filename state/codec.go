package state

import (
	"bytes"

	"github.com/hashicorp/go-msgpack/v2/codec"

	"github.com/fleetforge/scheduler/structs"
)

// Snapshot is a point-in-time copy of every cluster and deployment record,
// encodable with msgpack the way an FSM encodes a Raft snapshot. It exists
// so a daemon can warm-start without replaying a full table scan
// through the HTTP/CLI surface, and so a queue-cache loss can be tested by
// round-tripping through bytes instead of requiring a live store.
type Snapshot struct {
	Clusters    []*structs.Cluster
	Deployments []*structs.Deployment
}

func msgpackHandle() *codec.MsgpackHandle {
	return &codec.MsgpackHandle{}
}

// Snapshot captures every cluster and deployment currently in the store.
func (s *Store) Snapshot() (*Snapshot, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	snap := &Snapshot{}

	cit, err := txn.Get(tableClusters, indexID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	for raw := cit.Next(); raw != nil; raw = cit.Next() {
		snap.Clusters = append(snap.Clusters, raw.(*structs.Cluster))
	}

	dit, err := txn.Get(tableDeployments, indexID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	for raw := dit.Next(); raw != nil; raw = dit.Next() {
		snap.Deployments = append(snap.Deployments, raw.(*structs.Deployment))
	}

	return snap, nil
}

// Restore replaces the store's contents with the records in snap.
func (s *Store) Restore(snap *Snapshot) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tableClusters, indexID); err != nil {
		return structs.WrapTransient(err)
	}
	if _, err := txn.DeleteAll(tableDeployments, indexID); err != nil {
		return structs.WrapTransient(err)
	}
	for _, c := range snap.Clusters {
		if err := txn.Insert(tableClusters, c); err != nil {
			return structs.WrapTransient(err)
		}
	}
	for _, d := range snap.Deployments {
		if err := txn.Insert(tableDeployments, d); err != nil {
			return structs.WrapTransient(err)
		}
	}
	txn.Commit()
	return nil
}

// EncodeSnapshot serializes snap with msgpack.
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, msgpackHandle())
	if err := enc.Encode(snap); err != nil {
		return nil, structs.WrapTransient(err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot deserializes a msgpack-encoded Snapshot.
func DecodeSnapshot(b []byte) (*Snapshot, error) {
	var snap Snapshot
	dec := codec.NewDecoder(bytes.NewReader(b), msgpackHandle())
	if err := dec.Decode(&snap); err != nil {
		return nil, structs.WrapTransient(err)
	}
	return &snap, nil
}
