package state

import "github.com/hashicorp/go-memdb"

const (
	tableDeployments = "deployments"
	tableClusters    = "clusters"

	indexID      = "id"
	indexCluster = "cluster_id"
	indexUser    = "user_id"
	indexStatus  = "status"
)

// schema returns the go-memdb schema backing the Store. Shaped after
// nomad/state/state_store.go's table+index layout: one table per entity
// kind, a unique "id" index, and secondary non-unique indexes for every
// bounded-scan access pattern the collaborator interfaces name.
func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableDeployments: {
				Name: tableDeployments,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexCluster: {
						Name:    indexCluster,
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "ClusterID"},
					},
					indexUser: {
						Name:    indexUser,
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "UserID"},
					},
					indexStatus: {
						Name:    indexStatus,
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "Status"},
					},
				},
			},
			tableClusters: {
				Name: tableClusters,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
}
