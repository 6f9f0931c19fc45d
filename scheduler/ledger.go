package scheduler

import (
	"github.com/hashicorp/go-metrics"

	"github.com/fleetforge/scheduler/structs"
)

// Ledger implements C1: per-cluster resource accounting. It does not hold
// its own lock; every call happens under the ClusterLocker critical
// section already held by the caller (scheduler.go), so check-then-debit is
// atomic per spec.md §4.1.
type Ledger struct{}

// TryDebit attempts to subtract req from cluster's availability. It returns
// true and mutates cluster.Avail* iff every component had enough headroom;
// otherwise cluster is left untouched and it returns false.
func (Ledger) TryDebit(cluster *structs.Cluster, req structs.Resources) bool {
	avail := cluster.Avail()
	if !avail.GreaterThanOrEqual(req) {
		return false
	}
	next := avail.Sub(req)
	cluster.AvailRam, cluster.AvailCpu, cluster.AvailGpu = next.Ram, next.Cpu, next.Gpu
	emitGauges(cluster)
	return true
}

// Credit adds req back to cluster's availability. Per spec.md §4.1, over-
// credit (the result exceeding Total) is a programming error: it is
// detected and returned as an InvariantBreach rather than silently
// saturating past capacity: saturating at Total is only correct when the
// credit itself is well-formed, which this guards.
func (Ledger) Credit(cluster *structs.Cluster, req structs.Resources) error {
	next := cluster.Avail().Add(req)
	total := cluster.Total()
	if !total.GreaterThanOrEqual(next) {
		return structs.WrapInvariantBreach("credit would exceed cluster total capacity")
	}
	cluster.AvailRam, cluster.AvailCpu, cluster.AvailGpu = next.Ram, next.Cpu, next.Gpu
	emitGauges(cluster)
	return nil
}

// Snapshot returns a consistent (avail, total) read. Since all mutation is
// serialized under the cluster lock, a plain field read already is
// consistent; this exists to give callers (the preemption planner) a value
// type they can reason about without touching the live Cluster.
func (Ledger) Snapshot(cluster *structs.Cluster) (avail, total structs.Resources) {
	return cluster.Avail(), cluster.Total()
}

func emitGauges(cluster *structs.Cluster) {
	labels := []metrics.Label{{Name: "cluster_id", Value: cluster.ID}}
	ram, _ := cluster.AvailRam.Float64()
	cpu, _ := cluster.AvailCpu.Float64()
	metrics.SetGaugeWithLabels([]string{"cluster", "avail_ram"}, float32(ram), labels)
	metrics.SetGaugeWithLabels([]string{"cluster", "avail_cpu"}, float32(cpu), labels)
	metrics.SetGaugeWithLabels([]string{"cluster", "avail_gpu"}, float32(cluster.AvailGpu), labels)
}
