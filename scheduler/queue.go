package scheduler

import (
	"container/heap"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-set/v3"

	"github.com/fleetforge/scheduler/structs"
)

// QueueEntry is the tuple spec.md §4.4 describes: (deployment_id,
// priority_score, cluster_id). The deployment record remains the source of
// truth; entries here are advisory and may be stale. PendingQueue never
// re-validates status itself, the scheduler core does that on pop.
type QueueEntry struct {
	DeploymentID string
	ClusterID    string
	Score        float64
	seq          uint64
}

// entryHeap is a max-heap by Score, FIFO (insertion order) within ties.
// Shaped after nomad/eval_broker.go's PendingEvaluations heap: a
// container/heap.Interface over pointers, one instance per scheduling
// domain (there: per scheduler class; here: per cluster).
type entryHeap []*QueueEntry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score > h[j].Score
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(*QueueEntry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// PendingQueue is C4: a per-cluster ordered set of QUEUED deployments.
// Map-level structure (which clusters exist) is guarded by mu; mutation of
// a single cluster's heap is left to the caller's cluster-lock discipline
// (scheduler.go always calls these methods from inside a held
// ClusterLocker section), matching spec.md §5's "sole correctness
// guarantee" framing.
type PendingQueue struct {
	mu    sync.Mutex
	heaps map[string]*entryHeap
	live  map[string]*set.Set[string]
	seq   atomic.Uint64
}

// NewPendingQueue returns an empty queue.
func NewPendingQueue() *PendingQueue {
	return &PendingQueue{
		heaps: make(map[string]*entryHeap),
		live:  make(map[string]*set.Set[string]),
	}
}

func (q *PendingQueue) clusterState(clusterID string) (*entryHeap, *set.Set[string]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	h, ok := q.heaps[clusterID]
	if !ok {
		h = &entryHeap{}
		heap.Init(h)
		q.heaps[clusterID] = h
		q.live[clusterID] = set.New[string](8)
	}
	return h, q.live[clusterID]
}

// Push enrolls deploymentID in clusterID's queue at the given score.
// Re-pushing an already-live ID is a no-op (spec.md's queue is a set keyed
// by deployment, not a multiset of duplicate entries for one deployment).
func (q *PendingQueue) Push(clusterID, deploymentID string, score float64) {
	h, live := q.clusterState(clusterID)
	if live.Contains(deploymentID) {
		return
	}
	live.Insert(deploymentID)
	heap.Push(h, &QueueEntry{
		DeploymentID: deploymentID,
		ClusterID:    clusterID,
		Score:        score,
		seq:          q.seq.Add(1),
	})
}

// PopHighest removes and returns the highest-scored entry for clusterID, or
// nil if the queue is empty.
func (q *PendingQueue) PopHighest(clusterID string) *QueueEntry {
	h, live := q.clusterState(clusterID)
	if h.Len() == 0 {
		return nil
	}
	e := heap.Pop(h).(*QueueEntry)
	live.Remove(e.DeploymentID)
	return e
}

// PeekAll returns every entry currently queued for clusterID, highest score
// first, without mutating the live queue. A read-only inspection utility;
// the periodic sweep re-scores via Rebuild instead, since that also has to
// replace each entry's stale score.
func (q *PendingQueue) PeekAll(clusterID string) []*QueueEntry {
	h, _ := q.clusterState(clusterID)
	cp := make(entryHeap, h.Len())
	copy(cp, *h)
	heap.Init(&cp)

	out := make([]*QueueEntry, 0, cp.Len())
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(*QueueEntry))
	}
	return out
}

// Remove drops deploymentID from clusterID's queue if present, reporting
// whether it was found. Scheduler.Cancel does not call it; a cancelled
// deployment's entry is discarded lazily when drain pops it.
func (q *PendingQueue) Remove(clusterID, deploymentID string) bool {
	h, live := q.clusterState(clusterID)
	if !live.Contains(deploymentID) {
		return false
	}
	for i, e := range *h {
		if e.DeploymentID == deploymentID {
			heap.Remove(h, i)
			live.Remove(deploymentID)
			return true
		}
	}
	return false
}

// Len reports how many entries are queued for clusterID.
func (q *PendingQueue) Len(clusterID string) int {
	h, _ := q.clusterState(clusterID)
	return h.Len()
}

// Rebuild reconstructs clusterID's queue from scratch using deployments
// (which must all have Status == QUEUED and ClusterID == clusterID), scored
// fresh with scoreFn. Satisfies spec.md §4.4 and §9's durability
// requirement: the queue is a cache in front of the deployment table and
// must be recoverable if lost. Existing entries for the cluster are
// discarded first.
func (q *PendingQueue) Rebuild(clusterID string, deployments []*structs.Deployment, scoreFn func(*structs.Deployment) float64) {
	q.mu.Lock()
	h := &entryHeap{}
	heap.Init(h)
	live := set.New[string](len(deployments))
	q.heaps[clusterID] = h
	q.live[clusterID] = live
	q.mu.Unlock()

	for _, d := range deployments {
		if d.Status != structs.DeploymentStatusQueued || d.ClusterID != clusterID {
			continue
		}
		q.Push(clusterID, d.ID, scoreFn(d))
	}
}
