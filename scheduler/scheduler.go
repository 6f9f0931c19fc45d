// Package scheduler implements C1–C7 of the deployment scheduler: resource
// accounting, the dependency gate, the aging-weighted priority queue, the
// preemption planner, and the admission state machine that ties them
// together under a per-cluster critical section.
package scheduler

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetforge/scheduler/helper/uuid"
	"github.com/fleetforge/scheduler/structs"
)

// Scheduler is C6, the scheduler core: it orchestrates C1 (Ledger), C2
// (DependencyOracle), C4 (PendingQueue), and C5 (PreemptionPlanner) under
// C's per-cluster ClusterLocker, and owns every Deployment state
// transition.
type Scheduler struct {
	clusters    ClusterDirectory
	deployments DeploymentStore
	persister   Persister
	queue       *PendingQueue
	locker      *ClusterLocker
	ledger      Ledger
	dependency  *DependencyOracle
	preemption  PreemptionPlanner
	clock       Clock
	log         hclog.Logger
}

// New constructs a Scheduler wired to its collaborators. clusters,
// deployments, and persister are usually the same backing store satisfying
// all three interfaces.
func New(clusters ClusterDirectory, deployments DeploymentStore, persister Persister, queue *PendingQueue, dependency *DependencyOracle, clock Clock, log hclog.Logger) *Scheduler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Scheduler{
		clusters:    clusters,
		deployments: deployments,
		persister:   persister,
		queue:       queue,
		locker:      NewClusterLocker(),
		dependency:  dependency,
		clock:       clock,
		log:         log.Named("scheduler"),
	}
}

// SubmitInput is the exposed submit operation's input, per spec.md §6.
type SubmitInput struct {
	Name          string
	Image         string
	ClusterID     string
	UserID        string
	Required      structs.Resources
	Priority      structs.PriorityTier
	PredecessorID string
}

// Submit implements the exposed `submit` operation: validate, then run
// try_schedule under the target cluster's critical section.
func (s *Scheduler) Submit(in SubmitInput) (*structs.Deployment, error) {
	if err := structs.ValidateSubmission(in.Name, in.Image, in.Required, in.Priority); err != nil {
		return nil, err
	}

	if in.PredecessorID != "" {
		pred, err := s.deployments.GetDeployment(in.PredecessorID)
		if err != nil {
			return nil, structs.WrapTransient(err)
		}
		if pred == nil {
			return nil, structs.ErrInvalidPredecessor
		}
	}

	unlock := s.locker.Lock(in.ClusterID)
	defer unlock()

	cluster, err := s.clusters.GetCluster(in.ClusterID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	if cluster == nil {
		return nil, structs.ErrClusterMissing
	}
	clusterCopy := *cluster

	d := &structs.Deployment{
		ID:            uuid.Generate(),
		Name:          in.Name,
		Image:         in.Image,
		ClusterID:     in.ClusterID,
		UserID:        in.UserID,
		Required:      in.Required,
		Priority:      in.Priority,
		Status:        structs.DeploymentStatusPending,
		PredecessorID: in.PredecessorID,
		CreatedAt:     s.clock.Now(),
	}

	outcome, victims, err := s.trySchedule(&clusterCopy, d)
	if err != nil {
		return nil, err
	}
	incrOutcome(outcome, in.ClusterID)

	if err := s.persist(&clusterCopy, d, victims); err != nil {
		return nil, err
	}
	return d, nil
}

// ReportCompletion implements `report_completion`: credit the ledger,
// transition d to outcome, and drain the queue. Reporting on a deployment
// that is not RUNNING is an idempotent no-op tolerating double delivery
// (spec.md §4.6).
func (s *Scheduler) ReportCompletion(deploymentID string, outcome structs.DeploymentStatus) (*structs.Deployment, error) {
	if outcome != structs.DeploymentStatusCompleted && outcome != structs.DeploymentStatusFailed {
		return nil, &structs.SchedError{
			Kind:  structs.ErrKindValidation,
			Msg:   "invalid_outcome",
			Cause: fmt.Errorf("invalid completion outcome %q", outcome),
		}
	}

	d, err := s.deployments.GetDeployment(deploymentID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	if d == nil {
		return nil, structs.ErrNotFound
	}
	d = d.Copy()

	unlock := s.locker.Lock(d.ClusterID)
	defer unlock()

	if d.Status != structs.DeploymentStatusRunning {
		// Idempotent no-op: double delivery or a call racing a prior
		// terminal transition is tolerated, not an error.
		return d, nil
	}

	cluster, err := s.clusters.GetCluster(d.ClusterID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	if cluster == nil {
		return nil, structs.ErrClusterMissing
	}
	clusterCopy := *cluster

	if err := s.onCompletion(&clusterCopy, d, outcome); err != nil {
		return nil, err
	}
	incrCompletion(string(outcome), d.ClusterID)

	if err := s.persist(&clusterCopy, d, nil); err != nil {
		return nil, err
	}

	if err := s.drain(d.ClusterID); err != nil {
		return nil, err
	}
	return d, nil
}

// Cancel implements `cancel`. Terminal deployments are a benign no-op
// (returns false, nil). RUNNING deployments are cancelled by routing
// through on_completion(FAILED). Others transition directly to FAILED and
// are lazily dropped from the queue on next pop.
func (s *Scheduler) Cancel(deploymentID, userID string) (bool, error) {
	d, err := s.deployments.GetDeployment(deploymentID)
	if err != nil {
		return false, structs.WrapTransient(err)
	}
	if d == nil {
		return false, structs.ErrNotFound
	}
	d = d.Copy()

	unlock := s.locker.Lock(d.ClusterID)
	defer unlock()

	if d.Status.Terminal() {
		return false, nil
	}

	if d.Status == structs.DeploymentStatusRunning {
		cluster, err := s.clusters.GetCluster(d.ClusterID)
		if err != nil {
			return false, structs.WrapTransient(err)
		}
		if cluster == nil {
			return false, structs.ErrClusterMissing
		}
		clusterCopy := *cluster
		if err := s.onCompletion(&clusterCopy, d, structs.DeploymentStatusFailed); err != nil {
			return false, err
		}
		if err := s.persist(&clusterCopy, d, nil); err != nil {
			return false, err
		}
		if err := s.drain(d.ClusterID); err != nil {
			return false, err
		}
		return true, nil
	}

	// PENDING, QUEUED, or PREEMPTED: fail directly, leaving lazy cleanup of
	// any stale queue entry to the next pop.
	d.Status = structs.DeploymentStatusFailed
	now := s.clock.Now()
	d.CompletedAt = &now
	s.dependency.InvalidateCache(d.ID)
	if err := s.deployments.PutDeployment(d); err != nil {
		return false, structs.WrapTransient(err)
	}
	return true, nil
}

// ListByUser implements `list_by_user`.
func (s *Scheduler) ListByUser(userID string) ([]*structs.Deployment, error) {
	out, err := s.deployments.ByUser(userID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	return out, nil
}

// ListByCluster implements `list_by_cluster`.
func (s *Scheduler) ListByCluster(clusterID string) ([]*structs.Deployment, error) {
	out, err := s.deployments.ByCluster(clusterID)
	if err != nil {
		return nil, structs.WrapTransient(err)
	}
	return out, nil
}

// RebuildQueue reconstructs clusterID's pending queue from the deployment
// store's QUEUED records, scored fresh against the current clock. The heap
// does not survive a restart, so this is the startup recovery path; it is
// also how the periodic sweep re-scores every waiter instead of only the
// single entry a drain pop happens to touch.
func (s *Scheduler) RebuildQueue(clusterID string) error {
	queued, err := s.deployments.ByClusterStatus(clusterID, structs.DeploymentStatusQueued)
	if err != nil {
		return structs.WrapTransient(err)
	}
	s.queue.Rebuild(clusterID, queued, func(d *structs.Deployment) float64 {
		return Score(d, s.clock.Now())
	})
	return nil
}

// trySchedule implements spec.md §4.6's try_schedule(d), operating on an
// already cluster-lock-held, caller-owned cluster copy. It returns the
// outcome ("admitted"/"deferred") and any victims preempted along the way;
// the caller is responsible for persisting cluster, d, and victims.
func (s *Scheduler) trySchedule(cluster *structs.Cluster, d *structs.Deployment) (outcome string, victims []*structs.Deployment, err error) {
	satisfied, err := s.dependency.Satisfied(d)
	if err != nil {
		return "", nil, structs.WrapTransient(err)
	}
	if !satisfied {
		// Re-push unconditionally: a QUEUED entry popped for revalidation
		// (drain) must go back on the queue here too, not only a PENDING
		// entry on first submit, or it falls out of the queue while its
		// status stays QUEUED in the store. Push is idempotent per
		// deployment ID, so this is safe even when d was already live.
		d.Status = structs.DeploymentStatusQueued
		s.queue.Push(cluster.ID, d.ID, Score(d, s.clock.Now()))
		return outcomeDeferred, nil, nil
	}

	if s.ledger.TryDebit(cluster, d.Required) {
		now := s.clock.Now()
		d.Status = structs.DeploymentStatusRunning
		d.ScheduledAt = &now
		d.StartedAt = &now
		s.dependency.InvalidateCache(d.ID)
		return outcomeAdmitted, nil, nil
	}

	if d.Priority >= structs.PriorityHigh {
		running, err := s.deployments.ByClusterStatus(cluster.ID, structs.DeploymentStatusRunning)
		if err != nil {
			return "", nil, structs.WrapTransient(err)
		}
		avail, _ := s.ledger.Snapshot(cluster)
		plan := s.preemption.Plan(d, running, avail)
		if plan.Feasible {
			for _, v := range plan.Victims {
				v = v.Copy()
				v.Status = structs.DeploymentStatusPreempted
				v.CompletedAt = nil
				if err := s.ledger.Credit(cluster, v.Required); err != nil {
					return "", nil, err
				}
				v.Status = structs.DeploymentStatusQueued
				s.queue.Push(cluster.ID, v.ID, Score(v, s.clock.Now()))
				s.dependency.InvalidateCache(v.ID)
				victims = append(victims, v)
			}

			if !s.ledger.TryDebit(cluster, d.Required) {
				// Constructed to always succeed per spec.md §4.6 step 4;
				// reaching here means the planner and ledger disagree.
				return "", nil, structs.WrapInvariantBreach("preemption plan did not free enough capacity")
			}
			now := s.clock.Now()
			d.Status = structs.DeploymentStatusRunning
			d.ScheduledAt = &now
			d.StartedAt = &now
			s.dependency.InvalidateCache(d.ID)
			incrPreemption(cluster.ID, len(victims))
			return outcomeAdmitted, victims, nil
		}
	}

	d.Status = structs.DeploymentStatusQueued
	s.queue.Push(cluster.ID, d.ID, Score(d, s.clock.Now()))
	return outcomeDeferred, nil, nil
}

// onCompletion implements spec.md §4.6's on_completion(d, outcome), minus
// the drain (callers invoke drain separately after persisting, so the
// drain observes committed state). Precondition: d.Status == RUNNING,
// enforced by callers.
func (s *Scheduler) onCompletion(cluster *structs.Cluster, d *structs.Deployment, outcome structs.DeploymentStatus) error {
	if err := s.ledger.Credit(cluster, d.Required); err != nil {
		return err
	}
	now := s.clock.Now()
	d.CompletedAt = &now
	d.Status = outcome
	s.dependency.InvalidateCache(d.ID)
	return nil
}

// drain implements spec.md §4.6's queue drain: repeatedly pop the
// highest-scored entry, validate it, and attempt admission. A deferral
// stops the drain (no lower-priority waiter could succeed where the
// highest-priority one did not); invalid entries are silently discarded.
func (s *Scheduler) drain(clusterID string) error {
	for {
		entry := s.queue.PopHighest(clusterID)
		if entry == nil {
			return nil
		}

		d, err := s.deployments.GetDeployment(entry.DeploymentID)
		if err != nil {
			return structs.WrapTransient(err)
		}
		if d == nil || d.Status != structs.DeploymentStatusQueued {
			continue // stale entry: silently discarded
		}
		d = d.Copy()

		cluster, err := s.clusters.GetCluster(clusterID)
		if err != nil {
			return structs.WrapTransient(err)
		}
		if cluster == nil {
			d.Status = structs.DeploymentStatusFailed
			now := s.clock.Now()
			d.CompletedAt = &now
			s.log.Warn("cluster missing during drain, failing deployment", "deployment_id", d.ID, "cluster_id", clusterID)
			if err := s.deployments.PutDeployment(d); err != nil {
				return structs.WrapTransient(err)
			}
			continue
		}
		clusterCopy := *cluster

		outcome, victims, err := s.trySchedule(&clusterCopy, d)
		if err != nil {
			return err
		}
		incrOutcome(outcome, clusterID)

		if err := s.persist(&clusterCopy, d, victims); err != nil {
			return err
		}

		if outcome == outcomeDeferred {
			// The entry was popped for revalidation; re-push it unchanged
			// (trySchedule already did so when it re-queued), then stop:
			// a deferral at the highest score means no lower-scored entry
			// can succeed either.
			return nil
		}
	}
}

// persist commits cluster, d, and any victims produced by a trySchedule
// call as one memdb transaction, via Persister.CommitSchedule. A failure
// here is transient (store unreachable) and leaves no partial write behind:
// either the ledger debit/credit and every status transition land together,
// or none of them do. The in-memory queue may be briefly ahead of the
// committed store in that failure case, which is safe because the queue is
// advisory and the scheduler always revalidates status against the store on
// pop.
func (s *Scheduler) persist(cluster *structs.Cluster, d *structs.Deployment, victims []*structs.Deployment) error {
	deployments := make([]*structs.Deployment, 0, len(victims)+1)
	deployments = append(deployments, victims...)
	deployments = append(deployments, d)
	if err := s.persister.CommitSchedule(cluster, deployments); err != nil {
		return structs.WrapTransient(err)
	}
	return nil
}
