// Package structs defines the core data model of the deployment scheduler:
// clusters, deployments, resource vectors, and the enums that drive the
// admission state machine.
package structs

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriorityTier is the static priority class of a Deployment. Higher tiers
// dominate the priority score and may preempt strictly-lower tiers.
type PriorityTier int

const (
	PriorityLow PriorityTier = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (t PriorityTier) String() string {
	switch t {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the four declared tiers.
func (t PriorityTier) Valid() bool {
	return t >= PriorityLow && t <= PriorityCritical
}

// ParsePriorityTier converts a case-insensitive tier name into its enum.
func ParsePriorityTier(s string) (PriorityTier, bool) {
	switch strings.ToLower(s) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	case "critical":
		return PriorityCritical, true
	default:
		return 0, false
	}
}

// DeploymentStatus is the lifecycle state of a Deployment, per spec.md §4.6.
type DeploymentStatus string

const (
	DeploymentStatusPending   DeploymentStatus = "pending"
	DeploymentStatusQueued    DeploymentStatus = "queued"
	DeploymentStatusRunning   DeploymentStatus = "running"
	DeploymentStatusCompleted DeploymentStatus = "completed"
	DeploymentStatusFailed    DeploymentStatus = "failed"
	DeploymentStatusPreempted DeploymentStatus = "preempted"
)

// Terminal reports whether the status is one of the two terminal states.
func (s DeploymentStatus) Terminal() bool {
	return s == DeploymentStatusCompleted || s == DeploymentStatusFailed
}

// Resources is a demand or capacity vector over the three tracked resource
// kinds. Ram and Cpu are fractional and represented with decimal.Decimal to
// keep repeated debit/credit cycles exact; Gpu is integral.
type Resources struct {
	Ram decimal.Decimal `json:"ram"`
	Cpu decimal.Decimal `json:"cpu"`
	Gpu int64           `json:"gpu"`
}

// NewResources builds a Resources vector from plain numbers, the shape in
// which it typically arrives off the wire.
func NewResources(ram, cpu float64, gpu int64) Resources {
	return Resources{
		Ram: decimal.NewFromFloat(ram),
		Cpu: decimal.NewFromFloat(cpu),
		Gpu: gpu,
	}
}

// Negative reports whether any component of r is negative.
func (r Resources) Negative() bool {
	return r.Ram.IsNegative() || r.Cpu.IsNegative() || r.Gpu < 0
}

// Add returns the component-wise sum of r and o.
func (r Resources) Add(o Resources) Resources {
	return Resources{
		Ram: r.Ram.Add(o.Ram),
		Cpu: r.Cpu.Add(o.Cpu),
		Gpu: r.Gpu + o.Gpu,
	}
}

// Sub returns the component-wise difference r - o.
func (r Resources) Sub(o Resources) Resources {
	return Resources{
		Ram: r.Ram.Sub(o.Ram),
		Cpu: r.Cpu.Sub(o.Cpu),
		Gpu: r.Gpu - o.Gpu,
	}
}

// GreaterThanOrEqual reports whether r covers the demand vector o on every
// component.
func (r Resources) GreaterThanOrEqual(o Resources) bool {
	return r.Ram.GreaterThanOrEqual(o.Ram) && r.Cpu.GreaterThanOrEqual(o.Cpu) && r.Gpu >= o.Gpu
}

// Cluster is a per-organization pool of fixed RAM/CPU/GPU capacity. The
// scheduler treats Cluster as read-mostly: Total is immutable after
// creation, Available is mutated only under the cluster's lock (see
// scheduler.ClusterLocker) by scheduler/ledger.go.
type Cluster struct {
	ID             string
	Name           string
	OrganizationID string

	TotalRam decimal.Decimal
	TotalCpu decimal.Decimal
	TotalGpu int64

	AvailRam decimal.Decimal
	AvailCpu decimal.Decimal
	AvailGpu int64

	CreatedAt time.Time
}

// Total returns the cluster's fixed capacity as a Resources vector.
func (c *Cluster) Total() Resources {
	return Resources{Ram: c.TotalRam, Cpu: c.TotalCpu, Gpu: c.TotalGpu}
}

// Avail returns the cluster's live availability as a Resources vector.
func (c *Cluster) Avail() Resources {
	return Resources{Ram: c.AvailRam, Cpu: c.AvailCpu, Gpu: c.AvailGpu}
}

// Deployment is a single containerized job request targeted at one cluster.
type Deployment struct {
	ID             string
	Name           string
	Image          string
	ClusterID      string
	UserID         string

	Required Resources
	Priority PriorityTier
	Status   DeploymentStatus

	// PredecessorID is the identity reference to another Deployment this one
	// may not run before completing. Cyclic model references are represented
	// as identity, never an in-memory ownership link (spec.md §9).
	PredecessorID string

	CreatedAt   time.Time
	ScheduledAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	// QueueSeq is not written by the scheduler or the queue: PendingQueue
	// keeps its FIFO tie-break counter on its own QueueEntry values, so this
	// field stays zero unless a caller sets it.
	QueueSeq uint64
}

// HasPredecessor reports whether d declares a dependency.
func (d *Deployment) HasPredecessor() bool {
	return d.PredecessorID != ""
}

// Copy returns a deep-enough copy of d for safe handoff across the
// scheduler/store boundary (callers must not observe partial mutation).
func (d *Deployment) Copy() *Deployment {
	if d == nil {
		return nil
	}
	cp := *d
	if d.ScheduledAt != nil {
		t := *d.ScheduledAt
		cp.ScheduledAt = &t
	}
	if d.StartedAt != nil {
		t := *d.StartedAt
		cp.StartedAt = &t
	}
	if d.CompletedAt != nil {
		t := *d.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}
