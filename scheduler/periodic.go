package scheduler

import (
	"context"
	"time"

	"github.com/hashicorp/cronexpr"
	"github.com/hashicorp/go-hclog"
)

// PeriodicSweeper re-scores every queued deployment on a cron schedule and
// then drains from the top of the queue (stopping at the first deferral), so
// that the aging term in Score actually advances
// admission decisions even for clusters that see no new submit/complete
// traffic to trigger a drain. Shaped after a cronexpr-driven launch loop
// (nomad/scheduler/periodic.go), repurposed here to a re-score sweep instead
// of a job-launch sweep.
//
// Each sweep calls Scheduler.RebuildQueue before draining, so every waiter's
// score is recomputed against the current clock rather than only the one
// entry drain happens to pop.
type PeriodicSweeper struct {
	sched *Scheduler
	expr  *cronexpr.Expression
	log   hclog.Logger
}

// NewPeriodicSweeper parses cronSpec (cronexpr syntax: 5 fields, 6 fields
// with a trailing year, or 7 fields with a leading seconds field and a
// trailing year) and builds a sweeper over sched. Only the 7-field form can
// fire more than once a minute.
func NewPeriodicSweeper(sched *Scheduler, cronSpec string, log hclog.Logger) (*PeriodicSweeper, error) {
	expr, err := cronexpr.Parse(cronSpec)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &PeriodicSweeper{sched: sched, expr: expr, log: log.Named("periodic")}, nil
}

// Run blocks, firing a sweep at each cron occurrence until ctx is
// cancelled.
func (p *PeriodicSweeper) Run(ctx context.Context, clusterIDs func() ([]string, error)) {
	for {
		next := p.expr.Next(time.Now())
		wait := time.Until(next)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		ids, err := clusterIDs()
		if err != nil {
			p.log.Warn("failed to list clusters for aging sweep", "error", err)
			continue
		}
		for _, id := range ids {
			if err := p.sweep(id); err != nil {
				p.log.Warn("aging sweep failed", "cluster_id", id, "error", err)
			}
		}
	}
}

// sweep rebuilds clusterID's queue with fresh scores and forces a drain
// attempt even with no new arrival, letting deployments whose aging bonus
// has since crossed a competitor's score get their turn at admission.
func (p *PeriodicSweeper) sweep(clusterID string) error {
	unlock := p.sched.locker.Lock(clusterID)
	defer unlock()
	if err := p.sched.RebuildQueue(clusterID); err != nil {
		return err
	}
	return p.sched.drain(clusterID)
}
