package scheduler

import (
	"time"

	"github.com/fleetforge/scheduler/structs"
)

const (
	tierWeight   = 1000.0
	agingPerHour = 10.0
	agingCeiling = 100.0
)

// Score computes spec.md §4.3's priority score:
//
//	score = 1000 * tier + min(10 * age_hours, 100)
//
// The tier term dominates (>=1000 gap between tiers) so pre-emption stays
// priority-true; the aging term adds at most 100 points, guaranteeing
// eventual progress within a tier without ever crossing a tier boundary.
// Per spec.md §9's resolved open question, age is always measured from the
// deployment's original CreatedAt; preemption never resets it.
func Score(d *structs.Deployment, now time.Time) float64 {
	ageHours := now.Sub(d.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	bonus := agingPerHour * ageHours
	if bonus > agingCeiling {
		bonus = agingCeiling
	}
	return tierWeight*float64(d.Priority) + bonus
}
