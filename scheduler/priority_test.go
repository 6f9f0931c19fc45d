package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetforge/scheduler/structs"
)

func TestScore_TierDominatesAging(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	low := &structs.Deployment{Priority: structs.PriorityLow, CreatedAt: now.Add(-1000 * time.Hour)}
	medium := &structs.Deployment{Priority: structs.PriorityMedium, CreatedAt: now}

	require.Greater(t, Score(medium, now), Score(low, now))
}

func TestScore_AgingCapsAtCeiling(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &structs.Deployment{Priority: structs.PriorityLow, CreatedAt: now.Add(-1000 * time.Hour)}

	require.Equal(t, 1000.0+100.0, Score(d, now))
}

func TestScore_OlderWithinTierScoresHigher(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &structs.Deployment{Priority: structs.PriorityLow, CreatedAt: now.Add(-2 * time.Hour)}
	newer := &structs.Deployment{Priority: structs.PriorityLow, CreatedAt: now}

	require.Greater(t, Score(older, now), Score(newer, now))
}

func TestScore_FutureCreatedAtClampsToZeroAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &structs.Deployment{Priority: structs.PriorityLow, CreatedAt: now.Add(time.Hour)}

	require.Equal(t, 1000.0, Score(d, now))
}
