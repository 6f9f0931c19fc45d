package scheduler

import "github.com/hashicorp/go-metrics"

// Outcome labels emitted by the scheduler core on every try_schedule call,
// labeling scheduling-decision counters by outcome rather than emitting a
// single undifferentiated counter.
const (
	outcomeAdmitted = "admitted"
	outcomeDeferred = "deferred"
)

func incrOutcome(outcome string, clusterID string) {
	metrics.IncrCounterWithLabels([]string{"scheduler", "try_schedule"}, 1, []metrics.Label{
		{Name: "outcome", Value: outcome},
		{Name: "cluster_id", Value: clusterID},
	})
}

func incrPreemption(clusterID string, victims int) {
	if victims == 0 {
		return
	}
	metrics.IncrCounterWithLabels([]string{"scheduler", "preempted"}, float32(victims), []metrics.Label{
		{Name: "cluster_id", Value: clusterID},
	})
}

func incrCompletion(outcome string, clusterID string) {
	metrics.IncrCounterWithLabels([]string{"scheduler", "completion"}, 1, []metrics.Label{
		{Name: "outcome", Value: outcome},
		{Name: "cluster_id", Value: clusterID},
	})
}
