package monitor

import (
	"testing"

	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/relay/model"
)

func TestRecordAttemptCounts(t *testing.T) {
	reset()

	RecordAttempt("fal", model.OutcomeSucceeded)
	RecordAttempt("fal", model.OutcomeFailed)
	RecordAttempt("fal", model.OutcomeFailed)
	RecordAttempt("kolors", model.OutcomeSkipped)

	snap := Stats()
	fal := snap.Backends["fal"]
	if fal.Succeeded != 1 || fal.Failed != 2 || fal.Skipped != 0 {
		t.Errorf("fal stats = %+v", fal)
	}
	kolors := snap.Backends["kolors"]
	if kolors.Skipped != 1 {
		t.Errorf("kolors stats = %+v", kolors)
	}
}

func TestRecordOutcomeCounts(t *testing.T) {
	reset()

	RecordOutcome(model.AIMethod("fal"), true)
	RecordOutcome(model.MethodComposite, true)
	RecordOutcome(model.MethodComposite, true)
	RecordOutcome("", false)

	snap := Stats()
	if snap.Requests != 4 {
		t.Errorf("requests = %d, want 4", snap.Requests)
	}
	if snap.AIResults != 1 || snap.Composites != 2 || snap.InputErrors != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestDegradedTransitions(t *testing.T) {
	reset()
	oldEnable, oldSize, oldThreshold := config.EnableMetric, config.MetricQueueSize, config.MetricSuccessRateThreshold
	config.EnableMetric = true
	config.MetricQueueSize = 4
	config.MetricSuccessRateThreshold = 0.8
	defer func() {
		config.EnableMetric, config.MetricQueueSize, config.MetricSuccessRateThreshold = oldEnable, oldSize, oldThreshold
	}()

	for i := 0; i < 4; i++ {
		RecordAttempt("replicate", model.OutcomeFailed)
	}
	if !Stats().Backends["replicate"].Degraded {
		t.Fatal("expected backend to be marked degraded after a window of failures")
	}

	for i := 0; i < 4; i++ {
		RecordAttempt("replicate", model.OutcomeSucceeded)
	}
	if Stats().Backends["replicate"].Degraded {
		t.Fatal("expected backend to recover after a window of successes")
	}
}

func TestSuccessRateWindow(t *testing.T) {
	reset()
	oldSize := config.MetricQueueSize
	config.MetricQueueSize = 3
	defer func() { config.MetricQueueSize = oldSize }()

	RecordAttempt("fal", model.OutcomeFailed)
	RecordAttempt("fal", model.OutcomeSucceeded)
	RecordAttempt("fal", model.OutcomeSucceeded)
	RecordAttempt("fal", model.OutcomeSucceeded)

	// 第一次失败已经滑出窗口
	if rate := Stats().Backends["fal"].SuccessRate; rate != 1 {
		t.Errorf("success rate = %v, want 1", rate)
	}
}
