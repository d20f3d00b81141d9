package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("reconcile")
	m.RecordRequest("reconcile")
	m.RecordFailure("reconcile")
	m.RecordDuration("reconcile", 100*time.Millisecond)
	m.RecordDuration("reconcile", 300*time.Millisecond)
	m.RecordRequest("coaching")

	snap := m.Snapshot()
	if snap.RequestTotal != 3 {
		t.Errorf("RequestTotal = %d, want 3", snap.RequestTotal)
	}
	if snap.RequestFailed != 1 {
		t.Errorf("RequestFailed = %d, want 1", snap.RequestFailed)
	}

	op := snap.Operations["reconcile"]
	if op == nil {
		t.Fatal("missing reconcile operation")
	}
	if op.Count != 2 || op.ErrorCount != 1 {
		t.Errorf("reconcile = %+v", op)
	}
	if op.AverageDuration != 200 {
		t.Errorf("AverageDuration = %d, want 200", op.AverageDuration)
	}

	if got := snap.SuccessRate(); got < 66 || got > 67 {
		t.Errorf("SuccessRate = %v, want ~66.7", got)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("reconcile")
	m.Reset()

	snap := m.Snapshot()
	if snap.RequestTotal != 0 || len(snap.Operations) != 0 {
		t.Errorf("unexpected snapshot after reset: %+v", snap)
	}
	if snap.SuccessRate() != 100.0 {
		t.Errorf("SuccessRate = %v, want 100", snap.SuccessRate())
	}
}
