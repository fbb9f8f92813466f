package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/grid-sync/internal/engine"
)

var startTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		FPS:         60,
		Difficulty:  "medium",
		Broker:      "tcp://broker:1883",
		HTTPAddr:    ":80",
		HeartbeatMs: 900000,
	}
}

func TestNewTrackerDefaults(t *testing.T) {
	tr := NewTracker(startTime, testConfig())
	snap := tr.Snapshot()

	if snap.P1.State != StateIdle || snap.P2.State != StateIdle {
		t.Errorf("players should start IDLE, got %s/%s", snap.P1.State, snap.P2.State)
	}
	if snap.SyncProgress != 0 || snap.Locked {
		t.Error("sync state should start zeroed")
	}
	if !snap.StartTime.Equal(startTime) {
		t.Errorf("start time: got %v", snap.StartTime)
	}
	if snap.Now.IsZero() {
		t.Error("Snapshot should stamp Now")
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(startTime, testConfig())
	tr.Update(
		PlayerStatus{State: StateActive, Frequency: 0.625, AngleDeg: 180, Position: -0.5},
		PlayerStatus{State: StateReturning, Frequency: 0, AngleDeg: 12, Position: 0.1},
		0.4, false,
		engine.Counts{SessionsP1: 2, SessionsP2: 1, Locks: 1},
	)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.P1.State != StateActive || snap.P1.Frequency != 0.625 {
		t.Errorf("p1 not updated: %+v", snap.P1)
	}
	if snap.P2.State != StateReturning {
		t.Errorf("p2 not updated: %+v", snap.P2)
	}
	if snap.SyncProgress != 0.4 {
		t.Errorf("progress not updated: %v", snap.SyncProgress)
	}
	if !snap.MQTTConnected {
		t.Error("mqtt flag not updated")
	}
	if snap.Counts.SessionsP1 != 2 {
		t.Errorf("counts not updated: %+v", snap.Counts)
	}
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	tr := NewTracker(startTime, testConfig())
	snap := tr.Snapshot()

	tr.Update(PlayerStatus{State: StateActive}, PlayerStatus{State: StateActive}, 1.0, true, engine.Counts{})

	if snap.P1.State != StateIdle || snap.Locked {
		t.Error("earlier snapshot should not observe later updates")
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(startTime, testConfig())
	tr.Update(
		PlayerStatus{State: StateActive, Frequency: 0.625, AngleDeg: 90, Position: 1},
		PlayerStatus{State: StateIdle},
		0.5, false,
		engine.Counts{Locks: 3},
	)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", err)
	}
	if sj.Status.P1.State != "ACTIVE" {
		t.Errorf("p1 state: %q", sj.Status.P1.State)
	}
	if sj.Status.SyncPercent != 50 {
		t.Errorf("sync percent: %d", sj.Status.SyncPercent)
	}
	if sj.Status.Counts.Locks != 3 {
		t.Errorf("locks: %d", sj.Status.Counts.Locks)
	}
	if sj.Status.Config.Difficulty != "medium" {
		t.Errorf("difficulty: %q", sj.Status.Config.Difficulty)
	}
	if sj.Status.Event != "" {
		t.Errorf("web JSON should carry no event field, got %q", sj.Status.Event)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(startTime, testConfig())

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatal(err)
	}
	if sj.Status.Event != "SHUTDOWN" || sj.Status.Reason != "SIGTERM" {
		t.Errorf("event fields missing: %+v", sj.Status)
	}
}

func TestEmptyPlayerStateReadsIdle(t *testing.T) {
	tr := NewTracker(startTime, testConfig())
	tr.Update(PlayerStatus{}, PlayerStatus{}, 0, false, engine.Counts{})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatal(err)
	}
	if sj.Status.P1.State != "IDLE" {
		t.Errorf("empty state should render IDLE, got %q", sj.Status.P1.State)
	}
}
