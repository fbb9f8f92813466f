package engine

import (
	"math"
	"testing"
	"time"
)

// runEngine steps the engine at 60 Hz for the given span, submitting the
// same schedule to the named players and collecting all emitted events.
func runEngine(e *Engine, seconds float64, p1 []scheduled, p2 []scheduled) []Event {
	frames := int(seconds / frame.Seconds())
	i1, i2 := 0, 0
	var events []Event
	for i := 1; i <= frames; i++ {
		now := t0.Add(time.Duration(i) * frame)
		for i1 < len(p1) {
			at := t0.Add(time.Duration(p1[i1].at * float64(time.Second)))
			if at.After(now) {
				break
			}
			e.Submit(PlayerOne, p1[i1].sig, at)
			i1++
		}
		for i2 < len(p2) {
			at := t0.Add(time.Duration(p2[i2].at * float64(time.Second)))
			if at.After(now) {
				break
			}
			e.Submit(PlayerTwo, p2[i2].sig, at)
			i2++
		}
		events = append(events, e.Tick(frame, now)...)
	}
	return events
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestSubmitRouting(t *testing.T) {
	e := New(DefaultParams(), t0)
	e.Submit(PlayerTwo, SignalUp, t0)
	if e.Oscillator(PlayerOne).QueueLen() != 0 {
		t.Error("player one queue should be empty")
	}
	if e.Oscillator(PlayerTwo).QueueLen() != 1 {
		t.Error("player two queue should hold the signal")
	}
}

func TestSyncLockWithIdenticalPlay(t *testing.T) {
	e := New(DefaultParams(), t0)
	schedule := alternating(0, 0.8, 13) // inputs through t=9.6

	events := runEngine(e, 10.0, schedule, schedule)

	if !e.Locked() {
		t.Fatalf("identical play should lock; progress %v", e.Progress())
	}
	if e.Progress() != 1.0 {
		t.Errorf("expected progress 1.0, got %v", e.Progress())
	}
	if n := countEvents(events, EventSyncLocked); n != 1 {
		t.Errorf("expected exactly 1 SYNC_LOCKED, got %d", n)
	}
	if n := countEvents(events, EventPlayerActive); n != 2 {
		t.Errorf("expected 2 PLAYER_ACTIVE (one per player), got %d", n)
	}

	counts := e.CountsSnapshot()
	if counts.Locks != 1 {
		t.Errorf("expected 1 lock counted, got %d", counts.Locks)
	}
	if counts.SessionsP1 != 1 || counts.SessionsP2 != 1 {
		t.Errorf("expected one session per player, got %+v", counts)
	}

	// Identical submissions and a shared frame clock leave zero phase gap.
	d := wrapPi(e.Oscillator(PlayerOne).DisplayAngle() - e.Oscillator(PlayerTwo).DisplayAngle())
	if d != 0 {
		t.Errorf("expected exact phase agreement, got diff %v", d)
	}
}

func TestSyncRequiresBothActive(t *testing.T) {
	e := New(DefaultParams(), t0)
	events := runEngine(e, 8.0, alternating(0, 0.8, 9), nil)

	if e.Progress() != 0 {
		t.Errorf("solo play should never accrue sync, got progress %v", e.Progress())
	}
	if n := countEvents(events, EventSyncLocked); n != 0 {
		t.Errorf("expected no SYNC_LOCKED, got %d", n)
	}
}

func TestSyncFrequencyMismatch(t *testing.T) {
	e := New(DefaultParams(), t0)
	// 0.625 Hz versus ~0.417 Hz: outside the 0.10 Hz tolerance.
	runEngine(e, 9.0, alternating(0, 0.8, 11), alternating(0, 1.2, 7))

	if e.Progress() != 0 {
		t.Errorf("mismatched cadence should never accrue sync, got %v", e.Progress())
	}
}

func TestSyncDecaysAtDoubleRate(t *testing.T) {
	e := New(DefaultParams(), t0)
	e.syncTimer = 2.0

	// Nothing is active, so every frame decays at 2x the frame time.
	frames := int(0.5 / frame.Seconds())
	for i := 1; i <= frames; i++ {
		e.Tick(frame, t0.Add(time.Duration(i)*frame))
	}
	if math.Abs(e.syncTimer-1.0) > 0.01 {
		t.Errorf("expected sync timer ~1.0 after 0.5s of decay, got %v", e.syncTimer)
	}

	for i := frames + 1; i <= 2*frames+2; i++ {
		e.Tick(frame, t0.Add(time.Duration(i)*frame))
	}
	if e.syncTimer != 0 {
		t.Errorf("expected sync timer drained to 0, got %v", e.syncTimer)
	}
}

func TestSyncLostAndIdleEvents(t *testing.T) {
	e := New(DefaultParams(), t0)
	schedule := alternating(0, 0.8, 13) // quiet after t=9.6

	// Long enough for lock (~7.8s), idle entry (~13.6s) and the full idle
	// return to complete for both players.
	events := runEngine(e, 17.0, schedule, schedule)

	if e.Locked() {
		t.Error("lock should have decayed after play stopped")
	}
	if n := countEvents(events, EventSyncLocked); n != 1 {
		t.Errorf("expected 1 SYNC_LOCKED, got %d", n)
	}
	if n := countEvents(events, EventSyncLost); n != 1 {
		t.Errorf("expected 1 SYNC_LOST, got %d", n)
	}
	if n := countEvents(events, EventPlayerIdle); n != 2 {
		t.Errorf("expected 2 PLAYER_IDLE, got %d", n)
	}
	if n := countEvents(events, EventPlayerReset); n != 2 {
		t.Errorf("expected 2 PLAYER_RESET, got %d", n)
	}

	counts := e.CountsSnapshot()
	if counts.Resets != 2 {
		t.Errorf("expected 2 resets counted, got %d", counts.Resets)
	}

	// Order sanity: the lock precedes the loss, the loss precedes the resets.
	var lockedAt, lostAt, resetAt time.Time
	for _, ev := range events {
		switch ev.Type {
		case EventSyncLocked:
			lockedAt = ev.Timestamp
		case EventSyncLost:
			lostAt = ev.Timestamp
		case EventPlayerReset:
			resetAt = ev.Timestamp
		}
	}
	if !lockedAt.Before(lostAt) {
		t.Errorf("lock at %v should precede loss at %v", lockedAt, lostAt)
	}
	if !lostAt.Before(resetAt) {
		t.Errorf("loss at %v should precede reset at %v", lostAt, resetAt)
	}
}

func TestProgressZeroDurationGuard(t *testing.T) {
	params := DefaultParams()
	params.SyncDuration = 0
	e := New(params, t0)
	if e.Progress() != 0 {
		t.Errorf("zero sync duration should report progress 0, got %v", e.Progress())
	}
}

func TestWrapPi(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{-math.Pi / 2, -math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, -math.Pi},
	}
	for _, c := range cases {
		if got := wrapPi(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("wrapPi(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDifficulties(t *testing.T) {
	med, ok := Difficulties["medium"]
	if !ok {
		t.Fatal("medium difficulty missing")
	}
	def := DefaultParams()
	if med.Freq != def.FreqTolerance || med.Phase != def.PhaseTolerance {
		t.Errorf("medium difficulty %+v should match defaults (%v/%v)", med, def.FreqTolerance, def.PhaseTolerance)
	}
	for _, name := range []string{"easy", "hard"} {
		if _, ok := Difficulties[name]; !ok {
			t.Errorf("%s difficulty missing", name)
		}
	}
}
