package attract

import (
	"math"
	"testing"
)

const frame = 1.0 / 60

func TestNoPulsesWhileActive(t *testing.T) {
	s := NewScheduler(DefaultInterval, DefaultSpeed)
	for i := 0; i < 600; i++ {
		s.Tick(frame, false, false)
	}
	if len(s.Rings(0)) != 0 || len(s.Rings(1)) != 0 {
		t.Error("active players should not get attract pulses")
	}
}

func TestFirstPulseWaitsFullInterval(t *testing.T) {
	s := NewScheduler(0.9, DefaultSpeed)

	// Almost a full interval idle, then a moment of activity resets it.
	for i := 0; i < 50; i++ { // ~0.83s
		s.Tick(frame, true, false)
	}
	s.Tick(frame, false, false)
	for i := 0; i < 50; i++ {
		s.Tick(frame, true, false)
	}
	if len(s.Rings(0)) != 0 {
		t.Error("pulse timer should reset on activity")
	}

	for i := 0; i < 10; i++ {
		s.Tick(frame, true, false)
	}
	if len(s.Rings(0)) != 1 {
		t.Errorf("expected 1 ring after a full idle interval, got %d", len(s.Rings(0)))
	}
	if len(s.Rings(1)) != 0 {
		t.Error("player two was never idle, expected no rings")
	}
}

func TestRingLifecycle(t *testing.T) {
	s := NewScheduler(10, 1.5) // long interval: fire manually once
	s.fire(0)

	r := s.Rings(0)
	if len(r) != 1 || r[0].Frac != 0 {
		t.Fatalf("expected one fresh ring, got %+v", r)
	}
	if math.Abs(r[0].Fade()-1.0) > 1e-9 {
		t.Errorf("fresh ring should be fully opaque, got %v", r[0].Fade())
	}

	// At speed 1.5 the ring crosses fadeStart and dies at frac >= 1.
	for i := 0; i < 30; i++ { // 0.5s -> frac 0.75
		s.Tick(frame, false, false)
	}
	r = s.Rings(0)
	if len(r) != 1 {
		t.Fatalf("ring should still be alive, got %d", len(r))
	}
	if r[0].Fade() >= 1.0 || r[0].Fade() <= 0 {
		t.Errorf("mid-flight ring should be fading, got %v", r[0].Fade())
	}

	for i := 0; i < 15; i++ { // past frac 1.0
		s.Tick(frame, false, false)
	}
	if len(s.Rings(0)) != 0 {
		t.Error("ring should have expired")
	}
}

func TestRingPoolRecycles(t *testing.T) {
	s := NewScheduler(10, 0.0001) // effectively frozen rings
	for i := 0; i < 5; i++ {
		s.fire(0)
	}
	if n := len(s.Rings(0)); n != ringPool {
		t.Errorf("pool should cap at %d rings, got %d", ringPool, n)
	}
}
