package engine

import (
	"math"
	"time"
)

// Engine owns the two player oscillators and the synchronization timer.
// All mutation happens inside Submit and Tick; the frame loop is the only
// writer, so no locking is needed here.
type Engine struct {
	params Params
	p1     *Oscillator
	p2     *Oscillator

	syncTimer float64
	locked    bool

	counts Counts
}

// New creates an Engine with both oscillators at rest.
func New(params Params, startTime time.Time) *Engine {
	return &Engine{
		params: params,
		p1:     NewOscillator(params, startTime),
		p2:     NewOscillator(params, startTime),
	}
}

// Submit routes a signal to the given player's oscillator. It is the only
// mutating entry point besides Tick.
func (e *Engine) Submit(p Player, sig Signal, now time.Time) {
	if p == PlayerTwo {
		e.p2.Submit(sig, now)
		return
	}
	e.p1.Submit(sig, now)
}

// Tick advances both oscillators and the sync evaluator by one frame and
// returns any transition events that should be published. now must be
// monotonically non-decreasing across calls.
func (e *Engine) Tick(dt time.Duration, now time.Time) []Event {
	sec := dt.Seconds()

	var events []Event
	events = e.tickPlayer(e.p1, PlayerOne, sec, now, events)
	events = e.tickPlayer(e.p2, PlayerTwo, sec, now, events)

	// Sync detection: both players actively waving, frequencies and phases
	// within tolerance. The timer drains faster than it fills so losing
	// sync is easy and locking requires sustained matching.
	freqDiff := math.Abs(e.p1.Frequency() - e.p2.Frequency())
	phaseDiff := math.Abs(wrapPi(e.p1.DisplayAngle() - e.p2.DisplayAngle()))
	bothActive := e.p1.Frequency() > e.params.MinActiveFreq && e.p2.Frequency() > e.params.MinActiveFreq

	if freqDiff < e.params.FreqTolerance && phaseDiff < e.params.PhaseTolerance && bothActive {
		e.syncTimer = math.Min(e.params.SyncDuration, e.syncTimer+sec)
	} else {
		e.syncTimer = math.Max(0, e.syncTimer-sec*e.params.SyncDecayRatio)
	}

	locked := e.syncTimer >= e.params.SyncDuration
	if locked && !e.locked {
		e.counts.Locks++
		events = append(events, Event{Timestamp: now, Type: EventSyncLocked, Progress: 1.0})
	}
	if !locked && e.locked {
		events = append(events, Event{Timestamp: now, Type: EventSyncLost, Progress: e.Progress()})
	}
	e.locked = locked

	return events
}

func (e *Engine) tickPlayer(o *Oscillator, p Player, sec float64, now time.Time, events []Event) []Event {
	hadInput := o.EverHadInput()
	wasReturning := o.IdleReturning()
	hadAccepted := o.havePrevAccept

	o.update(sec, now)

	// A session starts on the first accepted input after a reset.
	if !hadAccepted && o.havePrevAccept {
		if p == PlayerOne {
			e.counts.SessionsP1++
		} else {
			e.counts.SessionsP2++
		}
		events = append(events, Event{Timestamp: now, Type: EventPlayerActive, Player: p, Progress: e.Progress()})
	}
	if !wasReturning && o.IdleReturning() {
		events = append(events, Event{Timestamp: now, Type: EventPlayerIdle, Player: p, Progress: e.Progress()})
	}
	// Distinguish the completed return (everHadInput cleared) from a return
	// cancelled by fresh input.
	if wasReturning && !o.IdleReturning() && hadInput && !o.EverHadInput() {
		e.counts.Resets++
		events = append(events, Event{Timestamp: now, Type: EventPlayerReset, Player: p, Progress: e.Progress()})
	}
	return events
}

// Progress returns the sync timer as a fraction of the lock duration.
func (e *Engine) Progress() float64 {
	if e.params.SyncDuration <= 0 {
		return 0
	}
	return e.syncTimer / e.params.SyncDuration
}

// Locked reports whether the players currently hold a full sync lock.
func (e *Engine) Locked() bool { return e.locked }

// Oscillator returns the given player's oscillator for read access.
func (e *Engine) Oscillator(p Player) *Oscillator {
	if p == PlayerTwo {
		return e.p2
	}
	return e.p1
}

// CountsSnapshot returns a copy of the activity counters.
func (e *Engine) CountsSnapshot() Counts { return e.counts }

// wrapPi wraps an angle difference into [-pi, pi].
func wrapPi(a float64) float64 {
	m := math.Mod(a+math.Pi, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m - math.Pi
}
