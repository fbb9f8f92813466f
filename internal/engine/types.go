// Package engine contains the pure oscillator and synchronization core for
// the exhibit. This package has NO external dependencies (no GPIO, MQTT, OS,
// or time.Sleep). Time is always injectable via time.Time parameters.
package engine

import "time"

// Signal is a discrete up/down input from a player.
type Signal string

const (
	SignalUp   Signal = "UP"
	SignalDown Signal = "DOWN"
)

// Player identifies one of the two exhibit stations.
type Player string

const (
	PlayerOne Player = "P1"
	PlayerTwo Player = "P2"
)

// EventType represents an exhibit state transition event.
type EventType string

const (
	// EventPlayerActive fires when a player's first accepted input starts a session.
	EventPlayerActive EventType = "PLAYER_ACTIVE"
	// EventPlayerIdle fires when a player's oscillator begins its idle return.
	EventPlayerIdle EventType = "PLAYER_IDLE"
	// EventPlayerReset fires when an idle return completes and the oscillator
	// soft-resets to its never-played baseline.
	EventPlayerReset EventType = "PLAYER_RESET"
	// EventSyncLocked fires when the sync timer reaches the full hold duration.
	EventSyncLocked EventType = "SYNC_LOCKED"
	// EventSyncLost fires when a previously locked sync decays below full.
	EventSyncLost EventType = "SYNC_LOST"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Player    Player  // empty for sync events
	Progress  float64 // sync progress in [0,1] at the time of the event
}

// Counts tracks exhibit activity since startup.
type Counts struct {
	SessionsP1 int // sessions started by player one
	SessionsP2 int
	Resets     int // completed idle returns (both players)
	Locks      int // times full sync was achieved
}

// queuedInput is a delayed signal waiting to influence motion.
type queuedInput struct {
	fireAt    time.Time
	direction int // +1 up, -1 down
}

// Params holds the exhibit tuning values. Durations are in seconds and
// speeds in rad/s, matching the units the motion math works in.
type Params struct {
	// InputDelay is how long a signal is buffered before it affects motion.
	// The delay is what produces the deliberate perceptual smoothing lag.
	InputDelay float64

	// IdleResetTime is how long without input before the idle return begins.
	IdleResetTime float64
	// IdleReturnSpeed is the arrow's constant glide speed back to 0 degrees.
	IdleReturnSpeed float64
	// IdleWaveSettle is how long the wave takes to ease back to centre.
	IdleWaveSettle float64

	// SettleDuration is the ease back to centre after a half-cycle completes
	// with no follow-up input.
	SettleDuration float64

	// MinGap and MaxGap bound plausible inter-input gaps; gaps outside the
	// range are ignored for timing so double-taps and long pauses do not
	// corrupt the established half-period.
	MinGap float64
	MaxGap float64

	// SyncDuration is how long players must hold sync to lock.
	SyncDuration float64
	// SyncDecayRatio is how much faster the sync timer drains than it fills.
	SyncDecayRatio float64
	// FreqTolerance is the max |f1 - f2| in Hz that still counts as synced.
	FreqTolerance float64
	// PhaseTolerance is the max phase difference in radians.
	PhaseTolerance float64
	// MinActiveFreq is the frequency below which a player is not considered
	// to be actively waving.
	MinActiveFreq float64
}

// DefaultParams returns the exhibit's shipped tuning.
func DefaultParams() Params {
	return Params{
		InputDelay:      2.0,
		IdleResetTime:   4.0,
		IdleReturnSpeed: 4.0,
		IdleWaveSettle:  1.2,
		SettleDuration:  0.55,
		MinGap:          0.05,
		MaxGap:          5.0,
		SyncDuration:    5.0,
		SyncDecayRatio:  2.0,
		FreqTolerance:   0.10,
		PhaseTolerance:  0.20,
		MinActiveFreq:   0.05,
	}
}

// Tolerances is a frequency/phase tolerance pairing.
type Tolerances struct {
	Freq  float64
	Phase float64
}

// Difficulties maps named difficulty levels to tolerance pairings.
// Values come from tuning sessions on the floor; lower is harder.
var Difficulties = map[string]Tolerances{
	"easy":   {Freq: 0.20, Phase: 0.15},
	"medium": {Freq: 0.10, Phase: 0.20},
	"hard":   {Freq: 0.05, Phase: 0.08},
}

func direction(s Signal) int {
	if s == SignalDown {
		return -1
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
