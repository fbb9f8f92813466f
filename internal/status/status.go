// Package status provides a thread-safe status tracker for the grid-sync
// daemon. It is read by the HTTP handlers and by MQTT snapshot events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/grid-sync/internal/engine"
)

// Player state strings for display.
const (
	StateActive    = "ACTIVE"
	StateReturning = "RETURNING"
	StateIdle      = "IDLE"
)

// PlayerStatus is a display summary of one oscillator.
type PlayerStatus struct {
	State     string  // ACTIVE, RETURNING or IDLE
	Frequency float64 // Hz
	AngleDeg  float64 // display angle in degrees
	Position  float64 // normalized wave offset
}

// Config contains daemon configuration for display.
type Config struct {
	FPS         int
	Difficulty  string
	Broker      string
	HTTPAddr    string
	HeartbeatMs int64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	P1            PlayerStatus
	P2            PlayerStatus
	SyncProgress  float64
	Locked        bool
	Counts        engine.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			P1:        PlayerStatus{State: StateIdle},
			P2:        PlayerStatus{State: StateIdle},
		},
	}
}

// Update sets the per-player summaries and sync state.
// Called from the frame loop every tick.
func (t *Tracker) Update(p1, p2 PlayerStatus, progress float64, locked bool, counts engine.Counts) {
	t.mu.Lock()
	t.snap.P1 = p1
	t.snap.P2 = p2
	t.snap.SyncProgress = progress
	t.snap.Locked = locked
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
