package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	P1            PlayerJSON `json:"p1"`
	P2            PlayerJSON `json:"p2"`
	SyncProgress  float64    `json:"sync_progress"`
	SyncPercent   int        `json:"sync_percent"`
	Locked        bool       `json:"locked"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// PlayerJSON is the JSON representation of one player's oscillator summary.
type PlayerJSON struct {
	State     string  `json:"state"`
	Frequency float64 `json:"frequency_hz"`
	AngleDeg  float64 `json:"angle_deg"`
	Position  float64 `json:"position"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of activity counters.
type CountsJSON struct {
	SessionsP1 int `json:"sessions_p1"`
	SessionsP2 int `json:"sessions_p2"`
	Resets     int `json:"resets"`
	Locks      int `json:"locks"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	FPS         int    `json:"fps"`
	Difficulty  string `json:"difficulty"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		P1:            buildPlayer(snap.P1),
		P2:            buildPlayer(snap.P2),
		SyncProgress:  snap.SyncProgress,
		SyncPercent:   int(snap.SyncProgress * 100),
		Locked:        snap.Locked,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			SessionsP1: snap.Counts.SessionsP1,
			SessionsP2: snap.Counts.SessionsP2,
			Resets:     snap.Counts.Resets,
			Locks:      snap.Counts.Locks,
		},
		Config: ConfigJSON{
			FPS:         snap.Config.FPS,
			Difficulty:  snap.Config.Difficulty,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			HeartbeatMs: snap.Config.HeartbeatMs,
		},
	}
}

func buildPlayer(p PlayerStatus) PlayerJSON {
	state := p.State
	if state == "" {
		state = StateIdle
	}
	return PlayerJSON{
		State:     state,
		Frequency: p.Frequency,
		AngleDeg:  p.AngleDeg,
		Position:  p.Position,
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
