// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
	"github.com/sweeney/induction-hob/internal/status"
)

// Topic is the MQTT topic for session transitions.
const Topic = "kitchen/hob/events"

// TopicTelemetry is the MQTT topic for periodic sensor telemetry.
const TopicTelemetry = "kitchen/hob/telemetry"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "kitchen/hob/system"

// Publisher publishes hob activity to MQTT.
type Publisher interface {
	// Publish sends a state transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishTelemetry sends a sensor sample to the broker.
	PublishTelemetry(snap logic.Snapshot) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a daemon lifecycle event (STARTUP, SHUTDOWN, RECONNECTED).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // e.g. "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload is the MQTT message for a state transition.
type Payload struct {
	Hob HobEventPayload `json:"hob"`
}

// HobEventPayload contains the transition details.
type HobEventPayload struct {
	Timestamp string `json:"timestamp"`
	Tick      int64  `json:"tick"`
	SessionID string `json:"session_id,omitempty"`
	Recipe    string `json:"recipe,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
	Cause     string `json:"cause"`
	Power     int    `json:"power"`
}

// FormatPayload creates the JSON payload for a state transition.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Hob: HobEventPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Tick:      event.Tick,
			SessionID: event.SessionID,
			Recipe:    event.RecipeID,
			From:      string(event.From),
			To:        string(event.To),
			Cause:     string(event.Cause),
			Power:     event.Power,
		},
	}
	return json.Marshal(payload)
}

// TelemetryPayload is the MQTT message for a sensor sample.
type TelemetryPayload struct {
	Telemetry TelemetryInner `json:"telemetry"`
}

// TelemetryInner wraps the hob read model with a timestamp.
type TelemetryInner struct {
	Timestamp string         `json:"timestamp"`
	Tick      int64          `json:"tick"`
	Hob       status.HobJSON `json:"hob"`
}

// FormatTelemetryPayload creates the JSON payload for a sensor sample.
// History is left out; dashboards build their own from the stream.
func FormatTelemetryPayload(snap logic.Snapshot) ([]byte, error) {
	payload := TelemetryPayload{
		Telemetry: TelemetryInner{
			Timestamp: snap.Time.UTC().Format(time.RFC3339),
			Tick:      snap.Tick,
			Hob:       status.NewHobJSON(snap),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
