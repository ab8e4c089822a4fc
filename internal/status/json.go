package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Ready         bool          `json:"ready"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Ticks         TicksJSON     `json:"ticks"`
	Hob           HobJSON       `json:"hob"`
	History       []HistoryJSON `json:"history,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// TicksJSON reports scheduler health.
type TicksJSON struct {
	Tick    int64 `json:"tick"`
	Skipped int64 `json:"skipped"`
}

// HobJSON is the read model consumed by dashboards.
type HobJSON struct {
	SessionID         string                     `json:"session_id,omitempty"`
	State             string                     `json:"state"`
	Hazard            bool                       `json:"hazard"`
	Recipe            string                     `json:"recipe,omitempty"`
	Power             int                        `json:"power"`
	RemainingSeconds  float64                    `json:"remaining_seconds"`
	CenterTemp        float64                    `json:"center_temp"`
	LegacyTemp        float64                    `json:"legacy_temp"`
	Vibration         float64                    `json:"vibration"`
	HeatUniformity    float64                    `json:"heat_uniformity"`
	Sensors           [logic.SensorCount]float64 `json:"sensor_array"`
	CookingType       string                     `json:"cooking_type"`
	Vessel            VesselJSON                 `json:"vessel"`
	IngredientsAdded  bool                       `json:"ingredients_added"`
	ReservationStart  string                     `json:"reservation_start,omitempty"`
	ReservationTarget string                     `json:"reservation_target,omitempty"`
	AutoOffCounter    int                        `json:"auto_off_counter"`
}

// VesselJSON is the JSON representation of the inferred vessel.
type VesselJSON struct {
	Material  string `json:"material"`
	Size      string `json:"size"`
	Alignment string `json:"alignment"`
}

// HistoryJSON is one trend sample.
type HistoryJSON struct {
	Tick           int64   `json:"tick"`
	CenterTemp     float64 `json:"center_temp"`
	LegacyTemp     float64 `json:"legacy_temp"`
	Vibration      float64 `json:"vibration"`
	SoundFrequency float64 `json:"sound_frequency"`
	Power          int     `json:"power"`
	HeatUniformity float64 `json:"heat_uniformity"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	TelemetryMs int64  `json:"telemetry_ms"`
	Seed        int64  `json:"seed"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	ConfigPath  string `json:"config_path,omitempty"`
	GPIO        bool   `json:"gpio"`
}

// NewHobJSON converts a controller snapshot.
func NewHobJSON(s logic.Snapshot) HobJSON {
	state := string(s.State)
	if state == "" {
		state = "UNKNOWN"
	}
	cooking := string(s.CookingType)
	if cooking == "" {
		cooking = string(logic.CookingUnknown)
	}
	hj := HobJSON{
		SessionID:        s.SessionID,
		State:            state,
		Hazard:           s.State.Hazard(),
		Recipe:           s.Recipe.ID,
		Power:            s.Power,
		RemainingSeconds: s.Remaining.Seconds(),
		CenterTemp:       s.CenterTemp,
		LegacyTemp:       s.LegacyTemp,
		Vibration:        s.Vibration,
		HeatUniformity:   s.HeatUniformity,
		Sensors:          s.Sensors,
		CookingType:      cooking,
		Vessel: VesselJSON{
			Material:  string(s.Vessel.Material),
			Size:      string(s.Vessel.Size),
			Alignment: string(s.Vessel.Alignment),
		},
		IngredientsAdded: s.IngredientsAdded,
		AutoOffCounter:   s.AutoOffCounter,
	}
	if !s.ReservationStart.IsZero() {
		hj.ReservationStart = s.ReservationStart.UTC().Format(time.RFC3339)
		hj.ReservationTarget = s.ReservationTarget.UTC().Format(time.RFC3339)
	}
	return hj
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Ticks:         TicksJSON{Tick: snap.Hob.Tick, Skipped: snap.SkippedTicks},
		Hob:           NewHobJSON(snap.Hob),
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			TelemetryMs: snap.Config.TelemetryMs,
			Seed:        snap.Config.Seed,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			ConfigPath:  snap.Config.ConfigPath,
			GPIO:        snap.Config.GPIO,
		},
	}
}

func buildHistory(entries []logic.HistoryEntry) []HistoryJSON {
	if len(entries) == 0 {
		return nil
	}
	out := make([]HistoryJSON, len(entries))
	for i, e := range entries {
		out[i] = HistoryJSON{
			Tick:           e.Tick,
			CenterTemp:     e.CenterTemp,
			LegacyTemp:     e.LegacyTemp,
			Vibration:      e.Vibration,
			SoundFrequency: e.SoundFrequency,
			Power:          e.Power,
			HeatUniformity: e.HeatUniformity,
		}
	}
	return out
}

// FormatJSON returns the JSON status for the web endpoint, history included.
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	inner.History = buildHistory(snap.Hob.History)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
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
