package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
)

func boilOverEvent() logic.Event {
	return logic.Event{
		Tick:      812,
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		SessionID: "0f8a2b4c-1111-4222-8333-944455556666",
		RecipeID:  "ramen",
		From:      logic.StateCookingActive,
		To:        logic.StatePredictingBoilOver,
		Cause:     logic.CauseBoilOverPredicted,
		Power:     1,
	}
}

func TestTopics(t *testing.T) {
	if Topic != "kitchen/hob/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicTelemetry != "kitchen/hob/telemetry" {
		t.Errorf("unexpected telemetry topic: %s", TopicTelemetry)
	}
	if TopicSystem != "kitchen/hob/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(boilOverEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Hob.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Hob.Timestamp)
	}
	if parsed.Hob.From != "COOKING_ACTIVE" || parsed.Hob.To != "PREDICTING_BOILOVER" {
		t.Errorf("unexpected transition: %s -> %s", parsed.Hob.From, parsed.Hob.To)
	}
	if parsed.Hob.Cause != "boil_over_predicted" {
		t.Errorf("unexpected cause: %s", parsed.Hob.Cause)
	}
	if parsed.Hob.Power != 1 {
		t.Errorf("unexpected power: %d", parsed.Hob.Power)
	}
	if parsed.Hob.Tick != 812 {
		t.Errorf("unexpected tick: %d", parsed.Hob.Tick)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{
		Tick:      3,
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		From:      logic.StateIdle,
		To:        logic.StateHeatingWater,
		Cause:     logic.CauseStart,
		Power:     10,
		RecipeID:  "ramen",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"hob":{"timestamp":"2026-02-02T22:18:12Z","tick":3,"recipe":"ramen","from":"IDLE","to":"HEATING_WATER","cause":"start","power":10}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	event := boilOverEvent()
	event.Timestamp = time.Date(2026, 2, 3, 7, 18, 12, 0, loc)

	payload, _ := FormatPayload(event)

	var parsed Payload
	json.Unmarshal(payload, &parsed)
	if parsed.Hob.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC conversion, got %s", parsed.Hob.Timestamp)
	}
}

func TestFormatTelemetryPayload(t *testing.T) {
	var sensors logic.Reading
	sensors[0] = 99.5
	snap := logic.Snapshot{
		Tick:        40,
		Time:        time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		State:       logic.StateCookingActive,
		Recipe:      logic.Recipe{ID: "ramen"},
		Power:       8,
		CenterTemp:  99.5,
		Sensors:     sensors,
		CookingType: logic.CookingBoiling,
		Vessel:      logic.UnknownVessel,
		History:     []logic.HistoryEntry{{Tick: 39}, {Tick: 40}},
	}

	payload, err := FormatTelemetryPayload(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed TelemetryPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Telemetry.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Telemetry.Timestamp)
	}
	if parsed.Telemetry.Tick != 40 {
		t.Errorf("unexpected tick: %d", parsed.Telemetry.Tick)
	}
	if parsed.Telemetry.Hob.State != "COOKING_ACTIVE" {
		t.Errorf("unexpected state: %s", parsed.Telemetry.Hob.State)
	}
	if parsed.Telemetry.Hob.Sensors[0] != 99.5 {
		t.Errorf("unexpected center sensor: %v", parsed.Telemetry.Hob.Sensors[0])
	}
	if parsed.Telemetry.Hob.CookingType != "BOILING" {
		t.Errorf("unexpected cooking type: %s", parsed.Telemetry.Hob.CookingType)
	}

	var raw map[string]interface{}
	json.Unmarshal(payload, &raw)
	inner := raw["telemetry"].(map[string]interface{})
	if _, exists := inner["history"]; exists {
		t.Error("telemetry should not carry history")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}

	payload, _ := FormatSystemPayload(event)

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload should pass through, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(boilOverEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishTelemetry(logic.Snapshot{Tick: 1, State: logic.StateIdle}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 || len(f.Payloads) != 1 {
		t.Errorf("expected 1 event and payload, got %d/%d", len(f.Events), len(f.Payloads))
	}
	if f.EventCount() != 1 {
		t.Errorf("EventCount: got %d, want 1", f.EventCount())
	}
	if len(f.Telemetry) != 1 || len(f.TelemetryPayloads) != 1 {
		t.Errorf("expected 1 telemetry sample, got %d", len(f.Telemetry))
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("expected 1 retained system event, got %+v", f.SystemEvents)
	}

	events := f.EventsCopy()
	events[0].RecipeID = "changed"
	if f.Events[0].RecipeID != "ramen" {
		t.Error("EventsCopy should not alias recorded events")
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(boilOverEvent()); err == nil {
		t.Error("expected Publish error")
	}
	if err := f.PublishTelemetry(logic.Snapshot{}); err == nil {
		t.Error("expected PublishTelemetry error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected PublishSystem error")
	}
	if len(f.Events) != 0 || len(f.Telemetry) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true
	f.Publish(boilOverEvent())
	f.Close()

	if !f.Closed {
		t.Error("expected Closed=true")
	}
	if !f.IsConnected() {
		t.Error("expected IsConnected=true")
	}

	f.Reset()
	if f.Closed || f.Connected || len(f.Events) != 0 {
		t.Error("Reset should clear all recorded state")
	}

	f.Publish(boilOverEvent())
	if len(f.Events) != 1 {
		t.Errorf("fake should be reusable after reset, got %d events", len(f.Events))
	}
}
