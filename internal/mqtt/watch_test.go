package mqtt

import (
	"testing"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
)

func TestSummarizeEvent(t *testing.T) {
	payload, err := FormatPayload(boilOverEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := Summarize(Topic, payload)
	want := "event    2026-02-02T22:18:12Z COOKING_ACTIVE -> PREDICTING_BOILOVER (boil_over_predicted) power=1 recipe=ramen"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSummarizeTelemetry(t *testing.T) {
	snap := logic.Snapshot{
		Tick:        40,
		Time:        time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		State:       logic.StateCookingActive,
		Power:       6,
		CenterTemp:  101.5,
		Vibration:   0.3,
		CookingType: logic.CookingBoiling,
		Vessel:      logic.VesselInfo{Material: logic.MaterialStainless},
	}
	payload, err := FormatTelemetryPayload(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := Summarize(TopicTelemetry, payload)
	want := "sample   tick=40 COOKING_ACTIVE power=6 center=101.5°C vib=0.3 type=BOILING vessel=Stainless"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSummarizeTelemetryBeforeClassification(t *testing.T) {
	payload, err := FormatTelemetryPayload(logic.Snapshot{State: logic.StateIdle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := Summarize(TopicTelemetry, payload)
	want := "sample   tick=0 IDLE power=0 center=0.0°C vib=0.0"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSummarizeSystem(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Summarize(TopicSystem, payload); got != "system   SHUTDOWN reason=MQTT_DISCONNECT" {
		t.Errorf("unexpected summary: %q", got)
	}

	status := []byte(`{"status":{"event":"STARTUP","ready":false,"hob":{"state":"IDLE"}}}`)
	if got := Summarize(TopicSystem, status); got != "system   STARTUP state=IDLE" {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestSummarizeOddPayloads(t *testing.T) {
	if got := Summarize(Topic, []byte("not json")); got != "events   invalid payload (8 bytes)" {
		t.Errorf("unexpected summary: %q", got)
	}
	if got := Summarize("kitchen/hob/other", []byte(`{}`)); got != "other    {}" {
		t.Errorf("unexpected summary: %q", got)
	}
}
