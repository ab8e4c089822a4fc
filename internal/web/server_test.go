package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
	"github.com/sweeney/induction-hob/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:      200,
		TelemetryMs: 1000,
		Seed:        7,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func heatingSnapshot() logic.Snapshot {
	var sensors logic.Reading
	for i := range sensors {
		sensors[i] = 84 + float64(i)
	}
	return logic.Snapshot{
		Tick:        412,
		SessionID:   "3b0f5a7e-58f9-4f3c-8c35-1f1c5a0b8d21",
		State:       logic.StateHeatingWater,
		Recipe:      logic.Recipe{ID: "ramen", Name: "Ramen", TargetTemperature: 100},
		Power:       10,
		Remaining:   4 * time.Minute,
		CenterTemp:  84,
		Sensors:     sensors,
		CookingType: logic.CookingUnknown,
		Vessel:      logic.UnknownVessel,
	}
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(heatingSnapshot(), 1)
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Hob.State != "HEATING_WATER" {
		t.Errorf("State: got %q, want HEATING_WATER", sj.Status.Hob.State)
	}
	if sj.Status.Hob.Power != 10 {
		t.Errorf("Power: got %d, want 10", sj.Status.Hob.Power)
	}
	if sj.Status.Hob.Sensors[8] != 92 {
		t.Errorf("Sensors[8]: got %v, want 92", sj.Status.Hob.Sensors[8])
	}
	if !sj.Status.Ready {
		t.Error("expected Ready=true")
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q, want tcp://192.168.1.200:1883", sj.Status.MQTT.Broker)
	}
	if sj.Status.Ticks.Tick != 412 || sj.Status.Ticks.Skipped != 1 {
		t.Errorf("Ticks: got %+v, want tick=412 skipped=1", sj.Status.Ticks)
	}
	if sj.Status.Config.TickMs != 200 {
		t.Errorf("Config.TickMs: got %d, want 200", sj.Status.Config.TickMs)
	}
	if sj.Status.Config.Seed != 7 {
		t.Errorf("Config.Seed: got %d, want 7", sj.Status.Config.Seed)
	}
}

func TestJSONUnknownStateBeforeFirstTick(t *testing.T) {
	ts, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")

	if sj.Status.Hob.State != "UNKNOWN" {
		t.Errorf("State before first tick: got %q, want UNKNOWN", sj.Status.Hob.State)
	}
	if sj.Status.Ready {
		t.Error("expected Ready=false")
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(heatingSnapshot(), 0)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "HEATING_WATER") {
		t.Error("page should show the hob state")
	}
	if !strings.Contains(page, "Ramen (ramen, 100.0°C)") {
		t.Error("page should show the recipe")
	}
	if !strings.Contains(page, "rgb(255,") {
		t.Error("sensor grid should carry heat colors")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "UNKNOWN") {
		t.Error("page should show UNKNOWN before the first tick")
	}
}

func TestHTMLShowsReservation(t *testing.T) {
	ts, tr := newTestServer(t)
	start := time.Date(2026, 1, 1, 12, 23, 0, 0, time.UTC)
	tr.Update(logic.Snapshot{
		State:             logic.StateReserved,
		ReservationStart:  start,
		ReservationTarget: start.Add(7 * time.Minute),
	}, 0)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "12:23:00 (ready 12:30)") {
		t.Error("page should show the reservation window")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestRejectsWrites(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/", "/index.json"} {
		resp, err := http.Post(ts.URL+path, "text/plain", strings.NewReader("start ramen"))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, resp.StatusCode)
		}
		if allow := resp.Header.Get("Allow"); allow != "GET, HEAD" {
			t.Errorf("POST %s: Allow got %q", path, allow)
		}
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.Ready {
		t.Error("expected Ready=false initially")
	}

	hob := heatingSnapshot()
	hob.State = logic.StatePredictingBoilOver
	hob.Power = 1
	tr.Update(hob, 0)
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if !sj2.Status.Ready {
		t.Error("expected Ready=true after update")
	}
	if sj2.Status.Hob.State != "PREDICTING_BOILOVER" {
		t.Errorf("State: got %q, want PREDICTING_BOILOVER", sj2.Status.Hob.State)
	}
	if !sj2.Status.Hob.Hazard {
		t.Error("expected Hazard=true")
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
