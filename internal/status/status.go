// Package status provides a thread-safe status tracker for the induction-hob daemon.
// It is read by HTTP handlers and lifecycle publishing; the run loop writes it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	TelemetryMs int64
	Seed        int64
	Broker      string
	HTTPAddr    string
	ConfigPath  string // empty = embedded defaults
	GPIO        bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type; Hob.History and Hob.Events are never mutated after Update.
type Snapshot struct {
	Hob           logic.Snapshot
	Ready         bool // at least one tick has run
	SkippedTicks  int64
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
		},
	}
}

// Update stores the latest controller snapshot and the skipped tick count.
// Called from runLoop after every tick.
func (t *Tracker) Update(hob logic.Snapshot, skipped int64) {
	t.mu.Lock()
	t.snap.Hob = hob
	t.snap.Ready = true
	t.snap.SkippedTicks = skipped
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
