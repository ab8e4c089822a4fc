package mqtt

import (
	"sync"

	"github.com/sweeney/induction-hob/internal/logic"
)

// FakePublisher records published messages for test assertions.
// Fields may be read directly once the publishing goroutine has stopped;
// use the accessor methods while it is still running.
type FakePublisher struct {
	mu sync.Mutex

	// Events contains all transitions that were published.
	Events []logic.Event

	// Payloads contains the JSON payloads for transitions.
	Payloads [][]byte

	// Telemetry contains all sensor samples that were published.
	Telemetry []logic.Snapshot

	// TelemetryPayloads contains the JSON payloads for samples.
	TelemetryPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by Publish and PublishTelemetry.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the transition.
func (f *FakePublisher) Publish(event logic.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishTelemetry records the sample.
func (f *FakePublisher) PublishTelemetry(snap logic.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatTelemetryPayload(snap)
	if err != nil {
		return err
	}
	f.Telemetry = append(f.Telemetry, snap)
	f.TelemetryPayloads = append(f.TelemetryPayloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// EventCount returns the number of transitions recorded so far.
func (f *FakePublisher) EventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Events)
}

// EventsCopy returns a copy of the recorded transitions.
func (f *FakePublisher) EventsCopy() []logic.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]logic.Event(nil), f.Events...)
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = nil
	f.Payloads = nil
	f.Telemetry = nil
	f.TelemetryPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
