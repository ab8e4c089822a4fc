package gpio

import "sync"

// Output is one Apply call recorded by FakePanel.
type Output struct {
	Power int
	Alarm bool
}

// FakePanel is a test double with a scripted stop button.
type FakePanel struct {
	mu sync.Mutex

	// StopLevels contains scripted stop button levels (true = held down).
	// Each call to StopPressed consumes the next level; once exhausted the
	// button reads released.
	StopLevels []bool

	index int
	edge  edge

	// Outputs records every Apply call.
	Outputs []Output

	// Closed tracks if Close was called.
	Closed bool

	// ApplyError, if set, will be returned by Apply.
	ApplyError error

	// ReadError, if set, will be returned by StopPressed.
	ReadError error
}

// NewFakePanel creates a FakePanel with the given stop button levels.
func NewFakePanel(stopLevels ...bool) *FakePanel {
	return &FakePanel{StopLevels: stopLevels}
}

// Apply records the outputs.
func (f *FakePanel) Apply(power int, alarm bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ApplyError != nil {
		return f.ApplyError
	}
	f.Outputs = append(f.Outputs, Output{Power: power, Alarm: alarm})
	return nil
}

// StopPressed returns true on the first scripted level of each press.
func (f *FakePanel) StopPressed() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return false, f.ReadError
	}
	held := false
	if f.index < len(f.StopLevels) {
		held = f.StopLevels[f.index]
		f.index++
	}
	return f.edge.pressed(held), nil
}

// Press queues a single press and release of the stop button.
func (f *FakePanel) Press() {
	f.mu.Lock()
	f.StopLevels = append(f.StopLevels, true, false)
	f.mu.Unlock()
}

// Last returns the most recent Apply call.
func (f *FakePanel) Last() (Output, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Outputs) == 0 {
		return Output{}, false
	}
	return f.Outputs[len(f.Outputs)-1], true
}

// Close marks the panel as closed and records the coil going off.
func (f *FakePanel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Outputs = append(f.Outputs, Output{})
	f.Closed = true
	return nil
}
