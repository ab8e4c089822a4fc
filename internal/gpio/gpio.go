// Package gpio drives the hob's control panel lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Panel is the physical side of the hob: coil enable, alarm buzzer and the
// stop button.
type Panel interface {
	// Apply drives the outputs. The coil line is energised while power > 0;
	// the level itself is carried by telemetry, not by the line.
	Apply(power int, alarm bool) error

	// StopPressed reports a press of the stop button since the last call.
	// A held button reports once.
	StopPressed() (bool, error)

	// Close releases GPIO resources and leaves the coil off.
	Close() error
}

// Pins holds the BCM line offsets of the panel.
type Pins struct {
	Coil  int
	Alarm int
	Stop  int
}

// DefaultPins is the wiring of the reference build.
var DefaultPins = Pins{
	Coil:  17,
	Alarm: 27,
	Stop:  22,
}

// edge turns a level into a single press report.
type edge struct {
	held bool
}

func (e *edge) pressed(level bool) bool {
	fired := level && !e.held
	e.held = level
	return fired
}
