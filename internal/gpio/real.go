//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPanel drives actual hardware through the Linux GPIO character device.
type RealPanel struct {
	chip  *gpiocdev.Chip
	coil  *gpiocdev.Line
	alarm *gpiocdev.Line
	stop  *gpiocdev.Line
	edge  edge
}

// NewRealPanel requests the panel lines on gpiochip0.
// Outputs start low so the coil is never energised before the first tick.
func NewRealPanel(pins Pins) (*RealPanel, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	p := &RealPanel{chip: chip}

	if p.coil, err = chip.RequestLine(pins.Coil, gpiocdev.AsOutput(0)); err != nil {
		p.Close()
		return nil, fmt.Errorf("request coil pin %d: %w", pins.Coil, err)
	}
	if p.alarm, err = chip.RequestLine(pins.Alarm, gpiocdev.AsOutput(0)); err != nil {
		p.Close()
		return nil, fmt.Errorf("request alarm pin %d: %w", pins.Alarm, err)
	}
	// Stop button pulls the line to ground.
	if p.stop, err = chip.RequestLine(pins.Stop, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		p.Close()
		return nil, fmt.Errorf("request stop pin %d: %w", pins.Stop, err)
	}
	return p, nil
}

// Apply drives the coil enable and alarm lines.
func (p *RealPanel) Apply(power int, alarm bool) error {
	if err := p.coil.SetValue(level(power > 0)); err != nil {
		return fmt.Errorf("set coil: %w", err)
	}
	if err := p.alarm.SetValue(level(alarm)); err != nil {
		return fmt.Errorf("set alarm: %w", err)
	}
	return nil
}

// StopPressed samples the stop button. The line is active low.
func (p *RealPanel) StopPressed() (bool, error) {
	raw, err := p.stop.Value()
	if err != nil {
		return false, fmt.Errorf("read stop pin: %w", err)
	}
	return p.edge.pressed(raw == 0), nil
}

// Close drops the outputs and returns every line to input with pull-down,
// matching the Pi boot defaults.
func (p *RealPanel) Close() error {
	var errs []error

	for name, line := range map[string]*gpiocdev.Line{"coil": p.coil, "alarm": p.alarm, "stop": p.stop} {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
