//go:build !linux

package gpio

import "errors"

// RealPanel is not available on non-Linux platforms.
type RealPanel struct{}

// NewRealPanel returns an error on non-Linux platforms.
func NewRealPanel(Pins) (*RealPanel, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Apply is not implemented on non-Linux platforms.
func (p *RealPanel) Apply(int, bool) error {
	return errors.New("gpio: not supported")
}

// StopPressed is not implemented on non-Linux platforms.
func (p *RealPanel) StopPressed() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *RealPanel) Close() error {
	return nil
}
