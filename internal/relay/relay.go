// internal/relay/relay.go
package relay

import (
	"fmt"
	"sync"

	rpio "github.com/stianeikeland/go-rpio/v4"
)

// Relay drives the servo power relay through one GPIO output. The
// relay starts (and is left) de-energized, so servos only get power
// after an explicit On.
type Relay struct {
	pin        rpio.Pin
	activeHigh bool
	active     bool

	closeOnce sync.Once
	closeErr  error
}

// Open claims GPIO memory and configures the pin as an output, off.
func Open(gpio int, activeHigh bool) (*Relay, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("relay: open gpio memory: %w", err)
	}
	r := &Relay{
		pin:        rpio.Pin(gpio),
		activeHigh: activeHigh,
	}
	r.pin.Output()
	r.Off()
	return r, nil
}

// On energizes the relay.
func (r *Relay) On() {
	if r.activeHigh {
		r.pin.High()
	} else {
		r.pin.Low()
	}
	r.active = true
}

// Off de-energizes the relay.
func (r *Relay) Off() {
	if r.activeHigh {
		r.pin.Low()
	} else {
		r.pin.High()
	}
	r.active = false
}

// Toggle flips the relay state.
func (r *Relay) Toggle() {
	if r.active {
		r.Off()
	} else {
		r.On()
	}
}

// IsActive reports whether the relay is energized.
func (r *Relay) IsActive() bool {
	return r.active
}

// State renders the relay state for display.
func (r *Relay) State() string {
	if r.active {
		return "On"
	}
	return "Off"
}

// Close de-energizes the relay and releases GPIO memory. Idempotent.
func (r *Relay) Close() error {
	r.closeOnce.Do(func() {
		r.Off()
		r.closeErr = rpio.Close()
	})
	return r.closeErr
}
