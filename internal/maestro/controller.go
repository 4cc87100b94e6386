// internal/maestro/controller.go
package maestro

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// pwmTicksPerUs is the SET_PWM tick resolution (1/48 us).
const pwmTicksPerUs = 48

// Config describes one controller on the serial bus.
type Config struct {
	// DeviceNumber addresses one of several daisy-chained
	// controllers. Zero selects DefaultDeviceNumber.
	DeviceNumber byte

	// Micro marks the reduced Micro Maestro variant, which lacks PWM
	// output, multi-target batching and moving-state queries.
	Micro bool

	// SkipSafeClose disables the shutdown pass that commands every
	// channel to the stop sentinel before the transport is released.
	SkipSafeClose bool
}

// Controller drives one Maestro servo controller board. It owns the
// transport exclusively and all calls are synchronous and blocking;
// callers needing concurrency must serialize or batch.
type Controller struct {
	transport Transport
	device    byte
	micro     bool
	safeClose bool

	channels channelStore

	closeOnce sync.Once
	closeErr  error
}

// New wraps an open transport. The controller takes ownership; the
// transport is released exactly once by Close.
func New(cfg Config, tr Transport) (*Controller, error) {
	if tr == nil {
		return nil, errors.New("maestro: transport required")
	}
	device := cfg.DeviceNumber
	if device == 0 {
		device = DefaultDeviceNumber
	}
	return &Controller{
		transport: tr,
		device:    device,
		micro:     cfg.Micro,
		safeClose: !cfg.SkipSafeClose,
	}, nil
}

// Micro reports whether this is the reduced-capability variant.
func (c *Controller) Micro() bool {
	return c.micro
}

// requireFull gates operations the Micro Maestro does not implement.
// It fails before any bytes are written.
func (c *Controller) requireFull(op string) error {
	if c.micro {
		return &UnsupportedError{Op: op}
	}
	return nil
}

// send transmits one complete frame and drains the transport, so the
// frame is either fully delivered or the error is surfaced. There is
// no partial-frame state observable to callers.
func (c *Controller) send(opcode byte, payload ...byte) error {
	frame := make([]byte, 0, 3+len(payload))
	frame = append(frame, protocolHeader, c.device, opcode)
	frame = append(frame, payload...)
	if _, err := c.transport.Write(frame); err != nil {
		return fmt.Errorf("maestro: write command 0x%02X: %w", opcode, err)
	}
	if err := c.transport.Drain(); err != nil {
		return fmt.Errorf("maestro: flush command 0x%02X: %w", opcode, err)
	}
	return nil
}

// SetRange stores software clamp bounds for a channel, in
// microseconds. A nil bound leaves that side unrestricted. Bounds
// overwrite any prior bounds and cause no IO.
//
// The controller board itself may restrict servo travel further;
// board limits take precedence over these.
func (c *Controller) SetRange(channel int, minUs, maxUs *float64) error {
	return c.channels.setRange(channel, minUs, maxUs)
}

// Range returns the configured clamp bounds for a channel.
func (c *Controller) Range(channel int) (minUs, maxUs *float64, err error) {
	if err := validChannel(channel); err != nil {
		return nil, nil, err
	}
	minUs, maxUs = c.channels.bounds(channel)
	return minUs, maxUs, nil
}

// Bound is a convenience for building optional clamp bounds.
func Bound(us float64) *float64 {
	return &us
}

// SetTarget commands a channel target in quarter-microseconds. The
// requested value is clamped against the channel bounds and the
// clamped value is what goes on the wire and into the store. A target
// of 0 is the protocol's "stop sending signal" sentinel and bypasses
// clamping; stop must always be honorable.
//
// Servo center is 6000 quarter-microseconds; a typical servo range is
// 3000 to 9000.
func (c *Controller) SetTarget(channel, target int) error {
	if err := validChannel(channel); err != nil {
		return err
	}
	if _, _, err := packWord(target); err != nil {
		return err
	}

	targetUs := float64(target) / 4
	if target != 0 {
		targetUs = c.channels.resolve(channel, targetUs)
		target = int(math.Round(4 * targetUs))
	}

	lsb, msb, err := packWord(target)
	if err != nil {
		return err
	}
	if err := c.send(cmdSetTarget, byte(channel), lsb, msb); err != nil {
		return err
	}
	c.channels.record(channel, targetUs)
	return nil
}

// SetTargetUs commands a channel target in microseconds.
func (c *Controller) SetTargetUs(channel int, targetUs float64) error {
	return c.SetTarget(channel, int(math.Round(4*targetUs)))
}

// StopChannel commands the stop sentinel, so the controller stops
// sending pulses on the channel.
func (c *Controller) StopChannel(channel int) error {
	return c.SetTarget(channel, 0)
}

// LastTargetUs returns the last target actually commanded on a
// channel. ok is false for a channel that has never been commanded,
// which is distinct from a channel commanded to stop.
func (c *Controller) LastTargetUs(channel int) (us float64, ok bool, err error) {
	if err := validChannel(channel); err != nil {
		return 0, false, err
	}
	us, ok = c.channels.lastTarget(channel)
	return us, ok, nil
}

// SetSpeed limits channel speed, in 0.25us per 10ms units. 0 is
// unrestricted. Speed is not clamped and not recorded.
func (c *Controller) SetSpeed(channel, speed int) error {
	return c.sendChannelWord(cmdSetSpeed, channel, speed)
}

// SetAcceleration limits channel acceleration, 0 to 255. 0 is
// unrestricted, 1 is slowest.
func (c *Controller) SetAcceleration(channel, acceleration int) error {
	return c.sendChannelWord(cmdSetAcceleration, channel, acceleration)
}

func (c *Controller) sendChannelWord(opcode byte, channel, value int) error {
	if err := validChannel(channel); err != nil {
		return err
	}
	lsb, msb, err := packWord(value)
	if err != nil {
		return err
	}
	return c.send(opcode, byte(channel), lsb, msb)
}

// GoHome sends all servos and outputs to their home positions, as if
// an error had occurred. Channels set to "Ignore" are unchanged.
func (c *Controller) GoHome() error {
	return c.send(cmdGoHome)
}

// SetPWM sets the PWM output on time and period, in microseconds.
// The wire format uses 1/48 us ticks. Not available on the Micro.
func (c *Controller) SetPWM(onTimeUs, periodUs float64) error {
	if err := c.requireFull("SetPWM"); err != nil {
		return err
	}
	onLsb, onMsb, err := packWord(int(math.Round(pwmTicksPerUs * onTimeUs)))
	if err != nil {
		return err
	}
	periodLsb, periodMsb, err := packWord(int(math.Round(pwmTicksPerUs * periodUs)))
	if err != nil {
		return err
	}
	return c.send(cmdSetPWM, onLsb, onMsb, periodLsb, periodMsb)
}

// Close commands every channel to stop (unless SkipSafeClose was set)
// and releases the transport. It is idempotent: the safe-stop pass
// and the release run at most once, later calls return the first
// result.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		if c.safeClose {
			for channel := 0; channel < NumChannels; channel++ {
				if err := c.StopChannel(channel); err != nil {
					if c.closeErr == nil {
						c.closeErr = err
					}
					// Keep trying the remaining channels; stopping
					// as many servos as possible beats bailing out.
				}
			}
		}
		if err := c.transport.Close(); err != nil && c.closeErr == nil {
			c.closeErr = err
		}
	})
	return c.closeErr
}
