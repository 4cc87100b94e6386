// internal/maestro/query.go
package maestro

import (
	"fmt"
	"math"
)

// movingToleranceUs is the position delta below which a servo is
// considered settled on its target.
const movingToleranceUs = 0.01

// readFull blocks until exactly len(buf) response bytes arrive or the
// transport read timeout elapses. A short read is reported as a
// TimeoutError, never returned as a partial value.
func (c *Controller) readFull(buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := c.transport.Read(buf[total:])
		if err != nil {
			return fmt.Errorf("maestro: read response: %w", err)
		}
		if n == 0 {
			// The serial layer signals timeout expiry with an empty
			// read rather than an error.
			return &TimeoutError{Want: len(buf), Got: total}
		}
		total += n
	}
	return nil
}

// GetErrors reads and clears the controller error register. Check it
// continuously when running over serial; any set bit means a command
// or script fault since the last read.
func (c *Controller) GetErrors() (ErrorFlags, error) {
	if err := c.send(cmdGetErrors); err != nil {
		return 0, err
	}
	var buf [2]byte
	if err := c.readFull(buf[:]); err != nil {
		return 0, err
	}
	return ErrorFlags(uint16(buf[0])<<8 | uint16(buf[1])), nil
}

// ScriptIsRunning reports whether the controller's onboard script is
// running. The controller answers 0x00 for "running".
func (c *Controller) ScriptIsRunning() (bool, error) {
	if err := c.send(cmdGetScriptStatus); err != nil {
		return false, err
	}
	var buf [1]byte
	if err := c.readFull(buf[:]); err != nil {
		return false, err
	}
	return buf[0] == 0, nil
}

// GetPosition reads a channel position in quarter-microseconds. The
// response is a byte-aligned word, unlike command data pairs. On this
// hardware the value mirrors the last commanded target unless a speed
// or acceleration limit is in effect; it is not a measured position.
func (c *Controller) GetPosition(channel int) (int, error) {
	if err := validChannel(channel); err != nil {
		return 0, err
	}
	if err := c.send(cmdGetPosition, byte(channel)); err != nil {
		return 0, err
	}
	var buf [2]byte
	if err := c.readFull(buf[:]); err != nil {
		return 0, err
	}
	return responseWord(buf[0], buf[1]), nil
}

// GetPositionUs reads a channel position in microseconds.
func (c *Controller) GetPositionUs(channel int) (float64, error) {
	position, err := c.GetPosition(channel)
	if err != nil {
		return 0, err
	}
	return float64(position) / 4, nil
}

// IsMoving reports whether a channel's read-back position still
// differs from its last commanded target by more than a small
// tolerance. A channel that has never been commanded reports false.
// With no speed or acceleration limit configured the read-back equals
// the last target, so this degenerates to a constant false.
func (c *Controller) IsMoving(channel int) (bool, error) {
	if err := validChannel(channel); err != nil {
		return false, err
	}
	targetUs, ok := c.channels.lastTarget(channel)
	if !ok {
		return false, nil
	}
	positionUs, err := c.GetPositionUs(channel)
	if err != nil {
		return false, err
	}
	return math.Abs(targetUs-positionUs) > movingToleranceUs, nil
}

// ServosAreMoving reports whether any servo limited by a speed or
// acceleration setting is still changing. Not available on the Micro.
func (c *Controller) ServosAreMoving() (bool, error) {
	if err := c.requireFull("ServosAreMoving"); err != nil {
		return false, err
	}
	if err := c.send(cmdGetMovingState); err != nil {
		return false, err
	}
	var buf [1]byte
	if err := c.readFull(buf[:]); err != nil {
		return false, err
	}
	return buf[0] == 1, nil
}
