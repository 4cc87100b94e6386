// internal/maestro/errors.go
package maestro

import "fmt"

// ValueRangeError reports a value outside the 14-bit protocol range.
// This is a caller precondition violation, not a hardware fault.
type ValueRangeError struct {
	Value int
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("maestro: value %d out of range [0, %d]", e.Value, maxWord)
}

// ChannelRangeError reports a channel index outside [0, NumChannels).
type ChannelRangeError struct {
	Channel int
}

func (e *ChannelRangeError) Error() string {
	return fmt.Sprintf("maestro: channel %d out of range [0, %d]", e.Channel, NumChannels-1)
}

// TimeoutError reports an incomplete response read. A short read is
// always surfaced, never padded into a partial value.
type TimeoutError struct {
	Want int
	Got  int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("maestro: read timed out: want %d bytes, got %d", e.Want, e.Got)
}

// RangeOrderError reports clamp bounds with min above max.
type RangeOrderError struct {
	MinUs float64
	MaxUs float64
}

func (e *RangeOrderError) Error() string {
	return fmt.Sprintf("maestro: range min %gus above max %gus", e.MinUs, e.MaxUs)
}

// UnsupportedError reports an operation the Micro Maestro variant
// does not implement. No bytes were written to the transport.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("maestro: %s is not supported by the Micro Maestro", e.Op)
}
