// internal/maestro/channels.go
package maestro

// channelState is the per-channel record kept by the controller.
// It contains no logic and no memory beyond current state.
type channelState struct {
	// Last target actually commanded, in microseconds. Meaningful
	// only when known is true; a channel that has never been
	// commanded is distinct from one commanded to stop (0).
	targetUs float64
	known    bool

	// Optional clamp bounds in microseconds. nil means unrestricted
	// on that side.
	minUs *float64
	maxUs *float64
}

// channelStore owns the state of all channels. It is mutated only by
// the controller after a send has been issued.
type channelStore struct {
	channels [NumChannels]channelState
}

func validChannel(channel int) error {
	if channel < 0 || channel >= NumChannels {
		return &ChannelRangeError{Channel: channel}
	}
	return nil
}

// setRange stores clamp bounds, overwriting any prior bounds. No IO.
func (s *channelStore) setRange(channel int, minUs, maxUs *float64) error {
	if err := validChannel(channel); err != nil {
		return err
	}
	if minUs != nil && maxUs != nil && *minUs > *maxUs {
		return &RangeOrderError{MinUs: *minUs, MaxUs: *maxUs}
	}
	s.channels[channel].minUs = minUs
	s.channels[channel].maxUs = maxUs
	return nil
}

// resolve clamps a requested target against the channel bounds.
// Pure given current bounds.
func (s *channelStore) resolve(channel int, requestedUs float64) float64 {
	c := &s.channels[channel]
	if c.minUs != nil && requestedUs < *c.minUs {
		return *c.minUs
	}
	if c.maxUs != nil && requestedUs > *c.maxUs {
		return *c.maxUs
	}
	return requestedUs
}

// record stores the value that was actually asked of the hardware.
func (s *channelStore) record(channel int, effectiveUs float64) {
	s.channels[channel].targetUs = effectiveUs
	s.channels[channel].known = true
}

// lastTarget returns the last recorded target. ok is false for a
// channel that has never been commanded.
func (s *channelStore) lastTarget(channel int) (us float64, ok bool) {
	c := &s.channels[channel]
	return c.targetUs, c.known
}

func (s *channelStore) bounds(channel int) (minUs, maxUs *float64) {
	c := &s.channels[channel]
	return c.minUs, c.maxUs
}
