// internal/maestro/batch.go
package maestro

import (
	"math"
	"sort"
)

// batchEntry is one resolved channel target, clamped and encoded,
// ready for the wire. Entries exist only for one SetTargetsUs call.
type batchEntry struct {
	channel int
	lsb     byte
	msb     byte
	us      float64
}

// SetTargetsUs commands several channel targets at once, given in
// microseconds.
//
// The Micro Maestro has no block command, so targets are sent one at
// a time in ascending channel order. Other models get maximal runs of
// contiguous channels coalesced into single SET_MULTIPLE_TARGETS
// frames, which cuts bus transactions for simultaneous multi-limb
// motion.
//
// Each value is clamped per its own channel bounds before any
// grouping, so a clamp on one channel never affects its neighbors.
// The store is updated for every channel, batched or not.
func (c *Controller) SetTargetsUs(targetsUs map[int]float64) error {
	if len(targetsUs) == 0 {
		return nil
	}

	channels := make([]int, 0, len(targetsUs))
	for channel := range targetsUs {
		channels = append(channels, channel)
	}
	sort.Ints(channels)

	if c.micro {
		for _, channel := range channels {
			if err := c.SetTargetUs(channel, targetsUs[channel]); err != nil {
				return err
			}
		}
		return nil
	}

	// Resolve and encode everything before the first frame goes out.
	entries := make([]batchEntry, 0, len(channels))
	for _, channel := range channels {
		entry, err := c.resolveEntry(channel, targetsUs[channel])
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].channel == entries[end-1].channel+1 {
			end++
		}
		if err := c.sendRun(entries[start:end]); err != nil {
			return err
		}
		start = end
	}
	return nil
}

func (c *Controller) resolveEntry(channel int, targetUs float64) (batchEntry, error) {
	if err := validChannel(channel); err != nil {
		return batchEntry{}, err
	}

	target := int(math.Round(4 * targetUs))
	if _, _, err := packWord(target); err != nil {
		return batchEntry{}, err
	}

	effectiveUs := float64(target) / 4
	if target != 0 {
		effectiveUs = c.channels.resolve(channel, effectiveUs)
		target = int(math.Round(4 * effectiveUs))
	}

	lsb, msb, err := packWord(target)
	if err != nil {
		return batchEntry{}, err
	}
	return batchEntry{channel: channel, lsb: lsb, msb: msb, us: effectiveUs}, nil
}

// sendRun transmits one contiguous run. A single channel goes out as
// an ordinary SET_TARGET frame, two or more as one block frame.
func (c *Controller) sendRun(run []batchEntry) error {
	if len(run) == 1 {
		e := run[0]
		if err := c.send(cmdSetTarget, byte(e.channel), e.lsb, e.msb); err != nil {
			return err
		}
		c.channels.record(e.channel, e.us)
		return nil
	}

	payload := make([]byte, 0, 2+2*len(run))
	payload = append(payload, byte(len(run)), byte(run[0].channel))
	for _, e := range run {
		payload = append(payload, e.lsb, e.msb)
	}
	if err := c.send(cmdSetMultipleTargets, payload...); err != nil {
		return err
	}
	for _, e := range run {
		c.channels.record(e.channel, e.us)
	}
	return nil
}
