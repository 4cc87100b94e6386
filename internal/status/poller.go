// internal/status/poller.go
package status

import (
	"errors"
	"time"

	"github.com/quadbotics/spotbot/internal/maestro"
)

// Client abstracts the controller queries the poller needs.
type Client interface {
	GetErrors() (maestro.ErrorFlags, error)
	ScriptIsRunning() (bool, error)
	GetPositionUs(channel int) (float64, error)
	LastTargetUs(channel int) (us float64, ok bool, err error)
}

// Channel names one polled channel.
type Channel struct {
	Key     string
	Channel int
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Channels []Channel
}

// Poller is a dumb, clock-driven reader of controller state.
type Poller struct {
	cfg    Config
	client Client
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("status: client required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("status: interval must be > 0")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// PollOnce performs exactly one poll pass.
// All-or-nothing: any failure aborts the pass.
func (p *Poller) PollOnce() Snapshot {
	snap := Snapshot{At: time.Now()}

	flags, err := p.client.GetErrors()
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.Errors = flags

	running, err := p.client.ScriptIsRunning()
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.ScriptRunning = running

	readings := make([]ServoReading, 0, len(p.cfg.Channels))
	for _, ch := range p.cfg.Channels {
		positionUs, err := p.client.GetPositionUs(ch.Channel)
		if err != nil {
			snap.Err = err
			return snap
		}
		targetUs, known, err := p.client.LastTargetUs(ch.Channel)
		if err != nil {
			snap.Err = err
			return snap
		}
		readings = append(readings, ServoReading{
			Key:        ch.Key,
			Channel:    ch.Channel,
			PositionUs: positionUs,
			TargetUs:   targetUs,
			Known:      known,
		})
	}

	// Commit only if all reads succeeded
	snap.Readings = readings
	return snap
}
