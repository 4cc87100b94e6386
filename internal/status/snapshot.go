// internal/status/snapshot.go
package status

import (
	"time"

	"github.com/quadbotics/spotbot/internal/maestro"
)

// ServoReading is one servo's read-back state in a snapshot.
type ServoReading struct {
	Key        string
	Channel    int
	PositionUs float64

	// TargetUs is the last commanded target. Known is false for a
	// servo that has never been commanded.
	TargetUs float64
	Known    bool
}

// Snapshot is what one poll pass observed. It contains no logic and
// no memory of the past beyond current state.
type Snapshot struct {
	At time.Time

	// Errors is the error register as read (and thereby cleared) on
	// the controller.
	Errors        maestro.ErrorFlags
	ScriptRunning bool

	Readings []ServoReading

	Err error // non-nil means the poll pass failed
}
