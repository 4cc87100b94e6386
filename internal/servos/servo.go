// internal/servos/servo.go
package servos

import (
	"fmt"

	"github.com/quadbotics/spotbot/internal/config"
)

// Servo is one named, calibrated servo. Calibration maps the
// mechanical angle range onto the pulse-width range; the controller
// core deals in microseconds only, so all angle math lives here.
type Servo struct {
	Key         string
	Channel     int
	Designation string
	Description string

	LowUs  float64
	HighUs float64

	// HighPos is "high" when the high pulse width drives toward the
	// high angle, "low" when the linkage is reversed.
	HighPos string

	LowAngle  float64
	HighAngle float64
	HomeAngle float64
}

func newServo(key string, e config.ServoEntry) *Servo {
	return &Servo{
		Key:         key,
		Channel:     e.Position,
		Designation: e.Designation,
		Description: e.Description,
		LowUs:       float64(e.LowUs),
		HighUs:      float64(e.HighUs),
		HighPos:     e.HighPos,
		LowAngle:    e.LowAngle,
		HighAngle:   e.HighAngle,
		HomeAngle:   e.HomeAngle,
	}
}

// AngleToUs converts an angle to a pulse width by linear
// interpolation between the calibrated endpoints. Angles outside the
// calibrated range clamp to the nearest endpoint.
func (s *Servo) AngleToUs(angle float64) float64 {
	if angle < s.LowAngle {
		angle = s.LowAngle
	}
	if angle > s.HighAngle {
		angle = s.HighAngle
	}

	span := s.HighAngle - s.LowAngle
	if span == 0 {
		return s.LowUs
	}
	frac := (angle - s.LowAngle) / span
	if s.HighPos == "low" {
		frac = 1 - frac
	}
	return s.LowUs + frac*(s.HighUs-s.LowUs)
}

// UsToAngle is the inverse of AngleToUs over the calibrated range.
func (s *Servo) UsToAngle(us float64) float64 {
	span := s.HighUs - s.LowUs
	if span == 0 {
		return s.LowAngle
	}
	frac := (us - s.LowUs) / span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	if s.HighPos == "low" {
		frac = 1 - frac
	}
	return s.LowAngle + frac*(s.HighAngle-s.LowAngle)
}

// HomeUs is the pulse width of the calibrated home angle.
func (s *Servo) HomeUs() float64 {
	return s.AngleToUs(s.HomeAngle)
}

func (s *Servo) String() string {
	return fmt.Sprintf("%s/%s ch%d", s.Key, s.Designation, s.Channel)
}
