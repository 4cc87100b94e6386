// internal/servos/rig.go
package servos

import (
	"errors"
	"fmt"
	"sort"

	"github.com/quadbotics/spotbot/internal/config"
	"github.com/quadbotics/spotbot/internal/maestro"
)

// controllerClient is the exact contract the rig uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type controllerClient interface {
	SetRange(channel int, minUs, maxUs *float64) error
	SetTargetUs(channel int, targetUs float64) error
	SetTargetsUs(targetsUs map[int]float64) error
	SetSpeed(channel, speed int) error
	SetAcceleration(channel, acceleration int) error
	StopChannel(channel int) error
	GetPositionUs(channel int) (float64, error)
	LastTargetUs(channel int) (us float64, ok bool, err error)
}

// Rig translates named-servo moves into controller operations. It
// registers each servo's calibrated pulse range as the channel clamp,
// so a bad move request can never drive a joint past its linkage.
type Rig struct {
	ctl    controllerClient
	byKey  map[string]*Servo
	sorted []*Servo
}

// NewRig builds a rig from a validated servo map and registers the
// per-channel safety ranges.
func NewRig(servoMap config.ServoMap, ctl controllerClient) (*Rig, error) {
	if ctl == nil {
		return nil, errors.New("servos: controller required")
	}
	if len(servoMap) == 0 {
		return nil, errors.New("servos: at least one servo required")
	}

	r := &Rig{
		ctl:   ctl,
		byKey: make(map[string]*Servo, len(servoMap)),
	}
	for key, entry := range servoMap {
		s := newServo(key, entry)
		r.byKey[key] = s
		r.sorted = append(r.sorted, s)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].Key < r.sorted[j].Key
	})

	for _, s := range r.sorted {
		err := ctl.SetRange(s.Channel, maestro.Bound(s.LowUs), maestro.Bound(s.HighUs))
		if err != nil {
			return nil, fmt.Errorf("servos: register range for %s: %w", s.Key, err)
		}
	}
	return r, nil
}

// Servos returns all servos in lettermap order.
func (r *Rig) Servos() []*Servo {
	return r.sorted
}

// ByKey looks a servo up by its lettermap key.
func (r *Rig) ByKey(key string) (*Servo, bool) {
	s, ok := r.byKey[key]
	return s, ok
}

func (r *Rig) servo(key string) (*Servo, error) {
	s, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("servos: unknown servo %q", key)
	}
	return s, nil
}

// MoveUs commands one servo by pulse width.
func (r *Rig) MoveUs(key string, us float64) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	return r.ctl.SetTargetUs(s.Channel, us)
}

// MoveAngle commands one servo by angle.
func (r *Rig) MoveAngle(key string, angle float64) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	return r.ctl.SetTargetUs(s.Channel, s.AngleToUs(angle))
}

// NudgeUs moves one servo relative to its last commanded target. A
// servo that has never been commanded nudges from its home position.
func (r *Rig) NudgeUs(key string, deltaUs float64) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	current, ok, err := r.ctl.LastTargetUs(s.Channel)
	if err != nil {
		return err
	}
	if !ok || current == 0 {
		current = s.HomeUs()
	}
	return r.ctl.SetTargetUs(s.Channel, current+deltaUs)
}

// NudgeAngle moves one servo by a relative angle.
func (r *Rig) NudgeAngle(key string, deltaAngle float64) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	current, ok, err := r.ctl.LastTargetUs(s.Channel)
	if err != nil {
		return err
	}
	if !ok || current == 0 {
		current = s.HomeUs()
	}
	return r.ctl.SetTargetUs(s.Channel, s.AngleToUs(s.UsToAngle(current)+deltaAngle))
}

// MoveAllUs commands several servos in one batched call.
func (r *Rig) MoveAllUs(targets map[string]float64) error {
	byChannel := make(map[int]float64, len(targets))
	for key, us := range targets {
		s, err := r.servo(key)
		if err != nil {
			return err
		}
		byChannel[s.Channel] = us
	}
	return r.ctl.SetTargetsUs(byChannel)
}

// ApplyPose drives the named servos to the given angles in one
// batched call.
func (r *Rig) ApplyPose(pose map[string]float64) error {
	byChannel := make(map[int]float64, len(pose))
	for key, angle := range pose {
		s, err := r.servo(key)
		if err != nil {
			return err
		}
		byChannel[s.Channel] = s.AngleToUs(angle)
	}
	return r.ctl.SetTargetsUs(byChannel)
}

// Home drives every servo to its calibrated home angle in one
// batched call.
func (r *Rig) Home() error {
	byChannel := make(map[int]float64, len(r.sorted))
	for _, s := range r.sorted {
		byChannel[s.Channel] = s.HomeUs()
	}
	return r.ctl.SetTargetsUs(byChannel)
}

// SetSpeed limits one servo's speed, in controller units.
func (r *Rig) SetSpeed(key string, speed int) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	return r.ctl.SetSpeed(s.Channel, speed)
}

// SetAcceleration limits one servo's acceleration, 0 to 255.
func (r *Rig) SetAcceleration(key string, acceleration int) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	return r.ctl.SetAcceleration(s.Channel, acceleration)
}

// Stop stops the pulse train on one servo.
func (r *Rig) Stop(key string) error {
	s, err := r.servo(key)
	if err != nil {
		return err
	}
	return r.ctl.StopChannel(s.Channel)
}

// StopAll stops every servo, in lettermap order.
func (r *Rig) StopAll() error {
	for _, s := range r.sorted {
		if err := r.ctl.StopChannel(s.Channel); err != nil {
			return err
		}
	}
	return nil
}

// PositionUs reads one servo's position in microseconds.
func (r *Rig) PositionUs(key string) (float64, error) {
	s, err := r.servo(key)
	if err != nil {
		return 0, err
	}
	return r.ctl.GetPositionUs(s.Channel)
}

// PositionAngle reads one servo's position as a calibrated angle.
func (r *Rig) PositionAngle(key string) (float64, error) {
	us, err := r.PositionUs(key)
	if err != nil {
		return 0, err
	}
	s := r.byKey[key]
	return s.UsToAngle(us), nil
}
