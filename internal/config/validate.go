// internal/config/validate.go
package config

import (
	"fmt"
	"regexp"
)

// Baud rates the controller's serial interface accepts.
var validBaudrates = map[int]bool{
	10: true, 300: true, 600: true, 1200: true, 2400: true,
	4800: true, 9600: true, 14400: true, 19200: true, 38400: true,
	57600: true, 115200: true, 128000: true, 256000: true,
}

var lettermapPattern = regexp.MustCompile(`^[A-R]$`)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	switch cfg.ServoBoard {
	case "maestro", "micro-maestro":
	case "":
		return fmt.Errorf("config: servoboard is required")
	default:
		return fmt.Errorf("config: unknown servoboard %q", cfg.ServoBoard)
	}

	s := cfg.Serial
	if s.Baudrate != 0 && !validBaudrates[s.Baudrate] {
		return fmt.Errorf("config: baudrate %d is not supported", s.Baudrate)
	}
	switch s.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("config: parity must be N, E or O, got %q", s.Parity)
	}
	switch s.StopBits {
	case 0, 1, 2:
	default:
		return fmt.Errorf("config: stopbits must be 1 or 2, got %d", s.StopBits)
	}
	switch s.ByteSize {
	case 0, 7, 8:
	default:
		return fmt.Errorf("config: bytesize must be 7 or 8, got %d", s.ByteSize)
	}
	if s.Timeout != nil && *s.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}

	return nil
}

// ValidateServoMap checks a servo map.
// It performs declarative validation only.
// It MUST NOT mutate the map.
func ValidateServoMap(servos ServoMap) error {
	channels := make(map[int]string)

	for key, s := range servos {
		if !lettermapPattern.MatchString(key) {
			return fmt.Errorf("servo map: lettermap needs to be A through R, got %q", key)
		}
		if s.Position < 0 || s.Position > 17 {
			return fmt.Errorf("servo map %s: position needs to be between 0 and 17, got %d", key, s.Position)
		}
		if prev, taken := channels[s.Position]; taken {
			return fmt.Errorf("servo map: channel %d used by both %s and %s", s.Position, prev, key)
		}
		channels[s.Position] = key

		if len(s.Designation) >= 5 {
			return fmt.Errorf("servo map %s: designation too long, <5 characters", key)
		}
		if len(s.Description) >= 30 {
			return fmt.Errorf("servo map %s: description too long, <30 characters", key)
		}
		if s.LowUs < 300 || s.LowUs > 3000 {
			return fmt.Errorf("servo map %s: low_us needs to be between 300 and 3000, got %d", key, s.LowUs)
		}
		if s.HighUs < 300 || s.HighUs > 3000 {
			return fmt.Errorf("servo map %s: high_us needs to be between 300 and 3000, got %d", key, s.HighUs)
		}
		if s.LowUs > s.HighUs {
			return fmt.Errorf("servo map %s: low_us %d above high_us %d", key, s.LowUs, s.HighUs)
		}
		if s.HighPos != "high" && s.HighPos != "low" {
			return fmt.Errorf("servo map %s: high_pos must be high or low, got %q", key, s.HighPos)
		}
		for name, angle := range map[string]float64{
			"low_angle": s.LowAngle, "high_angle": s.HighAngle, "home_angle": s.HomeAngle,
		} {
			if angle < 0 || angle > 180 {
				return fmt.Errorf("servo map %s: %s needs to be between 0 and 180, got %g", key, name, angle)
			}
		}
	}

	return nil
}

// ValidatePoseMap checks a pose map against a validated servo map.
// It performs declarative validation only.
// It MUST NOT mutate the map.
func ValidatePoseMap(poses PoseMap, servos ServoMap) error {
	for name, pose := range poses {
		if name == "" {
			return fmt.Errorf("pose map: pose name must not be empty")
		}
		if len(pose) == 0 {
			return fmt.Errorf("pose %s: needs at least one servo angle", name)
		}
		for key, angle := range pose {
			if _, ok := servos[key]; !ok {
				return fmt.Errorf("pose %s: servo %q is not in the servo map", name, key)
			}
			if angle < 0 || angle > 180 {
				return fmt.Errorf("pose %s: angle for %s needs to be between 0 and 180, got %g", name, key, angle)
			}
		}
	}
	return nil
}
