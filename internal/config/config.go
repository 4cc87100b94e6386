// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the main spotbot configuration file.
type Config struct {
	// ServoBoard selects the controller variant: "maestro" or
	// "micro-maestro".
	ServoBoard string `yaml:"servoboard"`

	ServoConfig string `yaml:"servo_config"`
	PoseConfig  string `yaml:"pose_config"`

	Serial SerialConfig `yaml:"serial_settings"`

	// Relay is optional; without it the servo power relay is absent.
	Relay *RelayConfig `yaml:"relay_settings"`
}

// ---- SERIAL ----

type SerialConfig struct {
	TTY      string `yaml:"tty"`
	Baudrate int    `yaml:"baudrate"`
	Parity   string `yaml:"parity"`   // N, E, O
	StopBits int    `yaml:"stopbits"` // 1 or 2
	ByteSize int    `yaml:"bytesize"` // 7 or 8

	// Timeout is the read timeout in seconds. Absent means reads
	// block without bound.
	Timeout *float64 `yaml:"timeout"`
}

// ---- RELAY ----

type RelayConfig struct {
	GPIO       int  `yaml:"gpio"`
	ActiveHigh bool `yaml:"active_high"`
}

// ---- SERVO MAP ----

// ServoMap maps a lettermap key (A through R) to one servo entry.
type ServoMap map[string]ServoEntry

// ServoEntry is the calibration of one named servo.
type ServoEntry struct {
	// Position is the controller channel, 0 through 17.
	Position    int    `yaml:"position"`
	Designation string `yaml:"designation"`
	Description string `yaml:"description"`

	// Pulse-width endpoints in microseconds.
	HighUs int `yaml:"high_us"`
	LowUs  int `yaml:"low_us"`

	// HighPos names which mechanical end "high" maps to.
	HighPos string `yaml:"high_pos"` // "high" or "low"

	// Angle endpoints and home, in degrees.
	HighAngle float64 `yaml:"high_angle"`
	LowAngle  float64 `yaml:"low_angle"`
	HomeAngle float64 `yaml:"home_angle"`
}

// ---- POSES ----

// PoseMap maps a pose name to servo angles by lettermap key.
type PoseMap map[string]map[string]float64

// Load reads the main configuration file. It does not validate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadServoMap reads a servo map file. It does not validate.
func LoadServoMap(path string) (ServoMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var servos ServoMap
	if err := yaml.Unmarshal(raw, &servos); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return servos, nil
}

// LoadPoseMap reads a pose file. It does not validate.
func LoadPoseMap(path string) (PoseMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var poses PoseMap
	if err := yaml.Unmarshal(raw, &poses); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return poses, nil
}

// SaveServoMap writes a servo map back out, with a generation stamp,
// so in-app calibration edits survive restarts.
func SaveServoMap(path string, servos ServoMap, stamp string) error {
	raw, err := yaml.Marshal(servos)
	if err != nil {
		return fmt.Errorf("config: encode servo map: %w", err)
	}
	if stamp != "" {
		raw = append([]byte("# This file automatically generated on "+stamp+" by spotbot config\n"), raw...)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
