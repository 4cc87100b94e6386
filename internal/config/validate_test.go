// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		ServoBoard: "maestro",
		Serial: SerialConfig{
			TTY:      "/dev/ttyACM0",
			Baudrate: 9600,
			Parity:   "N",
			StopBits: 1,
			ByteSize: 8,
		},
	}
}

func validServoMap() ServoMap {
	return ServoMap{
		"A": {
			Position:    0,
			Designation: "LFH",
			Description: "Left front hip",
			HighUs:      2400,
			LowUs:       600,
			HighPos:     "high",
			HighAngle:   180,
			LowAngle:    0,
			HomeAngle:   90,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing board", func(c *Config) { c.ServoBoard = "" }, "servoboard is required"},
		{"unknown board", func(c *Config) { c.ServoBoard = "mega-maestro" }, "unknown servoboard"},
		{"bad baudrate", func(c *Config) { c.Serial.Baudrate = 9601 }, "baudrate"},
		{"bad parity", func(c *Config) { c.Serial.Parity = "X" }, "parity"},
		{"bad stopbits", func(c *Config) { c.Serial.StopBits = 3 }, "stopbits"},
		{"bad bytesize", func(c *Config) { c.Serial.ByteSize = 9 }, "bytesize"},
		{"negative timeout", func(c *Config) { v := -1.0; c.Serial.Timeout = &v }, "timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() err=%v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestValidateServoMap_OK(t *testing.T) {
	if err := ValidateServoMap(validServoMap()); err != nil {
		t.Fatalf("ValidateServoMap() err=%v", err)
	}
}

func TestValidateServoMap_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(ServoMap)
		want   string
	}{
		{"bad lettermap", func(m ServoMap) { m["Z"] = m["A"]; delete(m, "A") }, "lettermap"},
		{"bad channel", func(m ServoMap) { e := m["A"]; e.Position = 18; m["A"] = e }, "position"},
		{"long designation", func(m ServoMap) { e := m["A"]; e.Designation = "TOOLONG"; m["A"] = e }, "designation"},
		{"low_us range", func(m ServoMap) { e := m["A"]; e.LowUs = 200; m["A"] = e }, "low_us"},
		{"high_us range", func(m ServoMap) { e := m["A"]; e.HighUs = 3200; m["A"] = e }, "high_us"},
		{"us order", func(m ServoMap) { e := m["A"]; e.LowUs, e.HighUs = 2400, 600; m["A"] = e }, "above"},
		{"bad high_pos", func(m ServoMap) { e := m["A"]; e.HighPos = "middle"; m["A"] = e }, "high_pos"},
		{"angle range", func(m ServoMap) { e := m["A"]; e.HomeAngle = 270; m["A"] = e }, "home_angle"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			servos := validServoMap()
			tc.mutate(servos)
			err := ValidateServoMap(servos)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("ValidateServoMap() err=%v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestValidateServoMap_DuplicateChannel(t *testing.T) {
	servos := validServoMap()
	b := servos["A"]
	servos["B"] = b // same channel as A

	err := ValidateServoMap(servos)
	if err == nil || !strings.Contains(err.Error(), "channel 0") {
		t.Fatalf("ValidateServoMap() err=%v, want duplicate channel error", err)
	}
}

func TestValidatePoseMap(t *testing.T) {
	servos := validServoMap()

	if err := ValidatePoseMap(PoseMap{"sit": {"A": 45}}, servos); err != nil {
		t.Fatalf("ValidatePoseMap() err=%v", err)
	}

	testCases := []struct {
		name  string
		poses PoseMap
		want  string
	}{
		{"empty name", PoseMap{"": {"A": 45}}, "name"},
		{"empty pose", PoseMap{"sit": {}}, "at least one"},
		{"unknown servo", PoseMap{"sit": {"Q": 45}}, "not in the servo map"},
		{"angle range", PoseMap{"sit": {"A": 200}}, "between 0 and 180"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePoseMap(tc.poses, servos)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("ValidatePoseMap() err=%v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestSaveServoMap_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servo_config.yml")
	servos := validServoMap()

	if err := SaveServoMap(path, servos, "2026-08-29 12:00:00"); err != nil {
		t.Fatalf("SaveServoMap() err=%v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "# This file automatically generated on 2026-08-29 12:00:00") {
		t.Fatalf("missing generation stamp: %q", string(raw))
	}

	loaded, err := LoadServoMap(path)
	if err != nil {
		t.Fatalf("LoadServoMap() err=%v", err)
	}
	if len(loaded) != len(servos) || loaded["A"] != servos["A"] {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{ServoBoard: "maestro"}
	Normalize(cfg)

	if cfg.Serial.TTY != DefaultTTY || cfg.Serial.Baudrate != DefaultBaudrate {
		t.Fatalf("serial defaults not applied: %+v", cfg.Serial)
	}
	if cfg.Serial.Parity != "N" || cfg.Serial.StopBits != 1 || cfg.Serial.ByteSize != 8 {
		t.Fatalf("serial defaults not applied: %+v", cfg.Serial)
	}
	if cfg.ServoConfig != DefaultServoConfig || cfg.PoseConfig != DefaultPoseConfig {
		t.Fatalf("path defaults not applied: %+v", cfg)
	}
	if cfg.Serial.Timeout != nil {
		t.Fatal("absent timeout must stay absent")
	}
}
