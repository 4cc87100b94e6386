// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTTY         = "/dev/ttyS0"
	DefaultBaudrate    = 9600
	DefaultParity      = "N"
	DefaultStopBits    = 1
	DefaultByteSize    = 8
	DefaultServoConfig = "servo_config.yml"
	DefaultPoseConfig  = "pose_config.yml"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.ServoConfig == "" {
		cfg.ServoConfig = DefaultServoConfig
	}
	if cfg.PoseConfig == "" {
		cfg.PoseConfig = DefaultPoseConfig
	}

	s := &cfg.Serial
	if s.TTY == "" {
		s.TTY = DefaultTTY
	}
	if s.Baudrate == 0 {
		s.Baudrate = DefaultBaudrate
	}
	if s.Parity == "" {
		s.Parity = DefaultParity
	}
	if s.StopBits == 0 {
		s.StopBits = DefaultStopBits
	}
	if s.ByteSize == 0 {
		s.ByteSize = DefaultByteSize
	}
	// Timeout stays nil when absent: reads block without bound.
}
