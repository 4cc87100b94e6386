// internal/maestro/transport.go
package maestro

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Transport is the byte pipe to the controller board.
// Drain blocks until buffered output has actually been transmitted,
// so a command frame is fully delivered before the call returns.
type Transport interface {
	io.Reader
	io.Writer
	Drain() error
	Close() error
}

// Settings holds serial transport construction parameters. Domains
// are the config loader's responsibility; the transport only rejects
// what the OS rejects.
type Settings struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string

	Baud     int
	Parity   string // "N", "E" or "O"
	StopBits int    // 1 or 2
	DataBits int    // 7 or 8

	// ReadTimeout bounds blocking response reads. Zero blocks forever.
	ReadTimeout time.Duration
}

// OpenSerial opens the command port described by s.
func OpenSerial(s Settings) (Transport, error) {
	mode := &serial.Mode{
		BaudRate: s.Baud,
		DataBits: s.DataBits,
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}

	switch s.Parity {
	case "", "N":
		mode.Parity = serial.NoParity
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	default:
		return nil, fmt.Errorf("maestro: unknown parity %q", s.Parity)
	}

	switch s.StopBits {
	case 0, 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("maestro: unsupported stop bits %d", s.StopBits)
	}

	port, err := serial.Open(s.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("maestro: open %s: %w", s.Device, err)
	}

	timeout := s.ReadTimeout
	if timeout <= 0 {
		timeout = serial.NoTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("maestro: set read timeout: %w", err)
	}

	return port, nil
}
