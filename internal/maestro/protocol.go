// internal/maestro/protocol.go
package maestro

import (
	"fmt"
	"strings"
)

// Pololu serial protocol framing.
// Every command frame is [header, device number, opcode, payload...].
// These values define the protocol and MUST NOT be configurable.

// protocolHeader is the fixed lead-in byte of every frame.
const protocolHeader = 0xAA

// DefaultDeviceNumber addresses a factory-configured controller.
// Multiple controllers on one serial bus are told apart by this byte.
const DefaultDeviceNumber = 0x0C

// NumChannels is the number of servo channels a controller exposes.
const NumChannels = 24

// ---- COMMAND OPCODES ----

const (
	cmdSetTarget          = 0x04
	cmdSetSpeed           = 0x07
	cmdSetAcceleration    = 0x09
	cmdSetPWM             = 0x0A
	cmdGetPosition        = 0x10
	cmdGetMovingState     = 0x13
	cmdSetMultipleTargets = 0x1F
	cmdGetErrors          = 0x21
	cmdGoHome             = 0x22
	cmdStopScript         = 0x24
	cmdRestartScript      = 0x27
	cmdRestartScriptParam = 0x28
	cmdGetScriptStatus    = 0x2E
)

// ---- ERROR REGISTER ----

// ErrorFlags is the controller error register returned by GetErrors.
// Reading the register clears it on the controller.
type ErrorFlags uint16

const (
	ErrSerialSignal         ErrorFlags = 1 << 0
	ErrSerialOverrun        ErrorFlags = 1 << 1
	ErrSerialBufferFull     ErrorFlags = 1 << 2
	ErrSerialCRC            ErrorFlags = 1 << 3
	ErrSerialProtocol       ErrorFlags = 1 << 4
	ErrSerialTimeout        ErrorFlags = 1 << 5
	ErrScriptStack          ErrorFlags = 1 << 6
	ErrScriptCallStack      ErrorFlags = 1 << 7
	ErrScriptProgramCounter ErrorFlags = 1 << 8
)

var errorFlagNames = []struct {
	flag ErrorFlags
	name string
}{
	{ErrSerialSignal, "serial signal"},
	{ErrSerialOverrun, "serial overrun"},
	{ErrSerialBufferFull, "serial buffer full"},
	{ErrSerialCRC, "serial CRC"},
	{ErrSerialProtocol, "serial protocol"},
	{ErrSerialTimeout, "serial timeout"},
	{ErrScriptStack, "script stack"},
	{ErrScriptCallStack, "script call stack"},
	{ErrScriptProgramCounter, "script program counter"},
}

// Names returns the set flags as human-readable labels.
func (e ErrorFlags) Names() []string {
	var names []string
	for _, f := range errorFlagNames {
		if e&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

func (e ErrorFlags) String() string {
	if e == 0 {
		return "no errors"
	}
	return fmt.Sprintf("0x%04X (%s)", uint16(e), strings.Join(e.Names(), ", "))
}
