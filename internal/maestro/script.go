// internal/maestro/script.go
package maestro

import "fmt"

// StopScript stops the onboard script, if one is running.
func (c *Controller) StopScript() error {
	return c.send(cmdStopScript)
}

// RunScriptSubroutine restarts the onboard script at a subroutine,
// numbered in definition order starting at 0. Subroutines started
// this way have nowhere to return to and should loop or QUIT.
func (c *Controller) RunScriptSubroutine(subroutine int) error {
	if subroutine < 0 || subroutine > 0xFF {
		return fmt.Errorf("maestro: subroutine %d out of range [0, 255]", subroutine)
	}
	return c.send(cmdRestartScript, byte(subroutine))
}

// RunScriptSubroutineWithParameter is RunScriptSubroutine with a
// 14-bit parameter pushed onto the script stack first.
func (c *Controller) RunScriptSubroutineWithParameter(subroutine, parameter int) error {
	if subroutine < 0 || subroutine > 0xFF {
		return fmt.Errorf("maestro: subroutine %d out of range [0, 255]", subroutine)
	}
	lsb, msb, err := packWord(parameter)
	if err != nil {
		return err
	}
	return c.send(cmdRestartScriptParam, byte(subroutine), lsb, msb)
}
