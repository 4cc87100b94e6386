// internal/tui/tui_test.go
package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quadbotics/spotbot/internal/config"
	"github.com/quadbotics/spotbot/internal/servos"
)

type nopController struct{}

func (nopController) SetRange(channel int, minUs, maxUs *float64) error { return nil }
func (nopController) SetTargetUs(channel int, targetUs float64) error   { return nil }
func (nopController) SetTargetsUs(targetsUs map[int]float64) error      { return nil }
func (nopController) SetSpeed(channel, speed int) error                 { return nil }
func (nopController) SetAcceleration(channel, acceleration int) error   { return nil }
func (nopController) StopChannel(channel int) error                     { return nil }
func (nopController) GetPositionUs(channel int) (float64, error)        { return 0, nil }
func (nopController) LastTargetUs(channel int) (float64, bool, error)   { return 0, false, nil }

func testServoMap() config.ServoMap {
	return config.ServoMap{
		"A": {
			Position: 0, Designation: "LFH", Description: "Left front hip",
			HighUs: 2400, LowUs: 600, HighPos: "high",
			HighAngle: 180, LowAngle: 0, HomeAngle: 90,
		},
	}
}

func TestSaveCommand_WritesServoMap(t *testing.T) {
	servoMap := testServoMap()
	rig, err := servos.NewRig(servoMap, nopController{})
	if err != nil {
		t.Fatalf("NewRig() err=%v", err)
	}

	path := filepath.Join(t.TempDir(), "servo_config.yml")
	m := NewModel(rig, nil, nil, nil, servoMap, path, time.Second)

	m.textInput.SetValue("save")
	m.handleCommand()
	if m.errMsg != "" {
		t.Fatalf("save reported %q", m.errMsg)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "# This file automatically generated on ") {
		t.Fatal("missing generation stamp")
	}

	loaded, err := config.LoadServoMap(path)
	if err != nil {
		t.Fatalf("LoadServoMap() err=%v", err)
	}
	if loaded["A"] != servoMap["A"] {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestSaveCommand_ReportsWriteFailure(t *testing.T) {
	servoMap := testServoMap()
	rig, err := servos.NewRig(servoMap, nopController{})
	if err != nil {
		t.Fatalf("NewRig() err=%v", err)
	}

	m := NewModel(rig, nil, nil, nil, servoMap, filepath.Join(t.TempDir(), "missing", "servo_config.yml"), time.Second)

	m.textInput.SetValue("save")
	m.handleCommand()
	if m.errMsg == "" {
		t.Fatal("expected a write failure to surface on screen")
	}
}
