// internal/status/poller_test.go
package status

import (
	"errors"
	"testing"
	"time"

	"github.com/quadbotics/spotbot/internal/maestro"
)

type fakeClient struct {
	flags    maestro.ErrorFlags
	running  bool
	posUs    map[int]float64
	targets  map[int]float64
	failPos  bool
	failErrs bool
}

func (f *fakeClient) GetErrors() (maestro.ErrorFlags, error) {
	if f.failErrs {
		return 0, errors.New("fail errors")
	}
	return f.flags, nil
}

func (f *fakeClient) ScriptIsRunning() (bool, error) {
	return f.running, nil
}

func (f *fakeClient) GetPositionUs(channel int) (float64, error) {
	if f.failPos {
		return 0, errors.New("fail position")
	}
	return f.posUs[channel], nil
}

func (f *fakeClient) LastTargetUs(channel int) (float64, bool, error) {
	us, ok := f.targets[channel]
	return us, ok, nil
}

func testConfig() Config {
	return Config{
		Interval: time.Second,
		Channels: []Channel{{Key: "A", Channel: 0}, {Key: "B", Channel: 1}},
	}
}

func TestPollOnce_Success(t *testing.T) {
	client := &fakeClient{
		flags:   maestro.ErrSerialTimeout,
		running: true,
		posUs:   map[int]float64{0: 1500, 1: 1950},
		targets: map[int]float64{0: 1500},
	}

	p, err := New(testConfig(), client)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	snap := p.PollOnce()
	if snap.Err != nil {
		t.Fatalf("PollOnce err=%v", snap.Err)
	}
	if snap.Errors != maestro.ErrSerialTimeout || !snap.ScriptRunning {
		t.Fatalf("snapshot=%+v", snap)
	}
	if len(snap.Readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(snap.Readings))
	}
	if r := snap.Readings[0]; r.Key != "A" || r.PositionUs != 1500 || !r.Known {
		t.Fatalf("reading A=%+v", r)
	}
	if r := snap.Readings[1]; r.Known {
		t.Fatalf("reading B should be never-commanded, got %+v", r)
	}
}

func TestPollOnce_Failure(t *testing.T) {
	p, err := New(testConfig(), &fakeClient{failPos: true})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	snap := p.PollOnce()
	if snap.Err == nil {
		t.Fatal("expected error, got nil")
	}
	if snap.Readings != nil {
		t.Fatal("failed pass must not commit partial readings")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Interval: time.Second}, nil); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := New(Config{}, &fakeClient{}); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
