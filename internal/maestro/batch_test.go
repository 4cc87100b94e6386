// internal/maestro/batch_test.go
package maestro

import "testing"

func TestSetTargetsUs_Grouping(t *testing.T) {
	c, tr := newTestController(t, Config{})

	err := c.SetTargetsUs(map[int]float64{
		0: 1500, 1: 1500, 2: 1500,
		5: 1200, 6: 1800,
	})
	if err != nil {
		t.Fatalf("SetTargetsUs err=%v", err)
	}

	// 1500us=6000, 1200us=4800, 1800us=7200.
	assertFrames(t, tr, [][]byte{
		{0xAA, 0x0C, 0x1F, 0x03, 0x00, 0x70, 0x2E, 0x70, 0x2E, 0x70, 0x2E},
		{0xAA, 0x0C, 0x1F, 0x02, 0x05, 0x40, 0x25, 0x20, 0x38},
	})

	for channel, want := range map[int]float64{0: 1500, 1: 1500, 2: 1500, 5: 1200, 6: 1800} {
		us, ok, _ := c.LastTargetUs(channel)
		if !ok || us != want {
			t.Fatalf("channel %d: recorded (%v,%v), want (%v,true)", channel, us, ok, want)
		}
	}
}

func TestSetTargetsUs_MicroDecomposition(t *testing.T) {
	c, tr := newTestController(t, Config{Micro: true})

	err := c.SetTargetsUs(map[int]float64{
		6: 1500, 0: 1500, 5: 1500, 2: 1500, 1: 1500,
	})
	if err != nil {
		t.Fatalf("SetTargetsUs err=%v", err)
	}

	if len(tr.writes) != 5 {
		t.Fatalf("expected 5 single frames, got %d", len(tr.writes))
	}
	wantOrder := []byte{0, 1, 2, 5, 6}
	for i, frame := range tr.writes {
		if frame[2] != cmdSetTarget {
			t.Fatalf("frame %d: expected SET_TARGET, got opcode 0x%02X", i, frame[2])
		}
		if frame[3] != wantOrder[i] {
			t.Fatalf("frame %d: expected channel %d, got %d", i, wantOrder[i], frame[3])
		}
	}
}

func TestSetTargetsUs_SingleRun(t *testing.T) {
	c, tr := newTestController(t, Config{})

	if err := c.SetTargetsUs(map[int]float64{3: 1500}); err != nil {
		t.Fatalf("SetTargetsUs err=%v", err)
	}

	// A run of one goes out as an ordinary SET_TARGET frame.
	assertFrames(t, tr, [][]byte{{0xAA, 0x0C, 0x04, 0x03, 0x70, 0x2E}})
}

func TestSetTargetsUs_ClampBeforeGrouping(t *testing.T) {
	c, tr := newTestController(t, Config{})

	if err := c.SetRange(1, Bound(1000), Bound(1400)); err != nil {
		t.Fatalf("SetRange err=%v", err)
	}

	err := c.SetTargetsUs(map[int]float64{0: 1500, 1: 1500, 2: 1500})
	if err != nil {
		t.Fatalf("SetTargetsUs err=%v", err)
	}

	// Channel 1 clamps to 1400us (5600) without disturbing 0 and 2.
	assertFrames(t, tr, [][]byte{
		{0xAA, 0x0C, 0x1F, 0x03, 0x00, 0x70, 0x2E, 0x60, 0x2B, 0x70, 0x2E},
	})

	us, ok, _ := c.LastTargetUs(1)
	if !ok || us != 1400 {
		t.Fatalf("channel 1: recorded (%v,%v), want (1400,true)", us, ok)
	}
}

func TestSetTargetsUs_StopSentinelInBatch(t *testing.T) {
	c, tr := newTestController(t, Config{})

	if err := c.SetRange(0, Bound(1000), Bound(2000)); err != nil {
		t.Fatalf("SetRange err=%v", err)
	}

	if err := c.SetTargetsUs(map[int]float64{0: 0, 1: 1500}); err != nil {
		t.Fatalf("SetTargetsUs err=%v", err)
	}

	// The stop sentinel rides the block frame unclamped.
	assertFrames(t, tr, [][]byte{
		{0xAA, 0x0C, 0x1F, 0x02, 0x00, 0x00, 0x00, 0x70, 0x2E},
	})
}

func TestSetTargetsUs_BadChannelBeforeIO(t *testing.T) {
	c, tr := newTestController(t, Config{})

	if err := c.SetTargetsUs(map[int]float64{0: 1500, 24: 1500}); err == nil {
		t.Fatal("expected channel range error")
	}
	if len(tr.writes) != 0 {
		t.Fatalf("invalid batch must not reach the transport, got %d frames", len(tr.writes))
	}
}

func TestSetTargetsUs_Empty(t *testing.T) {
	c, tr := newTestController(t, Config{})

	if err := c.SetTargetsUs(nil); err != nil {
		t.Fatalf("SetTargetsUs err=%v", err)
	}
	if len(tr.writes) != 0 {
		t.Fatal("empty batch must be a no-op")
	}
}
