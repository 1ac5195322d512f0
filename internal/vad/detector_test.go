package vad

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFrameVolume(t *testing.T) {
	cases := []struct {
		name  string
		frame Frame
		want  float64
	}{
		{"empty", Frame{}, 0},
		{"silence", Frame{0, 0, 0, 0}, 0},
		{"full scale", Frame{255, 255}, 1},
		{"mixed", Frame{0, 255}, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.frame.Volume(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

// One loud frame followed by silence for the full delay: start fires exactly
// once, end fires exactly once, and only after the delay has elapsed.
func TestDetector_StartAndEndFireOnce(t *testing.T) {
	var starts, ends atomic.Int32

	d := NewDetector(Config{
		MinVolume:     0.02,
		SilenceDelay:  1500 * time.Millisecond,
		OnSpeechStart: func() { starts.Add(1) },
		OnSpeechEnd:   func() { ends.Add(1) },
	})

	base := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	// loud frame
	d.step(0.5, base)
	if starts.Load() != 1 {
		t.Fatalf("expected start to fire once, got %d", starts.Load())
	}
	if !d.Speaking() {
		t.Fatal("expected speaking state")
	}

	// silence, delay not yet elapsed
	d.step(0.0, base.Add(100*time.Millisecond))
	d.step(0.0, base.Add(1000*time.Millisecond))
	d.checkSilence(base.Add(1400 * time.Millisecond))
	if ends.Load() != 0 {
		t.Fatalf("end fired before delay elapsed: %d", ends.Load())
	}

	// deadline is armed at the first silent sample, so it expires at +1600ms
	d.checkSilence(base.Add(1700 * time.Millisecond))
	if ends.Load() != 1 {
		t.Fatalf("expected end to fire once, got %d", ends.Load())
	}
	if d.Speaking() {
		t.Fatal("expected idle state after end")
	}

	// further silence must not fire again
	d.step(0.0, base.Add(2*time.Second))
	d.checkSilence(base.Add(3 * time.Second))
	if starts.Load() != 1 || ends.Load() != 1 {
		t.Fatalf("callbacks fired again: starts=%d ends=%d", starts.Load(), ends.Load())
	}
}

// A loud frame during the silence window cancels the pending end.
func TestDetector_SpeechResetsSilenceTimer(t *testing.T) {
	var ends atomic.Int32

	d := NewDetector(Config{
		MinVolume:    0.02,
		SilenceDelay: 1500 * time.Millisecond,
		OnSpeechEnd:  func() { ends.Add(1) },
	})

	base := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	d.step(0.5, base)
	d.step(0.0, base.Add(200*time.Millisecond)) // arms deadline at +1700ms
	d.step(0.6, base.Add(1*time.Second))        // cancels it

	// past the original deadline, still speaking
	d.checkSilence(base.Add(2 * time.Second))
	if ends.Load() != 0 {
		t.Fatal("end fired despite renewed speech")
	}

	// new silence window runs from its own first silent sample
	d.step(0.0, base.Add(2100*time.Millisecond))
	d.checkSilence(base.Add(3700 * time.Millisecond))
	if ends.Load() != 1 {
		t.Fatalf("expected end after full new silence window, got %d", ends.Load())
	}
}

func TestDetector_BelowThresholdNeverStarts(t *testing.T) {
	d := NewDetector(Config{
		MinVolume: 0.02,
		OnSpeechStart: func() {
			t.Error("start fired for sub-threshold volume")
		},
	})

	base := time.Now()
	for i := 0; i < 10; i++ {
		d.step(0.01, base.Add(time.Duration(i)*100*time.Millisecond))
	}
	if d.Speaking() {
		t.Fatal("detector should stay idle")
	}
}

func TestDetector_Defaults(t *testing.T) {
	d := NewDetector(Config{})
	if d.cfg.MinVolume != DefaultMinVolume {
		t.Fatalf("expected default min volume, got %v", d.cfg.MinVolume)
	}
	if d.cfg.SilenceDelay != DefaultSilenceDelay {
		t.Fatalf("expected default silence delay, got %v", d.cfg.SilenceDelay)
	}
}
