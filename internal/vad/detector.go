package vad

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultMinVolume    = 0.02
	DefaultSilenceDelay = 1500 * time.Millisecond
)

// Frame is one analysis window of frequency-bin magnitudes (0..255 each),
// the shape an analyser node hands out.
type Frame []byte

// Volume is the mean bin magnitude normalized to [0,1].
func (f Frame) Volume() float64 {
	if len(f) == 0 {
		return 0
	}
	sum := 0
	for _, b := range f {
		sum += int(b)
	}
	return float64(sum) / float64(len(f)) / 255
}

type Config struct {
	MinVolume    float64
	SilenceDelay time.Duration

	OnSpeechStart func()
	OnSpeechEnd   func()
}

// Detector is a threshold-plus-hysteresis debounce over a volume stream:
// Idle -> Speaking when volume exceeds MinVolume, Speaking -> Idle after the
// volume stays below it for SilenceDelay without interruption. Each callback
// fires at most once per transition. It is not a statistical voice detector.
type Detector struct {
	cfg Config

	mu        sync.Mutex
	speaking  bool
	deadline  time.Time
	armed     bool // silence timer running
	volume    float64
	cancel    context.CancelFunc
	running   bool

	now func() time.Time
}

func NewDetector(cfg Config) *Detector {
	if cfg.MinVolume <= 0 {
		cfg.MinVolume = DefaultMinVolume
	}
	if cfg.SilenceDelay <= 0 {
		cfg.SilenceDelay = DefaultSilenceDelay
	}
	return &Detector{
		cfg: cfg,
		now: time.Now,
	}
}

// Start consumes frames until the channel closes, Stop is called or the
// context ends. One goroutine owns all state; there is no other shared
// mutable state to guard beyond the flags under mu.
func (d *Detector) Start(ctx context.Context, frames <-chan Frame) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running = true
	d.mu.Unlock()

	go func() {
		defer d.reset()

		// The silence deadline has to fire even when no more frames arrive,
		// so the loop also wakes on a timer.
		tick := time.NewTicker(50 * time.Millisecond)
		defer tick.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-frames:
				if !ok {
					return
				}
				d.step(f.Volume(), d.now())
			case <-tick.C:
				d.checkSilence(d.now())
			}
		}
	}()
}

// Stop detaches the detector and resets every flag. Safe to call twice.
func (d *Detector) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (d *Detector) Speaking() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speaking
}

func (d *Detector) Volume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

// step advances the state machine by one sample.
func (d *Detector) step(volume float64, now time.Time) {
	d.mu.Lock()

	d.volume = volume

	var fire func()
	if volume > d.cfg.MinVolume {
		// Above threshold: cancel any pending silence deadline.
		d.armed = false

		if !d.speaking {
			d.speaking = true
			fire = d.cfg.OnSpeechStart
		}
	} else if d.speaking {
		if !d.armed {
			d.armed = true
			d.deadline = now.Add(d.cfg.SilenceDelay)
		} else if !now.Before(d.deadline) {
			d.speaking = false
			d.armed = false
			fire = d.cfg.OnSpeechEnd
		}
	}

	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// checkSilence lets the deadline expire between frames.
func (d *Detector) checkSilence(now time.Time) {
	d.mu.Lock()

	var fire func()
	if d.speaking && d.armed && !now.Before(d.deadline) {
		d.speaking = false
		d.armed = false
		fire = d.cfg.OnSpeechEnd
	}

	d.mu.Unlock()

	if fire != nil {
		fire()
	}
}

func (d *Detector) reset() {
	d.mu.Lock()
	d.speaking = false
	d.armed = false
	d.volume = 0
	d.running = false
	d.mu.Unlock()
}
