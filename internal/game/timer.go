package game

import (
	"log/slog"
	"math/rand"

	"PursuitOverhaul/internal/tier"
)

// IntervalTimer is a randomized countdown against a Clock. The length is
// drawn from [min, max] on Start and only re-drawn by UpdateParameters.
// A disabled timer never expires.
type IntervalTimer struct {
	clock Clock
	rng   *rand.Rand
	log   *slog.Logger
	name  string

	enabled bool
	min     float64
	max     float64

	running bool
	length  float64
	start   float64
}

func NewIntervalTimer(name string, clock Clock, rng *rand.Rand, log *slog.Logger) *IntervalTimer {
	return &IntervalTimer{clock: clock, rng: rng, log: loggerOrDiscard(log), name: name}
}

// UpdateParameters applies new bounds. A running, enabled timer re-draws
// its length from the new bounds immediately.
func (t *IntervalTimer) UpdateParameters(enabled bool, lo, hi float64) {
	if hi < lo {
		lo = hi
	}
	t.enabled = enabled
	t.min = lo
	t.max = hi
	if t.running && t.enabled {
		t.draw()
	}
}

// Bind applies the current tier of o.
func (t *IntervalTimer) Bind(o *tier.OptionalInterval[float64]) {
	lo, hi, enabled := o.Current()
	t.UpdateParameters(enabled, lo, hi)
}

// Start begins a countdown. It does nothing if the timer is running.
func (t *IntervalTimer) Start() {
	if t.running {
		t.log.Debug("timer already running", "timer", t.name)
		return
	}
	t.running = true
	t.start = t.clock.Now()
	if t.enabled {
		t.draw()
	}
}

// Stop clears the running state; length and start stay readable.
func (t *IntervalTimer) Stop() { t.running = false }

// Restart stops and starts the timer.
func (t *IntervalTimer) Restart() {
	t.Stop()
	t.Start()
}

func (t *IntervalTimer) draw() {
	t.length = t.min
	if span := t.max - t.min; span > 0 {
		t.length += t.unit() * span
	}
}

// unit draws from the timer's source, or the shared one when it has none.
func (t *IntervalTimer) unit() float64 {
	if t.rng == nil {
		return rand.Float64()
	}
	return t.rng.Float64()
}

func (t *IntervalTimer) IsRunning() bool    { return t.running }
func (t *IntervalTimer) IsEnabled() bool    { return t.enabled }
func (t *IntervalTimer) Length() float64    { return t.length }
func (t *IntervalTimer) StartedAt() float64 { return t.start }

// HasExpired reports whether a running, enabled timer reached its length.
func (t *IntervalTimer) HasExpired() bool {
	return t.running && t.enabled && t.clock.Now()-t.start >= t.length
}

// TimeLeft is the remaining time of a running, enabled timer, or 0.
func (t *IntervalTimer) TimeLeft() float64 {
	if !t.running || !t.enabled {
		return 0
	}
	left := t.length - (t.clock.Now() - t.start)
	if left < 0 {
		return 0
	}
	return left
}
