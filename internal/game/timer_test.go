package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"PursuitOverhaul/internal/tier"
)

func TestTimerDisabledNeverExpires(t *testing.T) {
	clock := &fakeClock{}
	timer := NewIntervalTimer("t", clock, nil, nil)
	timer.UpdateParameters(false, 1, 2)
	timer.Start()
	clock.now = 1e6
	if timer.HasExpired() {
		t.Fatal("disabled timer expired")
	}
	if !timer.IsRunning() {
		t.Fatal("disabled timer should still run")
	}
	if timer.TimeLeft() != 0 {
		t.Fatal("disabled timer has no time left")
	}
}

func TestTimerDrawsWithinBounds(t *testing.T) {
	clock := &fakeClock{now: 10}
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		timer := NewIntervalTimer("t", clock, rng, nil)
		timer.UpdateParameters(true, 3, 8)
		timer.Start()
		if l := timer.Length(); l < 3 || l > 8 {
			t.Fatalf("length %f outside [3, 8]", l)
		}
	}
}

func TestTimerWithoutSourceStillVaries(t *testing.T) {
	clock := &fakeClock{}
	lengths := map[float64]bool{}
	for i := 0; i < 20; i++ {
		timer := NewIntervalTimer("t", clock, nil, nil)
		timer.UpdateParameters(true, 3, 8)
		timer.Start()
		l := timer.Length()
		assert.True(t, l >= 3 && l <= 8, "length %f outside [3, 8]", l)
		lengths[l] = true
	}
	assert.Greater(t, len(lengths), 1)
}

func TestTimerExpiry(t *testing.T) {
	clock := &fakeClock{now: 2}
	timer := NewIntervalTimer("t", clock, nil, nil)
	timer.UpdateParameters(true, 5, 5)
	assert.False(t, timer.HasExpired(), "not started")

	timer.Start()
	clock.now = 6.5
	assert.False(t, timer.HasExpired())
	assert.InDelta(t, 0.5, timer.TimeLeft(), 1e-9)

	clock.now = 7
	assert.True(t, timer.HasExpired())

	timer.Stop()
	assert.False(t, timer.HasExpired())
	assert.Equal(t, 2.0, timer.StartedAt(), "stop keeps the start time readable")
}

func TestTimerStartWhileRunningIsNoop(t *testing.T) {
	clock := &fakeClock{now: 1}
	timer := NewIntervalTimer("t", clock, nil, nil)
	timer.UpdateParameters(true, 4, 4)
	timer.Start()
	clock.now = 3
	timer.Start()
	assert.Equal(t, 1.0, timer.StartedAt())

	timer.Restart()
	assert.Equal(t, 3.0, timer.StartedAt())
}

func TestTimerUpdateRedrawsWhileRunning(t *testing.T) {
	clock := &fakeClock{}
	timer := NewIntervalTimer("t", clock, nil, nil)
	timer.UpdateParameters(true, 10, 10)
	timer.Start()
	timer.UpdateParameters(true, 2, 2)
	assert.Equal(t, 2.0, timer.Length())

	clock.now = 2
	assert.True(t, timer.HasExpired())
}

func TestTimerFixesInvertedBounds(t *testing.T) {
	timer := NewIntervalTimer("t", &fakeClock{}, nil, nil)
	timer.UpdateParameters(true, 9, 4)
	timer.Start()
	assert.Equal(t, 4.0, timer.Length())
}

func TestTimerBind(t *testing.T) {
	o := &tier.OptionalInterval[float64]{}
	o.Enabled.Set(tier.Race, 3, true)
	o.Min.Set(tier.Race, 3, 6)
	o.Max.Set(tier.Race, 3, 6)
	o.SelectTier(tier.Race, 3)

	timer := NewIntervalTimer("t", &fakeClock{}, nil, nil)
	timer.Bind(o)
	timer.Start()
	assert.True(t, timer.IsEnabled())
	assert.Equal(t, 6.0, timer.Length())
}
