package camrig

import (
	"time"
)

const (
	DefaultFixedHz       = 64
	DefaultMaxFixedSteps = 8
)

// Time carries both clocks: Dt is the wall-clock frame delta, FixedDt the
// constant simulation quantum.
type Time struct {
	Time          time.Time
	Dt            time.Duration
	FixedDt       time.Duration
	Elapsed       time.Duration
	FixedTicks    uint64
	MaxFixedSteps int

	accumulator time.Duration
	now         func() time.Time
}

func (t *Time) DeltaSeconds() float32 {
	return float32(t.Dt.Seconds())
}

func (t *Time) FixedSeconds() float32 {
	return float32(t.FixedDt.Seconds())
}

// consumeFixedTicks drains whole quanta from the accumulator. Backlog past
// MaxFixedSteps is dropped instead of spiralling.
func (t *Time) consumeFixedTicks() int {
	if t.FixedDt <= 0 {
		return 0
	}
	n := 0
	for t.accumulator >= t.FixedDt && n < t.MaxFixedSteps {
		t.accumulator -= t.FixedDt
		n++
	}
	if t.accumulator >= t.FixedDt {
		t.accumulator %= t.FixedDt
	}
	t.FixedTicks += uint64(n)
	recordFixedTicks(n)
	return n
}

type TimeModule struct {
	FixedHz       int
	MaxFixedSteps int
	// Now overrides the wall clock, mainly for tests.
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	hz := mod.FixedHz
	if hz <= 0 {
		hz = DefaultFixedHz
	}
	maxSteps := mod.MaxFixedSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxFixedSteps
	}
	now := mod.Now
	if now == nil {
		now = time.Now
	}

	cmd.AddResources(&Time{
		Time:          now(),
		FixedDt:       time.Second / time.Duration(hz),
		MaxFixedSteps: maxSteps,
		now:           now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(t *Time) {
	now := t.now()

	t.Dt = now.Sub(t.Time)
	if t.Dt < 0 {
		t.Dt = 0
	}
	t.Time = now
	t.Elapsed += t.Dt
	t.accumulator += t.Dt
}

// ManualClock is a settable clock for deterministic stepping.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
