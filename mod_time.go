package flycam

import (
	"time"
)

// Time is the frame clock. Dt is the time elapsed since the previous frame.
type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64

	fixedStep time.Duration
	now       func() time.Time
}

// DeltaSeconds is Dt as float32 seconds, the unit the camera expects.
func (t *Time) DeltaSeconds() float32 {
	return float32(t.Dt.Seconds())
}

// TimeModule installs the Time resource. With FixedStep set, every frame
// advances by exactly that amount regardless of wall clock. Otherwise the
// first frame has a zero Dt and later frames measure wall time between frames.
type TimeModule struct {
	FixedStep time.Duration
	Now       func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{
		Time:      now(),
		Dt:        0,
		fixedStep: mod.FixedStep,
		now:       now,
	})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	timeResource.advance()
}

func (t *Time) advance() {
	if t.fixedStep > 0 {
		t.Time = t.Time.Add(t.fixedStep)
		t.Dt = t.fixedStep
	} else {
		if t.now == nil {
			t.now = time.Now
		}
		now := t.now()
		// Setup between Install and the first frame is not frame time.
		if t.Frame == 0 {
			t.Dt = 0
		} else {
			t.Dt = now.Sub(t.Time)
		}
		t.Time = now
	}
	t.Frame++
}
