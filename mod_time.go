package rtscam

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration

	// Fixed, when non-zero, replaces the wall clock delta. Used for
	// deterministic playback and tests.
	Fixed time.Duration
}

// Seconds returns the frame delta in seconds.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct {
	Fixed time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time:  time.Now(),
		Fixed: mod.Fixed,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()
	if timeResource.Fixed > 0 {
		timeResource.Dt = timeResource.Fixed
	} else {
		timeResource.Dt = now.Sub(timeResource.Time)
	}
	timeResource.Time = now
}
