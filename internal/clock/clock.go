// Package clock abstracts wall-clock reads so stage timing can be controlled in tests.
package clock

import (
	"math"
	"time"
)

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ElapsedSeconds returns the seconds between start and end rounded to two
// decimals. A clock that steps backwards yields 0, never a negative value.
func ElapsedSeconds(start, end time.Time) float64 {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return math.Round(d.Seconds()*100) / 100
}

// Ensure RealClock implements Clock.
var _ Clock = RealClock{}
