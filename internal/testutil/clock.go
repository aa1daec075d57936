package testutil

import "time"

// StepClock returns a clock that advances by step on every call, starting at start.
func StepClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}
