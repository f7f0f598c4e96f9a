package utils

import "time"

// Clock is the time source used for DTSTAMP values and draft defaults.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. Tests use it to pin DTSTAMP.
type FixedClock struct {
	At time.Time
}

func (f *FixedClock) Now() time.Time {
	return f.At
}

func (f *FixedClock) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
