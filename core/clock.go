package core

import "time"

// Clock abstracts the time source so components can be driven by a
// deterministic clock in tests. All framework components take a Clock at
// construction instead of reading the process clock directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
