package clock

import "time"

// SoftwareClock is the fallback clock: CPU timestamps via time.Now(),
// millisecond-level accuracy, suitable for development and non-sync
// pipelines. Grounded on
// original_source/.../clocks/software_clock.rs's Instant-based clock.
type SoftwareClock struct {
	start       time.Time
	description string
}

// NewSoftwareClock returns a software clock starting at the current
// time, with the default description.
func NewSoftwareClock() *SoftwareClock {
	return NewSoftwareClockWithDescription("Software Clock")
}

// NewSoftwareClockWithDescription is like NewSoftwareClock with a
// custom description.
func NewSoftwareClockWithDescription(description string) *SoftwareClock {
	return &SoftwareClock{start: time.Now(), description: description}
}

// Reset rebases the clock's epoch to now, making Now() report values
// near zero again.
func (c *SoftwareClock) Reset() { c.start = time.Now() }

func (c *SoftwareClock) Now() time.Duration { return time.Since(c.start) }

func (c *SoftwareClock) RateHz() (float64, bool) { return 0, false }

func (c *SoftwareClock) Description() string { return c.description }
