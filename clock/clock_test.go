package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSoftwareClockMonotonic(t *testing.T) {
	c := NewSoftwareClock()
	last := c.Now()
	for i := 0; i < 100; i++ {
		cur := c.Now()
		assert.GreaterOrEqual(t, cur, last)
		last = cur
	}
}

func TestSoftwareClockAdvancesWithRealTime(t *testing.T) {
	c := NewSoftwareClock()
	t1 := c.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := c.Now()
	assert.Greater(t, t2, t1)
	assert.GreaterOrEqual(t, t2-t1, 10*time.Millisecond)
}

func TestSoftwareClockReset(t *testing.T) {
	c := NewSoftwareClockWithDescription("Custom Clock")
	time.Sleep(5 * time.Millisecond)
	c.Reset()
	assert.Less(t, c.Now(), 5*time.Millisecond)
	assert.Equal(t, "Custom Clock", c.Description())
}

func TestSoftwareClockNoFixedRate(t *testing.T) {
	c := NewSoftwareClock()
	_, ok := c.RateHz()
	assert.False(t, ok)
}

func TestAudioClockSampleCounting(t *testing.T) {
	c := NewAudioClock(48000, "Test Audio Clock")
	assert.Equal(t, uint64(0), c.Samples())

	c.IncrementSamples(2048)
	assert.Equal(t, uint64(2048), c.Samples())

	c.IncrementSamples(2048)
	assert.Equal(t, uint64(4096), c.Samples())
}

func TestAudioClockTimeCalculation(t *testing.T) {
	c := NewAudioClock(48000, "Test Audio Clock")
	base := c.Now()

	c.IncrementSamples(48000)

	elapsed := c.Now() - base
	assert.InDelta(t, time.Second, elapsed, float64(time.Millisecond))
}

func TestAudioClockReset(t *testing.T) {
	c := NewAudioClock(48000, "Test Audio Clock")
	c.IncrementSamples(10000)
	assert.Equal(t, uint64(10000), c.Samples())

	c.Reset()
	assert.Equal(t, uint64(0), c.Samples())
}

func TestAudioClockRateHz(t *testing.T) {
	c := NewAudioClock(48000, "Test Audio Clock")
	hz, ok := c.RateHz()
	assert.True(t, ok)
	assert.Equal(t, 48000.0, hz)
}

func TestAudioClockDescription(t *testing.T) {
	c := NewAudioClock(48000, "CoreAudio")
	assert.Equal(t, "CoreAudio", c.Description())
}
