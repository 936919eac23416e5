package clock

import (
	"sync/atomic"
	"time"
)

// AudioClock is a sample-accurate hardware clock driven by an audio
// callback's sample counter, rather than wall-clock time. Grounded on
// original_source/.../clocks/audio_clock.rs.
type AudioClock struct {
	sampleRate    uint32
	samplesPlayed atomic.Uint64
	description   string
}

// NewAudioClock returns an audio clock for the given hardware sample
// rate (e.g. 48000).
func NewAudioClock(sampleRate uint32, description string) *AudioClock {
	return &AudioClock{sampleRate: sampleRate, description: description}
}

// IncrementSamples advances the clock by numSamples (mono sample
// count, not frames). Called from the audio hardware callback.
func (c *AudioClock) IncrementSamples(numSamples uint64) {
	c.samplesPlayed.Add(numSamples)
}

// Reset zeroes the sample counter, e.g. when restarting playback.
func (c *AudioClock) Reset() { c.samplesPlayed.Store(0) }

// Samples returns the total samples played since start or the last
// Reset.
func (c *AudioClock) Samples() uint64 { return c.samplesPlayed.Load() }

func (c *AudioClock) Now() time.Duration {
	samples := c.samplesPlayed.Load()
	elapsedNs := float64(samples) / float64(c.sampleRate) * 1e9
	return time.Duration(elapsedNs)
}

func (c *AudioClock) RateHz() (float64, bool) { return float64(c.sampleRate), true }

func (c *AudioClock) Description() string { return c.description }
