package audioanalysis

import (
	"math"
)

// Track holds decoded PCM audio as interleaved integer samples. Slicing and
// measurement operate in milliseconds, matching the silence tuning knobs in
// configuration.
type Track struct {
	Samples    []int
	SampleRate int
	Channels   int
	BitDepth   int
}

func (t *Track) frameCount() int {
	if t == nil || t.Channels == 0 {
		return 0
	}
	return len(t.Samples) / t.Channels
}

// Milliseconds returns the track length in milliseconds.
func (t *Track) Milliseconds() int {
	if t == nil || t.SampleRate == 0 {
		return 0
	}
	return int(int64(t.frameCount()) * 1000 / int64(t.SampleRate))
}

// DurationSeconds returns the track length in seconds.
func (t *Track) DurationSeconds() float64 {
	if t == nil || t.SampleRate == 0 {
		return 0
	}
	return float64(t.frameCount()) / float64(t.SampleRate)
}

// maxAmplitude returns the full-scale amplitude for the track's bit depth.
func (t *Track) maxAmplitude() float64 {
	depth := t.BitDepth
	if depth <= 0 {
		depth = 16
	}
	return float64(int64(1) << (depth - 1))
}

// RMS returns the root-mean-square amplitude over the whole track.
func (t *Track) RMS() float64 {
	return t.rmsRange(0, len(t.Samples))
}

// DBFS returns the track's loudness in dB relative to full scale. A silent
// track reports negative infinity.
func (t *Track) DBFS() float64 {
	return ratioToDB(t.RMS() / t.maxAmplitude())
}

// Slice returns the samples between startMs and endMs as a new track sharing
// the underlying array. Bounds are clamped to the track.
func (t *Track) Slice(startMs, endMs int) *Track {
	if t == nil {
		return nil
	}
	start := t.msToSampleIndex(startMs)
	end := t.msToSampleIndex(endMs)
	if start < 0 {
		start = 0
	}
	if end > len(t.Samples) {
		end = len(t.Samples)
	}
	if end < start {
		end = start
	}
	return &Track{
		Samples:    t.Samples[start:end],
		SampleRate: t.SampleRate,
		Channels:   t.Channels,
		BitDepth:   t.BitDepth,
	}
}

// msToSampleIndex converts a millisecond offset to an interleaved sample
// index aligned to a frame boundary.
func (t *Track) msToSampleIndex(ms int) int {
	frames := int(int64(ms) * int64(t.SampleRate) / 1000)
	return frames * t.Channels
}

func (t *Track) rmsRange(start, end int) float64 {
	if t == nil || start >= end {
		return 0
	}
	var sum float64
	for _, sample := range t.Samples[start:end] {
		value := float64(sample)
		sum += value * value
	}
	return math.Sqrt(sum / float64(end-start))
}

func ratioToDB(ratio float64) float64 {
	if ratio <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(ratio)
}

func dbToRatio(db float64) float64 {
	return math.Pow(10, db/20)
}
