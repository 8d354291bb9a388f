package audioanalysis

import "math"

// Range is a half-open span of track time in milliseconds.
type Range struct {
	StartMs int
	EndMs   int
}

// Options tunes silence-based splitting. ThresholdDB is an absolute dBFS
// level; callers usually derive it from the track's overall loudness minus a
// configured offset.
type Options struct {
	MinSilenceMs  int
	ThresholdDB   float64
	KeepSilenceMs int
	SeekStepMs    int
}

// Chunk is one non-silent span of audio extracted from a track.
type Chunk struct {
	Audio *Track
	Range Range
}

// DurationSeconds returns the chunk's audio length in seconds.
func (c Chunk) DurationSeconds() float64 {
	return c.Audio.DurationSeconds()
}

// DetectSilence returns all maximal runs of at least minSilenceMs where
// every seekStepMs-stepped window of minSilenceMs length stays at or below
// thresholdDB. Windows are measured by RMS over a prefix-sum of squares so
// the scan stays linear in track length.
func DetectSilence(t *Track, minSilenceMs int, thresholdDB float64, seekStepMs int) []Range {
	if t == nil || seekStepMs <= 0 || minSilenceMs <= 0 {
		return nil
	}
	trackMs := t.Milliseconds()
	if trackMs < minSilenceMs {
		return nil
	}

	// Linear RMS threshold against the track's full-scale amplitude.
	threshold := dbToRatio(thresholdDB) * t.maxAmplitude()

	prefix := make([]float64, len(t.Samples)+1)
	for i, sample := range t.Samples {
		value := float64(sample)
		prefix[i+1] = prefix[i] + value*value
	}
	windowRMS := func(startMs int) float64 {
		lo := t.msToSampleIndex(startMs)
		hi := t.msToSampleIndex(startMs + minSilenceMs)
		if hi > len(t.Samples) {
			hi = len(t.Samples)
		}
		if hi <= lo {
			return 0
		}
		mean := (prefix[hi] - prefix[lo]) / float64(hi-lo)
		if mean <= 0 {
			return 0
		}
		return math.Sqrt(mean)
	}

	lastStart := trackMs - minSilenceMs
	starts := make([]int, 0, lastStart/seekStepMs+2)
	for offset := 0; offset <= lastStart; offset += seekStepMs {
		starts = append(starts, offset)
	}
	if lastStart%seekStepMs != 0 {
		starts = append(starts, lastStart)
	}

	silentStarts := make([]int, 0, len(starts))
	for _, offset := range starts {
		if windowRMS(offset) <= threshold {
			silentStarts = append(silentStarts, offset)
		}
	}
	if len(silentStarts) == 0 {
		return nil
	}

	// Merge window starts into maximal ranges. A gap larger than the
	// window length breaks the run; smaller gaps are bridged because the
	// overlapping windows cover them.
	var ranges []Range
	rangeStart := silentStarts[0]
	prev := silentStarts[0]
	for _, start := range silentStarts[1:] {
		continuous := start == prev+seekStepMs
		hasGap := start > prev+minSilenceMs
		if !continuous && hasGap {
			ranges = append(ranges, Range{StartMs: rangeStart, EndMs: prev + minSilenceMs})
			rangeStart = start
		}
		prev = start
	}
	ranges = append(ranges, Range{StartMs: rangeStart, EndMs: prev + minSilenceMs})
	return ranges
}

// DetectNonsilent inverts DetectSilence over the track bounds.
func DetectNonsilent(t *Track, minSilenceMs int, thresholdDB float64, seekStepMs int) []Range {
	trackMs := t.Milliseconds()
	silences := DetectSilence(t, minSilenceMs, thresholdDB, seekStepMs)
	if len(silences) == 0 {
		if trackMs == 0 {
			return nil
		}
		return []Range{{StartMs: 0, EndMs: trackMs}}
	}

	var ranges []Range
	cursor := 0
	for _, silence := range silences {
		if silence.StartMs > cursor {
			ranges = append(ranges, Range{StartMs: cursor, EndMs: silence.StartMs})
		}
		cursor = silence.EndMs
	}
	if cursor < trackMs {
		ranges = append(ranges, Range{StartMs: cursor, EndMs: trackMs})
	}
	return ranges
}

// SplitOnSilence divides the track into non-silent chunks. Each chunk keeps
// KeepSilenceMs of padding on both sides; padded neighbors that overlap are
// resolved at the midpoint so no audio is duplicated. A fully silent track
// yields no chunks.
func SplitOnSilence(t *Track, opts Options) []Chunk {
	nonsilent := DetectNonsilent(t, opts.MinSilenceMs, opts.ThresholdDB, opts.SeekStepMs)
	if len(nonsilent) == 0 {
		return nil
	}

	padded := make([]Range, len(nonsilent))
	for i, r := range nonsilent {
		padded[i] = Range{StartMs: r.StartMs - opts.KeepSilenceMs, EndMs: r.EndMs + opts.KeepSilenceMs}
	}
	for i := 1; i < len(padded); i++ {
		if padded[i-1].EndMs > padded[i].StartMs {
			midpoint := (padded[i-1].EndMs + padded[i].StartMs) / 2
			padded[i-1].EndMs = midpoint
			padded[i].StartMs = midpoint
		}
	}

	trackMs := t.Milliseconds()
	chunks := make([]Chunk, 0, len(padded))
	for _, r := range padded {
		if r.StartMs < 0 {
			r.StartMs = 0
		}
		if r.EndMs > trackMs {
			r.EndMs = trackMs
		}
		if r.EndMs <= r.StartMs {
			continue
		}
		chunks = append(chunks, Chunk{Audio: t.Slice(r.StartMs, r.EndMs), Range: r})
	}
	return chunks
}
