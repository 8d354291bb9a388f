package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"capgen/internal/audioanalysis"
	"capgen/internal/config"
	"capgen/internal/logging"
	"capgen/internal/services"
)

// Recognizer converts one audio chunk into text. The recognition service
// client satisfies this; tests substitute fakes.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string) (string, error)
}

// FallbackTranscriber is the secondary strategy: split the track on silence
// and recognize each chunk independently over the network.
//
// Timing is approximated with a running clock. Each chunk's start is the
// accumulated duration of all prior chunks, so silence removed between
// chunks is not reflected in segment times. Long tracks with many silences
// drift late relative to the source video; that matches the reference
// behavior and is accepted.
type FallbackTranscriber struct {
	recognizer Recognizer
	silence    config.Silence
	workDir    string
	logger     *slog.Logger
}

// NewFallbackTranscriber builds the silence-split strategy. Chunk WAV files
// are written into workDir.
func NewFallbackTranscriber(recognizer Recognizer, silence config.Silence, workDir string, logger *slog.Logger) *FallbackTranscriber {
	return &FallbackTranscriber{
		recognizer: recognizer,
		silence:    silence,
		workDir:    workDir,
		logger:     logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Name identifies the strategy in logs and transcript provenance.
func (t *FallbackTranscriber) Name() string { return "recognition" }

// Transcribe splits the audio on silence and recognizes each chunk. Chunks
// with no recognizable speech are skipped silently; chunks that fail with a
// service error are logged and skipped. Both still advance the clock by the
// chunk's duration. Zero surviving segments is an unrecognized-speech error.
func (t *FallbackTranscriber) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	track, err := audioanalysis.ReadWAV(audioPath)
	if err != nil {
		return nil, services.Wrap(services.ErrUnrecognizedSpeech, "transcribe", "fallback", "decode audio", err)
	}

	threshold := track.DBFS() - t.silence.ThresholdOffsetDB
	chunks := audioanalysis.SplitOnSilence(track, audioanalysis.Options{
		MinSilenceMs:  t.silence.MinSilenceMs,
		ThresholdDB:   threshold,
		KeepSilenceMs: t.silence.KeepSilenceMs,
		SeekStepMs:    t.silence.SeekStepMs,
	})

	if t.logger != nil {
		t.logger.Info("audio split on silence",
			logging.Int("chunks", len(chunks)),
			logging.Float64("threshold_dbfs", threshold),
		)
	}

	transcript := &Transcript{Source: t.Name()}
	clock := 0.0
	for i, chunk := range chunks {
		duration := chunk.DurationSeconds()
		start := clock
		clock += duration

		chunkPath := filepath.Join(t.workDir, fmt.Sprintf("chunk-%03d.wav", i))
		if err := chunk.Audio.WriteWAV(chunkPath); err != nil {
			return nil, services.Wrap(services.ErrRecognitionService, "transcribe", "fallback", "export chunk", err)
		}

		text, err := t.recognizer.Recognize(ctx, chunkPath)
		switch {
		case errors.Is(err, services.ErrUnrecognizedSpeech):
			// No speech in this chunk; the clock already advanced.
			continue
		case err != nil:
			if t.logger != nil {
				t.logger.Warn("chunk recognition failed",
					logging.Int("chunk", i),
					logging.Error(err),
				)
			}
			continue
		}

		transcript.Segments = append(transcript.Segments, Segment{
			Start: start,
			End:   start + duration,
			Text:  text,
		})
	}

	if transcript.Empty() {
		return nil, services.Wrap(services.ErrUnrecognizedSpeech, "transcribe", "fallback", "no speech detected", nil)
	}
	return transcript, nil
}
