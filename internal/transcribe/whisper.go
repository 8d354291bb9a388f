package transcribe

import (
	"context"
	"log/slog"

	"capgen/internal/logging"
	"capgen/internal/services/whisper"
)

// WhisperTranscriber is the primary strategy: one model invocation over the
// whole audio file, with voice-activity segmentation handled by the model.
type WhisperTranscriber struct {
	service *whisper.Service
	workDir string
	logger  *slog.Logger
}

// NewWhisperTranscriber wraps a whisper service. Model output files are
// written into workDir, which is expected to be the run workspace.
func NewWhisperTranscriber(service *whisper.Service, workDir string, logger *slog.Logger) *WhisperTranscriber {
	return &WhisperTranscriber{
		service: service,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Name identifies the strategy in logs and transcript provenance.
func (t *WhisperTranscriber) Name() string { return "whisper" }

// Transcribe runs the model and converts its output to a transcript. Segment
// order and timing come straight from the model.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	result, err := t.service.Transcribe(ctx, audioPath, t.workDir)
	if err != nil {
		return nil, err
	}

	transcript := &Transcript{
		Language: result.Language,
		Source:   t.Name(),
		Segments: make([]Segment, 0, len(result.Segments)),
	}
	for _, seg := range result.Segments {
		transcript.Segments = append(transcript.Segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	if t.logger != nil {
		t.logger.Debug("model transcription finished",
			logging.Int("segments", len(transcript.Segments)),
			logging.String("language", transcript.Language),
		)
	}
	return transcript, nil
}
