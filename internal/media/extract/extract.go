package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"capgen/internal/logging"
	"capgen/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Extractor converts a video's audio into the mono 16 kHz WAV consumed by
// both transcription strategies.
type Extractor struct {
	ffmpegBinary string
	logger       *slog.Logger
	run          commandRunner
}

// New constructs an audio extractor that shells out to the given ffmpeg binary.
func New(ffmpegBinary string, logger *slog.Logger) *Extractor {
	return &Extractor{
		ffmpegBinary: ffmpegBinary,
		logger:       logging.NewComponentLogger(logger, "extract"),
		run:          defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *Extractor) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Audio extracts the first audio stream of source into dest as mono 16 kHz
// 16-bit PCM WAV.
func (e *Extractor) Audio(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return services.Wrap(services.ErrMediaRead, "extract", "audio", "source path is required", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrMediaRead, "extract", "audio", "source not readable", err)
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}

	if e.logger != nil {
		e.logger.Debug("extracting audio",
			logging.String("source", source),
			logging.String("dest", dest),
		)
	}

	if err := e.run(ctx, e.ffmpegBinary, args...); err != nil {
		return services.Wrap(services.ErrMediaRead, "extract", "audio", "ffmpeg extract failed", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return services.Wrap(services.ErrMediaRead, "extract", "audio", "ffmpeg produced no output", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrMediaRead, "extract", "audio", "ffmpeg produced empty output", nil)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
