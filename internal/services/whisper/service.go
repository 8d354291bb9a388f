package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	"capgen/internal/config"
	"capgen/internal/logging"
	"capgen/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Service wraps the local Whisper model CLI. The configured command is
// parsed with shellwords so it may carry its own arguments
// ("uvx --from openai-whisper whisper").
type Service struct {
	command  []string
	model    string
	language string
	timeout  time.Duration
	logger   *slog.Logger
	run      commandRunner
}

// NewService builds a transcription service from configuration.
func NewService(cfg config.Transcription, logger *slog.Logger) (*Service, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "new", "parse transcription.command", err)
	}
	if len(args) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "new", "transcription.command is empty", nil)
	}
	return &Service{
		command:  args,
		model:    cfg.Model,
		language: cfg.Language,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:   logging.NewComponentLogger(logger, "whisper"),
		run:      defaultCommandRunner,
	}, nil
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (s *Service) WithCommandRunner(r commandRunner) {
	if s != nil && r != nil {
		s.run = r
	}
}

// Model returns the configured model size for logging.
func (s *Service) Model() string {
	return s.model
}

// Command returns the binary name the service will execute.
func (s *Service) Command() string {
	if len(s.command) == 0 {
		return ""
	}
	return s.command[0]
}

// Segment is one timed span of transcribed speech from the model's JSON
// output.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result carries the parsed model output for one audio file.
type Result struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Transcribe runs the model CLI against audioPath, directing its JSON output
// into outputDir, and parses the resulting segment list. Empty or
// whitespace-only segments are dropped; the rest pass through in file order.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) (Result, error) {
	var result Result

	if strings.TrimSpace(audioPath) == "" {
		return result, services.Wrap(services.ErrTranscription, "whisper", "transcribe", "audio path is required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrTranscription, "whisper", "transcribe", "ensure output dir", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := s.buildArgs(audioPath, outputDir)

	if s.logger != nil {
		s.logger.Debug("running transcription model",
			logging.String("audio", audioPath),
			logging.String("model", s.model),
		)
	}

	if err := s.run(ctx, args[0], args[1:]...); err != nil {
		return result, services.Wrap(services.ErrTranscription, "whisper", "transcribe", "model run failed", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, base+".json")
	result, err := loadResult(jsonPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTranscription, "whisper", "transcribe", "parse model output", err)
	}
	return result, nil
}

// buildArgs constructs the model CLI invocation.
func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := append([]string{}, s.command...)
	args = append(args,
		audioPath,
		"--model", s.model,
		"--output_format", "json",
		"--output_dir", outputDir,
	)
	if s.language != "" {
		args = append(args, "--language", s.language)
	}
	return args
}

func loadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	var payload Result
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", filepath.Base(jsonPath), err)
	}

	kept := payload.Segments[:0]
	for _, seg := range payload.Segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		kept = append(kept, seg)
	}
	payload.Segments = kept
	return payload, nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
