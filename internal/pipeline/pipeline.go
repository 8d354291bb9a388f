package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"capgen/internal/captions"
	"capgen/internal/compose"
	"capgen/internal/config"
	"capgen/internal/logging"
	"capgen/internal/media/extract"
	"capgen/internal/media/ffprobe"
	"capgen/internal/services"
	"capgen/internal/services/recognition"
	"capgen/internal/services/whisper"
	"capgen/internal/transcribe"
)

// Extractor produces the WAV audio track consumed by transcription.
type Extractor interface {
	Audio(ctx context.Context, source, dest string) error
}

// OutputWriter executes a composition plan.
type OutputWriter interface {
	Write(ctx context.Context, plan compose.Plan) error
}

// Prober inspects a media file.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// TranscriberFactory builds a transcription strategy bound to the run's
// workspace directory.
type TranscriberFactory func(workDir string) (transcribe.Transcriber, error)

// Pipeline wires the five stages and runs them sequentially, one run per
// call. Stage implementations are injectable for tests; the defaults shell
// out to ffmpeg, ffprobe, and the configured transcriber.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	extractor Extractor
	writer    OutputWriter
	probe     Prober
	primary   TranscriberFactory
	fallback  TranscriberFactory
}

// Option overrides a pipeline collaborator.
type Option func(*Pipeline)

// WithExtractor substitutes the audio extraction stage.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithWriter substitutes the output writer.
func WithWriter(w OutputWriter) Option {
	return func(p *Pipeline) { p.writer = w }
}

// WithProber substitutes the media prober.
func WithProber(fn Prober) Option {
	return func(p *Pipeline) { p.probe = fn }
}

// WithPrimaryTranscriber substitutes the primary transcription strategy.
// A nil factory disables the primary path entirely.
func WithPrimaryTranscriber(f TranscriberFactory) Option {
	return func(p *Pipeline) { p.primary = f }
}

// WithFallbackTranscriber substitutes the fallback transcription strategy.
func WithFallbackTranscriber(f TranscriberFactory) Option {
	return func(p *Pipeline) { p.fallback = f }
}

// New builds a pipeline from configuration. The fallback strategy is wired
// only when a recognition endpoint is configured; without one a primary
// failure is final.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "configuration is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	p := &Pipeline{
		cfg:       cfg,
		logger:    logger,
		extractor: extract.New(cfg.FFmpegBinary(), logger),
		writer:    compose.NewWriter(logger),
		probe:     ffprobe.Inspect,
	}

	whisperService, err := whisper.NewService(cfg.Transcription, logger)
	if err != nil {
		return nil, err
	}
	p.primary = func(workDir string) (transcribe.Transcriber, error) {
		return transcribe.NewWhisperTranscriber(whisperService, workDir, logger), nil
	}

	if cfg.FallbackConfigured() {
		client, err := recognition.NewClient(cfg.Recognition)
		if err != nil {
			return nil, err
		}
		p.fallback = func(workDir string) (transcribe.Transcriber, error) {
			return transcribe.NewFallbackTranscriber(client, cfg.Silence, workDir, logger), nil
		}
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	State    State
	Output   string
	Segments int
	Source   string
	Elapsed  time.Duration
}

// Run executes the pipeline for one input/output pair. Intermediate files
// live in a per-run workspace directory that is removed on every exit path
// (kept only when workspace.keep_on_failure is set and the run failed).
func (p *Pipeline) Run(ctx context.Context, input, output string) (result *Result, err error) {
	started := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)

	result = &Result{RunID: runID, State: StateInit}
	defer func() {
		result.Elapsed = time.Since(started)
	}()

	if input, err = config.ExpandPath(input); err != nil {
		result.State = StateFailed
		return result, services.Wrap(services.ErrMediaRead, "pipeline", "resolve", "resolve input path", err)
	}
	if output, err = config.ExpandPath(output); err != nil {
		result.State = StateFailed
		return result, services.Wrap(services.ErrEncode, "pipeline", "resolve", "resolve output path", err)
	}
	result.Output = output

	if _, statErr := os.Stat(input); statErr != nil {
		result.State = StateFailed
		return result, services.Wrap(services.ErrMediaRead, "pipeline", "resolve", fmt.Sprintf("input file %s does not exist", input), statErr)
	}

	probe, probeErr := p.probe(ctx, p.cfg.FFprobeBinary(), input)
	if probeErr != nil {
		result.State = StateFailed
		return result, services.Wrap(services.ErrMediaRead, "pipeline", "probe", "inspect input", probeErr)
	}
	frameW, frameH, ok := probe.VideoDimensions()
	if !ok {
		result.State = StateFailed
		return result, services.Wrap(services.ErrMediaRead, "pipeline", "probe", "input has no video stream", nil)
	}
	if probe.AudioStreamCount() == 0 {
		result.State = StateFailed
		return result, services.Wrap(services.ErrMediaRead, "pipeline", "probe", "input has no audio stream", nil)
	}

	workDir := filepath.Join(p.cfg.Workspace.Root, "capgen-"+runID)
	if mkErr := os.MkdirAll(workDir, 0o755); mkErr != nil {
		result.State = StateFailed
		return result, services.Wrap(services.ErrPipeline, "pipeline", "workspace", "create workspace", mkErr)
	}
	defer func() {
		if err != nil && p.cfg.Workspace.KeepOnFailure {
			logger.Warn("keeping workspace for inspection", logging.String("workspace", workDir))
			return
		}
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logger.Warn("workspace cleanup failed", logging.Error(rmErr))
		}
	}()

	logger.Info("run started",
		logging.String("input", input),
		logging.String("output", output),
		logging.String("workspace", workDir),
		logging.Int("frame_width", frameW),
		logging.Int("frame_height", frameH),
		logging.Float64("duration_seconds", probe.DurationSeconds()),
	)

	audioPath := filepath.Join(workDir, "audio.wav")
	if err = p.runStage(ctx, stageExtract, func(stageCtx context.Context) error {
		return p.extractor.Audio(stageCtx, input, audioPath)
	}, result, StateAudioExtracted); err != nil {
		return result, err
	}

	var transcript *transcribe.Transcript
	if err = p.runStage(ctx, stageTranscribe, func(stageCtx context.Context) error {
		var trErr error
		transcript, trErr = p.transcribe(stageCtx, audioPath, workDir)
		return trErr
	}, result, StateTranscribed); err != nil {
		return result, err
	}
	result.Segments = len(transcript.Segments)
	result.Source = transcript.Source

	assPath := filepath.Join(workDir, "captions.ass")
	if err = p.runStage(ctx, stageRender, func(stageCtx context.Context) error {
		layout, layoutErr := captions.NewLayout(frameW, frameH, p.cfg.Captions)
		if layoutErr != nil {
			return layoutErr
		}
		overlays := captions.Render(transcript, layout)
		doc := captions.BuildASS(overlays, layout)
		if writeErr := os.WriteFile(assPath, []byte(doc), 0o644); writeErr != nil {
			return services.Wrap(services.ErrRenderResource, stageRender, "write", "write caption document", writeErr)
		}
		return nil
	}, result, StateRendered); err != nil {
		return result, err
	}

	var plan compose.Plan
	if err = p.runStage(ctx, stageCompose, func(stageCtx context.Context) error {
		var planErr error
		plan, planErr = compose.BuildPlan(p.cfg.FFmpegBinary(), input, assPath, output, probe, p.cfg.Output)
		return planErr
	}, result, StateComposited); err != nil {
		return result, err
	}

	if err = p.runStage(ctx, stageWrite, func(stageCtx context.Context) error {
		return p.writer.Write(stageCtx, plan)
	}, result, StateWritten); err != nil {
		return result, err
	}

	result.State = StateDone
	logger.Info("run complete",
		logging.String("output", output),
		logging.Int("segments", result.Segments),
		logging.String("transcriber", result.Source),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// transcribe applies the fallback policy: try the primary strategy, and on
// any failure or an empty result retry the entire transcription with the
// fallback. Results from the two strategies are never combined.
func (p *Pipeline) transcribe(ctx context.Context, audioPath, workDir string) (*transcribe.Transcript, error) {
	logger := logging.WithContext(ctx, p.logger)

	var primaryErr error
	if p.primary != nil {
		transcriber, err := p.primary(workDir)
		if err != nil {
			primaryErr = err
		} else {
			transcript, err := transcriber.Transcribe(ctx, audioPath)
			switch {
			case err != nil:
				primaryErr = err
			case transcript.Empty():
				primaryErr = services.Wrap(services.ErrUnrecognizedSpeech, stageTranscribe, transcriber.Name(), "no speech detected", nil)
			default:
				logger.Info("transcription complete",
					logging.String("strategy", transcriber.Name()),
					logging.Int("segments", len(transcript.Segments)),
				)
				return transcript, nil
			}
		}
	}

	if p.fallback == nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, services.Wrap(services.ErrTranscription, stageTranscribe, "policy", "no transcription strategy configured", nil)
	}

	if primaryErr != nil {
		logger.Warn("primary transcription failed; retrying with fallback", logging.Error(primaryErr))
	}

	transcriber, err := p.fallback(workDir)
	if err != nil {
		return nil, err
	}
	transcript, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	if transcript.Empty() {
		return nil, services.Wrap(services.ErrUnrecognizedSpeech, stageTranscribe, transcriber.Name(), "no speech detected", nil)
	}
	logger.Info("transcription complete",
		logging.String("strategy", transcriber.Name()),
		logging.Int("segments", len(transcript.Segments)),
	)
	return transcript, nil
}

func (p *Pipeline) runStage(ctx context.Context, name string, fn func(context.Context) error, result *Result, next State) error {
	stageCtx := logging.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, p.logger)

	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
	)
	started := time.Now()

	if err := fn(stageCtx); err != nil {
		result.State = StateFailed
		details := services.Details(err)
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("error_kind", details.Kind),
			logging.String("error_message", details.Message),
			logging.Duration("elapsed", time.Since(started)),
		)
		return err
	}

	result.State = next
	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}
