package whisper_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"capgen/internal/config"
	"capgen/internal/logging"
	"capgen/internal/services"
	"capgen/internal/services/whisper"
)

func newService(t *testing.T, cfg config.Transcription) *whisper.Service {
	t.Helper()
	svc, err := whisper.NewService(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRejectsEmptyCommand(t *testing.T) {
	_, err := whisper.NewService(config.Transcription{Model: "base", Command: "   "}, logging.NewNop())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribeBuildsCommandAndParsesOutput(t *testing.T) {
	outputDir := t.TempDir()
	audio := filepath.Join(t.TempDir(), "speech.wav")

	svc := newService(t, config.Transcription{
		Model:   "small",
		Command: "uvx whisper",
	})

	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		payload := `{"language":"en","segments":[
			{"start":0.0,"end":1.5,"text":" hello world "},
			{"start":1.5,"end":2.0,"text":"   "},
			{"start":2.0,"end":3.25,"text":"second line"}
		]}`
		return os.WriteFile(filepath.Join(outputDir, "speech.json"), []byte(payload), 0o644)
	})

	result, err := svc.Transcribe(context.Background(), audio, outputDir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if gotName != "uvx" {
		t.Fatalf("unexpected binary: %q", gotName)
	}
	want := []string{
		"whisper", audio,
		"--model", "small",
		"--output_format", "json",
		"--output_dir", outputDir,
	}
	if len(gotArgs) != len(want) {
		t.Fatalf("unexpected args: got %v want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Fatalf("arg %d: got %q want %q", i, gotArgs[i], want[i])
		}
	}

	if result.Language != "en" {
		t.Fatalf("unexpected language: %q", result.Language)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected blank segment dropped, got %d segments", len(result.Segments))
	}
	if result.Segments[0].Text != "hello world" {
		t.Fatalf("expected trimmed text, got %q", result.Segments[0].Text)
	}
	if result.Segments[1].Start != 2.0 || result.Segments[1].End != 3.25 {
		t.Fatalf("unexpected timing: %+v", result.Segments[1])
	}
}

func TestTranscribeAppendsLanguageFlag(t *testing.T) {
	outputDir := t.TempDir()
	svc := newService(t, config.Transcription{Model: "base", Command: "whisper", Language: "fr"})

	var gotArgs []string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(filepath.Join(outputDir, "audio.json"), []byte(`{"segments":[]}`), 0o644)
	})

	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "audio.wav"), outputDir); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	joined := ""
	for i := 0; i+1 < len(gotArgs); i++ {
		if gotArgs[i] == "--language" {
			joined = gotArgs[i+1]
		}
	}
	if joined != "fr" {
		t.Fatalf("expected --language fr in %v", gotArgs)
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	svc := newService(t, config.Transcription{Model: "base", Command: "whisper"})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 2: model not found")
	})

	_, err := svc.Transcribe(context.Background(), "audio.wav", t.TempDir())
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	svc := newService(t, config.Transcription{Model: "base", Command: "whisper"})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil // succeed without writing the JSON file
	})

	_, err := svc.Transcribe(context.Background(), "audio.wav", t.TempDir())
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
}
