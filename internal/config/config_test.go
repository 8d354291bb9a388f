package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"capgen/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Transcription.Model != "base" {
		t.Fatalf("unexpected default model: %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Command != "whisper" {
		t.Fatalf("unexpected default command: %q", cfg.Transcription.Command)
	}
	if cfg.Workspace.Root == "" {
		t.Fatal("expected workspace root to be populated")
	}
	if !filepath.IsAbs(cfg.Workspace.Root) {
		t.Fatalf("expected absolute workspace root, got %q", cfg.Workspace.Root)
	}
	if cfg.FallbackConfigured() {
		t.Fatal("expected fallback disabled by default")
	}
	if cfg.Silence.MinSilenceMs != 500 || cfg.Silence.KeepSilenceMs != 500 {
		t.Fatalf("unexpected silence defaults: %+v", cfg.Silence)
	}
	if cfg.Silence.ThresholdOffsetDB != 14.0 {
		t.Fatalf("unexpected threshold offset: %v", cfg.Silence.ThresholdOffsetDB)
	}
	if cfg.Captions.FontSize != 50 || cfg.Captions.Font != "Arial" || !cfg.Captions.Bold {
		t.Fatalf("unexpected caption defaults: %+v", cfg.Captions)
	}
	if cfg.Captions.WidthRatio != 0.80 || cfg.Captions.HeightAnchor != 0.85 {
		t.Fatalf("unexpected caption geometry defaults: %+v", cfg.Captions)
	}
	if cfg.Output.VideoCodec != "libx264" || cfg.Output.AudioCodec != "aac" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "capgen.toml")

	type payload struct {
		Transcription struct {
			Model   string `toml:"model"`
			Command string `toml:"command"`
		} `toml:"transcription"`
		Recognition struct {
			URL   string `toml:"url"`
			Model string `toml:"model"`
		} `toml:"recognition"`
		Captions struct {
			FontSize int `toml:"font_size"`
		} `toml:"captions"`
	}
	custom := payload{}
	custom.Transcription.Model = "Small"
	custom.Transcription.Command = "uvx whisper"
	custom.Recognition.URL = "https://stt.example.com/v1/audio/transcriptions"
	custom.Recognition.Model = "whisper-large"
	custom.Captions.FontSize = 36
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("expected model lowered to small, got %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Command != "uvx whisper" {
		t.Fatalf("expected command override, got %q", cfg.Transcription.Command)
	}
	if !cfg.FallbackConfigured() {
		t.Fatal("expected fallback configured")
	}
	if cfg.Recognition.Model != "whisper-large" {
		t.Fatalf("expected recognition model override, got %q", cfg.Recognition.Model)
	}
	if cfg.Captions.FontSize != 36 {
		t.Fatalf("expected font size 36, got %d", cfg.Captions.FontSize)
	}
	// Unset sections keep defaults.
	if cfg.Output.VideoCodec != "libx264" {
		t.Fatalf("expected default video codec, got %q", cfg.Output.VideoCodec)
	}
}

func TestEnvVarProvidesRecognitionKey(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RECOGNITION_API_KEY", "env-secret")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Recognition.APIKey != "env-secret" {
		t.Fatalf("expected API key from env, got %q", cfg.Recognition.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "whisper") {
		t.Fatalf("sample config missing transcriber command: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Transcription.Model != "base" {
		t.Fatalf("expected sample to document the base model, got %q", cfg.Transcription.Model)
	}
}

func TestValidModel(t *testing.T) {
	for _, name := range []string{"tiny", "base", "small", "medium", "large", " Base "} {
		if !config.ValidModel(name) {
			t.Fatalf("expected %q to be valid", name)
		}
	}
	for _, name := range []string{"", "huge", "base.en"} {
		if config.ValidModel(name) {
			t.Fatalf("expected %q to be invalid", name)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Model = "huge"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown model")
	}

	cfg = config.Default()
	cfg.Recognition.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed recognition url")
	}

	cfg = config.Default()
	cfg.Silence.SeekStepMs = cfg.Silence.MinSilenceMs + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when seek step exceeds min silence")
	}

	cfg = config.Default()
	cfg.Captions.WidthRatio = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for width ratio above 1")
	}

	cfg = config.Default()
	cfg.Output.CRF = 99
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range crf")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
