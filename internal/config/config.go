package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Workspace contains configuration for the per-run scratch directory.
type Workspace struct {
	// Root is the parent directory for run workspaces. Empty means the
	// system temp directory.
	Root string `toml:"root"`
	// KeepOnFailure leaves the workspace in place after a failed run so
	// intermediate artifacts can be inspected.
	KeepOnFailure bool `toml:"keep_on_failure"`
}

// Transcription contains configuration for the primary model-based transcriber.
type Transcription struct {
	// Model is the model size passed to the transcriber CLI. One of tiny,
	// base, small, medium, large.
	Model string `toml:"model"`
	// Command is the transcriber command line. It may carry arguments
	// ("uvx whisper"); the audio path and output flags are appended.
	Command string `toml:"command"`
	// Language forces a source language instead of auto-detection.
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Recognition contains configuration for the fallback speech recognition service.
type Recognition struct {
	// URL points at an OpenAI-compatible transcription endpoint. Empty
	// disables the fallback path entirely.
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Silence contains tuning for the silence-based chunker used by the fallback
// transcriber.
type Silence struct {
	MinSilenceMs int `toml:"min_silence_ms"`
	// ThresholdOffsetDB is subtracted from the track's average loudness to
	// derive the silence threshold.
	ThresholdOffsetDB float64 `toml:"threshold_offset_db"`
	KeepSilenceMs     int     `toml:"keep_silence_ms"`
	SeekStepMs        int     `toml:"seek_step_ms"`
}

// Captions contains the caption style and geometry settings.
type Captions struct {
	Font         string `toml:"font"`
	FontSize     int    `toml:"font_size"`
	Bold         bool   `toml:"bold"`
	OutlineWidth int    `toml:"outline_width"`
	// WidthRatio is the fraction of the frame width captions may occupy
	// before wrapping.
	WidthRatio float64 `toml:"width_ratio"`
	// HeightAnchor is the fraction of the frame height at which caption
	// lines start.
	HeightAnchor float64 `toml:"height_anchor"`
}

// Output contains encoder settings for the final write.
type Output struct {
	VideoCodec string `toml:"video_codec"`
	AudioCodec string `toml:"audio_codec"`
	Preset     string `toml:"preset"`
	// CRF of 0 leaves rate control to the encoder default.
	CRF int `toml:"crf"`
}

// Tools contains external binary overrides. Empty values fall back to PATH
// lookups of the standard names.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for capgen.
//
// Configuration sections by subsystem:
//   - Workspace: per-run scratch directory placement and retention
//   - Transcription: primary model-based transcriber CLI
//   - Recognition: fallback remote speech recognition endpoint
//   - Silence: chunker tuning for the fallback path
//   - Captions: style and geometry of burned-in captions
//   - Output: final encode codecs and rate control
//   - Tools: ffmpeg/ffprobe binary overrides
//   - Logging: log format, level, and optional file mirror
type Config struct {
	Workspace     Workspace     `toml:"workspace"`
	Transcription Transcription `toml:"transcription"`
	Recognition   Recognition   `toml:"recognition"`
	Silence       Silence       `toml:"silence"`
	Captions      Captions      `toml:"captions"`
	Output        Output        `toml:"output"`
	Tools         Tools         `toml:"tools"`
	Logging       Logging       `toml:"logging"`
}

// ModelSizes lists the accepted transcription model sizes in ascending cost
// order.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large"}

// ValidModel reports whether name is an accepted transcription model size.
func ValidModel(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, size := range ModelSizes {
		if name == size {
			return true
		}
	}
	return false
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/capgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually read; when none exists the defaults are
// returned validated.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("capgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// FallbackConfigured reports whether the remote recognition fallback can run.
func (c *Config) FallbackConfigured() bool {
	return strings.TrimSpace(c.Recognition.URL) != ""
}

// FFmpegBinary returns the configured ffmpeg binary or the standard name.
func (c *Config) FFmpegBinary() string {
	if v := strings.TrimSpace(c.Tools.FFmpeg); v != "" {
		return v
	}
	return "ffmpeg"
}

// FFprobeBinary returns the configured ffprobe binary or the standard name.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Tools.FFprobe); v != "" {
		return v
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
