package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeWorkspace(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeRecognition()
	c.normalizeSilence()
	c.normalizeCaptions()
	c.normalizeOutput()
	c.normalizeTools()
	return c.normalizeLogging()
}

func (c *Config) normalizeWorkspace() error {
	var err error
	if strings.TrimSpace(c.Workspace.Root) == "" {
		c.Workspace.Root = os.TempDir()
	}
	if c.Workspace.Root, err = expandPath(c.Workspace.Root); err != nil {
		return fmt.Errorf("workspace.root: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.ToLower(strings.TrimSpace(c.Transcription.Model))
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.Command = strings.TrimSpace(c.Transcription.Command)
	if c.Transcription.Command == "" {
		c.Transcription.Command = defaultTranscribeCommand
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscribeTimeout
	}
}

func (c *Config) normalizeRecognition() {
	c.Recognition.URL = strings.TrimSpace(c.Recognition.URL)
	c.Recognition.APIKey = strings.TrimSpace(c.Recognition.APIKey)
	if c.Recognition.APIKey == "" {
		if value, ok := os.LookupEnv("RECOGNITION_API_KEY"); ok {
			c.Recognition.APIKey = strings.TrimSpace(value)
		}
	}
	c.Recognition.Model = strings.TrimSpace(c.Recognition.Model)
	if c.Recognition.Model == "" {
		c.Recognition.Model = defaultRecognitionModel
	}
	c.Recognition.Language = strings.ToLower(strings.TrimSpace(c.Recognition.Language))
	if c.Recognition.TimeoutSeconds <= 0 {
		c.Recognition.TimeoutSeconds = defaultRecognitionTimeout
	}
}

func (c *Config) normalizeSilence() {
	if c.Silence.MinSilenceMs <= 0 {
		c.Silence.MinSilenceMs = defaultMinSilenceMs
	}
	if c.Silence.ThresholdOffsetDB <= 0 {
		c.Silence.ThresholdOffsetDB = defaultThresholdOffsetDB
	}
	if c.Silence.KeepSilenceMs < 0 {
		c.Silence.KeepSilenceMs = defaultKeepSilenceMs
	}
	if c.Silence.SeekStepMs <= 0 {
		c.Silence.SeekStepMs = defaultSeekStepMs
	}
}

func (c *Config) normalizeCaptions() {
	c.Captions.Font = strings.TrimSpace(c.Captions.Font)
	if c.Captions.Font == "" {
		c.Captions.Font = defaultCaptionFont
	}
	if c.Captions.FontSize <= 0 {
		c.Captions.FontSize = defaultCaptionFontSize
	}
	if c.Captions.OutlineWidth < 0 {
		c.Captions.OutlineWidth = defaultCaptionOutline
	}
	if c.Captions.WidthRatio <= 0 {
		c.Captions.WidthRatio = defaultCaptionWidthRatio
	}
	if c.Captions.HeightAnchor <= 0 {
		c.Captions.HeightAnchor = defaultCaptionAnchor
	}
}

func (c *Config) normalizeOutput() {
	c.Output.VideoCodec = strings.TrimSpace(c.Output.VideoCodec)
	if c.Output.VideoCodec == "" {
		c.Output.VideoCodec = defaultVideoCodec
	}
	c.Output.AudioCodec = strings.TrimSpace(c.Output.AudioCodec)
	if c.Output.AudioCodec == "" {
		c.Output.AudioCodec = defaultAudioCodec
	}
	c.Output.Preset = strings.TrimSpace(c.Output.Preset)
	if c.Output.CRF < 0 {
		c.Output.CRF = 0
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
