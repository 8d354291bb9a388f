package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateRecognition(); err != nil {
		return err
	}
	if err := c.validateSilence(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	if !ValidModel(c.Transcription.Model) {
		return fmt.Errorf("transcription.model must be one of %s", strings.Join(ModelSizes, ", "))
	}
	if c.Transcription.Command == "" {
		return errors.New("transcription.command must be set")
	}
	return nil
}

func (c *Config) validateRecognition() error {
	if c.Recognition.URL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Recognition.URL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.New("recognition.url must be an http or https URL")
	}
	if c.Recognition.Model == "" {
		return errors.New("recognition.model must be set when recognition.url is set")
	}
	return nil
}

func (c *Config) validateSilence() error {
	if err := ensurePositiveMap(map[string]int{
		"silence.min_silence_ms": c.Silence.MinSilenceMs,
		"silence.seek_step_ms":   c.Silence.SeekStepMs,
	}); err != nil {
		return err
	}
	if c.Silence.SeekStepMs > c.Silence.MinSilenceMs {
		return errors.New("silence.seek_step_ms must not exceed silence.min_silence_ms")
	}
	if c.Silence.ThresholdOffsetDB <= 0 {
		return errors.New("silence.threshold_offset_db must be positive")
	}
	if c.Silence.KeepSilenceMs < 0 {
		return errors.New("silence.keep_silence_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.Font == "" {
		return errors.New("captions.font must be set")
	}
	if c.Captions.FontSize <= 0 {
		return errors.New("captions.font_size must be positive")
	}
	if c.Captions.OutlineWidth < 0 {
		return errors.New("captions.outline_width must be >= 0")
	}
	if c.Captions.WidthRatio <= 0 || c.Captions.WidthRatio > 1 {
		return errors.New("captions.width_ratio must be between 0 and 1")
	}
	if c.Captions.HeightAnchor < 0 || c.Captions.HeightAnchor >= 1 {
		return errors.New("captions.height_anchor must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.VideoCodec == "" {
		return errors.New("output.video_codec must be set")
	}
	if c.Output.AudioCodec == "" {
		return errors.New("output.audio_codec must be set")
	}
	if c.Output.CRF < 0 || c.Output.CRF > 51 {
		return errors.New("output.crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "auto", "pretty", "json":
	default:
		return errors.New("logging.format must be one of auto, pretty, json")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
