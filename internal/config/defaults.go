package config

const (
	defaultModel              = "base"
	defaultTranscribeCommand  = "whisper"
	defaultTranscribeTimeout  = 1800
	defaultRecognitionModel   = "whisper-1"
	defaultRecognitionTimeout = 60
	defaultMinSilenceMs       = 500
	defaultThresholdOffsetDB  = 14.0
	defaultKeepSilenceMs      = 500
	defaultSeekStepMs         = 10
	defaultCaptionFont        = "Arial"
	defaultCaptionFontSize    = 50
	defaultCaptionOutline     = 2
	defaultCaptionWidthRatio  = 0.80
	defaultCaptionAnchor      = 0.85
	defaultVideoCodec         = "libx264"
	defaultAudioCodec         = "aac"
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults. Every field
// carries a working value so the tool runs without a config file.
func Default() Config {
	return Config{
		Transcription: Transcription{
			Model:          defaultModel,
			Command:        defaultTranscribeCommand,
			TimeoutSeconds: defaultTranscribeTimeout,
		},
		Recognition: Recognition{
			Model:          defaultRecognitionModel,
			TimeoutSeconds: defaultRecognitionTimeout,
		},
		Silence: Silence{
			MinSilenceMs:      defaultMinSilenceMs,
			ThresholdOffsetDB: defaultThresholdOffsetDB,
			KeepSilenceMs:     defaultKeepSilenceMs,
			SeekStepMs:        defaultSeekStepMs,
		},
		Captions: Captions{
			Font:         defaultCaptionFont,
			FontSize:     defaultCaptionFontSize,
			Bold:         true,
			OutlineWidth: defaultCaptionOutline,
			WidthRatio:   defaultCaptionWidthRatio,
			HeightAnchor: defaultCaptionAnchor,
		},
		Output: Output{
			VideoCodec: defaultVideoCodec,
			AudioCodec: defaultAudioCodec,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
