package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMediaRead          = errors.New("media read error")
	ErrTranscription      = errors.New("transcription error")
	ErrUnrecognizedSpeech = errors.New("unrecognized speech")
	ErrRecognitionService = errors.New("recognition service error")
	ErrRenderResource     = errors.New("render resource error")
	ErrComposition        = errors.New("composition error")
	ErrEncode             = errors.New("encode error")
	ErrConfiguration      = errors.New("configuration error")
	ErrPipeline           = errors.New("pipeline error")
)

// markerKinds pairs each sentinel with the stable kind label used in logs
// and failure summaries. Order matters: the first match wins, so the more
// specific markers come before ErrPipeline.
var markerKinds = []struct {
	marker error
	kind   string
}{
	{ErrMediaRead, "media_read"},
	{ErrTranscription, "transcription"},
	{ErrUnrecognizedSpeech, "unrecognized_speech"},
	{ErrRecognitionService, "recognition_service"},
	{ErrRenderResource, "render_resource"},
	{ErrComposition, "composition"},
	{ErrEncode, "encode"},
	{ErrConfiguration, "configuration"},
	{ErrPipeline, "pipeline"},
}

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrPipeline
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureDetails describes a classified failure for log fields and the CLI
// failure banner.
type FailureDetails struct {
	Kind    string
	Message string
}

// Details classifies err against the sentinel markers and strips the marker
// prefix from the message so callers can present the human detail alone.
func Details(err error) FailureDetails {
	if err == nil {
		return FailureDetails{}
	}
	out := FailureDetails{Kind: "pipeline", Message: strings.TrimSpace(err.Error())}
	for _, entry := range markerKinds {
		if !errors.Is(err, entry.marker) {
			continue
		}
		out.Kind = entry.kind
		prefix := entry.marker.Error() + ": "
		if trimmed, ok := strings.CutPrefix(out.Message, prefix); ok {
			out.Message = trimmed
		}
		break
	}
	return out
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
