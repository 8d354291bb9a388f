package compose

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"capgen/internal/config"
	"capgen/internal/media/ffprobe"
	"capgen/internal/services"
)

// Plan is a validated ffmpeg invocation that burns a caption document onto
// the source video while passing the original audio through re-encoded to
// the configured codec.
type Plan struct {
	FFmpegBinary string
	Input        string
	Subtitles    string
	Output       string
	args         []string
}

// BuildPlan validates the composition inputs against the probe result and
// assembles the encode arguments. The destination path is not part of the
// argument list; the writer appends its temporary path when executing.
func BuildPlan(ffmpegBinary, input, subtitlesPath, output string, probe ffprobe.Result, out config.Output) (Plan, error) {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(output) == "" {
		return Plan{}, services.Wrap(services.ErrComposition, "compose", "plan", "input and output paths are required", nil)
	}
	if probe.VideoStreamCount() == 0 {
		return Plan{}, services.Wrap(services.ErrComposition, "compose", "plan", "source has no video stream", nil)
	}
	if _, _, ok := probe.VideoDimensions(); !ok {
		return Plan{}, services.Wrap(services.ErrComposition, "compose", "plan", "source video dimensions unavailable", nil)
	}
	info, err := os.Stat(subtitlesPath)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrComposition, "compose", "plan", "caption document missing", err)
	}
	if info.Size() == 0 {
		return Plan{}, services.Wrap(services.ErrComposition, "compose", "plan", "caption document is empty", nil)
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-vf", "ass=" + escapeFilterPath(subtitlesPath),
		"-c:v", out.VideoCodec,
		"-c:a", out.AudioCodec,
	}
	if out.Preset != "" {
		args = append(args, "-preset", out.Preset)
	}
	if out.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(out.CRF))
	}

	return Plan{
		FFmpegBinary: ffmpegBinary,
		Input:        input,
		Subtitles:    subtitlesPath,
		Output:       output,
		args:         args,
	}, nil
}

// CommandArgs returns the full argument list writing to dest.
func (p Plan) CommandArgs(dest string) []string {
	return append(append([]string{}, p.args...), dest)
}

// escapeFilterPath escapes the characters ffmpeg's filter parser treats as
// structure so the subtitle path survives inside the -vf expression.
func escapeFilterPath(path string) string {
	var escaped strings.Builder
	for _, r := range path {
		switch r {
		case '\\', ':', ',', '\'', '[', ']', ';':
			escaped.WriteByte('\\')
		}
		escaped.WriteRune(r)
	}
	return escaped.String()
}

// Describe returns a human-readable one-line summary for logs.
func (p Plan) Describe() string {
	return fmt.Sprintf("%s + %s -> %s", p.Input, p.Subtitles, p.Output)
}
