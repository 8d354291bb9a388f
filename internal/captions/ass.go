package captions

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"capgen/internal/transcribe"
)

// Overlay is one renderable caption: wrapped text lines positioned at the
// layout anchor, visible during [Start, End).
type Overlay struct {
	Lines []string
	Start float64
	End   float64
	X     int
	Y     int
}

// Render maps each transcript segment to an overlay, preserving segment
// order. Text is normalized to NFC before measuring and wrapping so combining
// characters don't inflate line budgets.
func Render(transcript *transcribe.Transcript, layout Layout) []Overlay {
	if transcript == nil {
		return nil
	}
	x, y := layout.Anchor()
	budget := layout.MaxLineChars()

	overlays := make([]Overlay, 0, len(transcript.Segments))
	for _, seg := range transcript.Segments {
		lines := WrapText(norm.NFC.String(seg.Text), budget)
		if len(lines) == 0 {
			continue
		}
		overlays = append(overlays, Overlay{
			Lines: lines,
			Start: seg.Start,
			End:   seg.End,
			X:     x,
			Y:     y,
		})
	}
	return overlays
}

const assStyleName = "Caption"

// BuildASS serializes overlays as an ASS subtitle document sized to the
// layout's frame. One Dialogue event per overlay; position is pinned with a
// \pos override so players don't re-flow the text.
func BuildASS(overlays []Overlay, layout Layout) string {
	var doc strings.Builder

	doc.WriteString("[Script Info]\n")
	doc.WriteString("Title: Generated captions\n")
	doc.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&doc, "PlayResX: %d\n", layout.FrameWidth)
	fmt.Fprintf(&doc, "PlayResY: %d\n", layout.FrameHeight)
	doc.WriteString("WrapStyle: 2\n")
	doc.WriteString("ScaledBorderAndShadow: yes\n\n")

	bold := 0
	if layout.Style.Bold {
		bold = -1
	}
	doc.WriteString("[V4+ Styles]\n")
	doc.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&doc, "Style: %s,%s,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,%d,0,0,0,100,100,0,0,1,%d,0,8,0,0,0,1\n\n",
		assStyleName, layout.Style.Font, layout.Style.Size, bold, layout.Style.OutlineWidth)

	doc.WriteString("[Events]\n")
	doc.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, overlay := range overlays {
		text := make([]string, 0, len(overlay.Lines))
		for _, line := range overlay.Lines {
			text = append(text, sanitizeASSText(line))
		}
		fmt.Fprintf(&doc, "Dialogue: 0,%s,%s,%s,,0,0,0,,{\\pos(%d,%d)}%s\n",
			assTimestamp(overlay.Start),
			assTimestamp(overlay.End),
			assStyleName,
			overlay.X,
			overlay.Y,
			strings.Join(text, "\\N"),
		)
	}

	return doc.String()
}

// assTimestamp formats seconds as H:MM:SS.CC (centisecond precision).
func assTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int(math.Round(seconds * 100))
	hours := centis / 360000
	centis -= hours * 360000
	minutes := centis / 6000
	centis -= minutes * 6000
	secs := centis / 100
	centis -= secs * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

// sanitizeASSText strips characters that would open override blocks or break
// the single-line Dialogue format.
func sanitizeASSText(text string) string {
	replacer := strings.NewReplacer(
		"{", "(",
		"}", ")",
		"\r", " ",
		"\n", " ",
	)
	return strings.TrimSpace(replacer.Replace(text))
}
