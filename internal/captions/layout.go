package captions

import (
	"strings"
	"unicode/utf8"

	"capgen/internal/config"
	"capgen/internal/services"
)

// glyphWidthFactor approximates the average glyph width as a fraction of the
// font size for proportional sans-serif fonts. It converts the pixel wrap
// budget into a per-line character budget.
const glyphWidthFactor = 0.6

// Style carries the visual caption attributes.
type Style struct {
	Font         string
	Size         int
	Bold         bool
	OutlineWidth int
}

// Layout fixes caption geometry against a concrete video frame: wrap width
// as a fraction of frame width, anchor at a fraction of frame height,
// centered horizontally.
type Layout struct {
	FrameWidth   int
	FrameHeight  int
	WidthRatio   float64
	HeightAnchor float64
	Style        Style
}

// NewLayout binds the configured caption style to the video's dimensions.
func NewLayout(frameWidth, frameHeight int, cfg config.Captions) (Layout, error) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return Layout{}, services.Wrap(services.ErrRenderResource, "captions", "layout", "frame dimensions unavailable", nil)
	}
	if strings.TrimSpace(cfg.Font) == "" || cfg.FontSize <= 0 {
		return Layout{}, services.Wrap(services.ErrRenderResource, "captions", "layout", "caption font is not configured", nil)
	}
	return Layout{
		FrameWidth:   frameWidth,
		FrameHeight:  frameHeight,
		WidthRatio:   cfg.WidthRatio,
		HeightAnchor: cfg.HeightAnchor,
		Style: Style{
			Font:         cfg.Font,
			Size:         cfg.FontSize,
			Bold:         cfg.Bold,
			OutlineWidth: cfg.OutlineWidth,
		},
	}, nil
}

// MaxLineChars returns the per-line character budget derived from the wrap
// width and the font size.
func (l Layout) MaxLineChars() int {
	budget := int(float64(l.FrameWidth) * l.WidthRatio / (float64(l.Style.Size) * glyphWidthFactor))
	if budget < 1 {
		budget = 1
	}
	return budget
}

// Anchor returns the caption anchor point: horizontal center, fixed fraction
// of the frame height.
func (l Layout) Anchor() (x, y int) {
	return l.FrameWidth / 2, int(float64(l.FrameHeight) * l.HeightAnchor)
}

// WrapText breaks text into lines of at most maxChars characters using
// greedy word wrapping. A single word longer than the budget occupies its
// own line; words are never broken mid-run.
func WrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxChars {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	lines = append(lines, current)
	return lines
}
