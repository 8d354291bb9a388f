package captions_test

import (
	"errors"
	"strings"
	"testing"

	"capgen/internal/captions"
	"capgen/internal/config"
	"capgen/internal/services"
	"capgen/internal/transcribe"
)

func captionConfig() config.Captions {
	return config.Captions{
		Font:         "Arial",
		FontSize:     50,
		Bold:         true,
		OutlineWidth: 2,
		WidthRatio:   0.80,
		HeightAnchor: 0.85,
	}
}

func newLayout(t *testing.T, w, h int) captions.Layout {
	t.Helper()
	layout, err := captions.NewLayout(w, h, captionConfig())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	return layout
}

func TestNewLayoutRejectsBadInput(t *testing.T) {
	if _, err := captions.NewLayout(0, 1080, captionConfig()); !errors.Is(err, services.ErrRenderResource) {
		t.Fatalf("expected render resource error for zero width, got %v", err)
	}
	cfg := captionConfig()
	cfg.Font = " "
	if _, err := captions.NewLayout(1920, 1080, cfg); !errors.Is(err, services.ErrRenderResource) {
		t.Fatalf("expected render resource error for blank font, got %v", err)
	}
}

func TestLayoutGeometry(t *testing.T) {
	layout := newLayout(t, 1920, 1080)

	x, y := layout.Anchor()
	if x != 960 {
		t.Fatalf("anchor x: got %d", x)
	}
	if y != 918 { // 85% of 1080
		t.Fatalf("anchor y: got %d", y)
	}

	// 80% of 1920 px at 30 px average glyph width.
	if budget := layout.MaxLineChars(); budget != 51 {
		t.Fatalf("line budget: got %d", budget)
	}
}

func TestWrapTextGreedy(t *testing.T) {
	lines := captions.WrapText("the quick brown fox jumps over the lazy dog", 15)
	want := []string{"the quick brown", "fox jumps over", "the lazy dog"}
	if len(lines) != len(want) {
		t.Fatalf("unexpected lines: %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapTextLongWord(t *testing.T) {
	lines := captions.WrapText("a pneumonoultramicroscopic b", 10)
	if len(lines) != 3 {
		t.Fatalf("expected over-long word on its own line, got %v", lines)
	}
	if lines[1] != "pneumonoultramicroscopic" {
		t.Fatalf("long word was broken: %v", lines)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if lines := captions.WrapText("   ", 10); lines != nil {
		t.Fatalf("expected nil for blank text, got %v", lines)
	}
}

func TestRenderPreservesOrderAndTiming(t *testing.T) {
	layout := newLayout(t, 1280, 720)
	transcript := &transcribe.Transcript{
		Segments: []transcribe.Segment{
			{Start: 1.0, End: 2.5, Text: "hello world"},
			{Start: 3.0, End: 4.25, Text: "second utterance"},
		},
	}

	overlays := captions.Render(transcript, layout)
	if len(overlays) != 2 {
		t.Fatalf("expected 2 overlays, got %d", len(overlays))
	}
	if overlays[0].Start != 1.0 || overlays[0].End != 2.5 {
		t.Fatalf("unexpected interval: %+v", overlays[0])
	}
	if overlays[0].X != 640 || overlays[0].Y != 612 {
		t.Fatalf("unexpected anchor: %+v", overlays[0])
	}
	if overlays[1].Start < overlays[0].Start {
		t.Fatal("overlays out of order")
	}
}

func TestBuildASSDocument(t *testing.T) {
	layout := newLayout(t, 1920, 1080)
	transcript := &transcribe.Transcript{
		Segments: []transcribe.Segment{{Start: 1.0, End: 2.5, Text: "hello world"}},
	}
	doc := captions.BuildASS(captions.Render(transcript, layout), layout)

	for _, want := range []string{
		"PlayResX: 1920",
		"PlayResY: 1080",
		"Style: Caption,Arial,50,&H00FFFFFF,",
		",-1,0,0,0,100,100,0,0,1,2,0,8,",
		"Dialogue: 0,0:00:01.00,0:00:02.50,Caption,,0,0,0,,{\\pos(960,918)}hello world",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestBuildASSMultiLineAndSanitization(t *testing.T) {
	layout := newLayout(t, 640, 480)
	transcript := &transcribe.Transcript{
		Segments: []transcribe.Segment{
			{Start: 0, End: 65.25, Text: "some {braces} and a much longer sentence that must wrap across lines"},
		},
	}
	doc := captions.BuildASS(captions.Render(transcript, layout), layout)

	if strings.Contains(doc, "{braces}") {
		t.Fatal("braces were not sanitized")
	}
	if !strings.Contains(doc, "(braces)") {
		t.Fatalf("sanitized text missing:\n%s", doc)
	}
	if !strings.Contains(doc, "\\N") {
		t.Fatalf("expected explicit line break in:\n%s", doc)
	}
	if !strings.Contains(doc, "0:01:05.25") {
		t.Fatalf("expected H:MM:SS.CC timestamp in:\n%s", doc)
	}
}
