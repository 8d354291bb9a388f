// Package pipeline orchestrates the caption run: probe, audio extraction,
// transcription with primary/fallback policy, caption rendering, composition
// planning, and the final encode. Stages run sequentially in one goroutine;
// a failure at any stage aborts the run, and the per-run workspace is
// removed on every exit path.
package pipeline
