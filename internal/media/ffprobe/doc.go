// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Inspect executes ffprobe and returns a parsed Result. Helper methods on
// Result expose stream counts, the video resolution used for caption layout,
// and numeric parsing of duration, size, and bitrate.
package ffprobe
