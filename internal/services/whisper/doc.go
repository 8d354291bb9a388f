// Package whisper shells out to a local Whisper-style speech model CLI and
// parses its JSON segment output. It is the primary transcription strategy;
// failures here are reported as transcription errors so the pipeline can
// retry with the recognition fallback.
package whisper
