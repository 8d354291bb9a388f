// Package extract shells out to ffmpeg to pull a video's audio track into
// the mono 16 kHz PCM WAV format the transcription strategies expect.
package extract
