// Package transcribe turns extracted audio into timed subtitle segments.
//
// Two interchangeable strategies implement the Transcriber interface: a
// model-based transcriber that hands the whole file to a local Whisper CLI,
// and a fallback that splits the track on silence and sends each chunk to a
// remote recognition service. The pipeline tries the primary first and
// retries the entire transcription with the fallback on failure; results
// from the two strategies are never combined.
package transcribe
