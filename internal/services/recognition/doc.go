// Package recognition implements the HTTP client for the remote speech
// recognition service used by the fallback transcription strategy.
package recognition
