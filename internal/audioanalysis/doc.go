// Package audioanalysis measures PCM loudness and splits tracks on spans of
// silence. The fallback transcription strategy uses it to divide extracted
// audio into utterance-sized chunks before sending each one to the remote
// recognition service.
package audioanalysis
