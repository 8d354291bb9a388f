package transcribe

import "context"

// Segment is a contiguous span of transcribed speech. Times are seconds from
// the start of the audio track.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Transcript is an ordered list of segments plus provenance. Source names the
// strategy that produced it.
type Transcript struct {
	Segments []Segment
	Language string
	Source   string
}

// Empty reports whether the transcript carries no usable speech.
func (t *Transcript) Empty() bool {
	return t == nil || len(t.Segments) == 0
}

// Transcriber converts an audio file into a transcript. Implementations must
// return an empty transcript, not an error, when the audio simply contains
// no speech they can attribute to a failure.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcript, error)
	Name() string
}
