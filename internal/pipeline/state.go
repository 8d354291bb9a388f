package pipeline

// State tracks run progress through the five sequential stages. Any stage
// failure moves the run to StateFailed; there are no other transitions out
// of order.
type State string

const (
	StateInit           State = "init"
	StateAudioExtracted State = "audio_extracted"
	StateTranscribed    State = "transcribed"
	StateRendered       State = "rendered"
	StateComposited     State = "composited"
	StateWritten        State = "written"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Stage names used for context stamping and log events.
const (
	stageExtract    = "extract"
	stageTranscribe = "transcribe"
	stageRender     = "render"
	stageCompose    = "compose"
	stageWrite      = "write"
)
