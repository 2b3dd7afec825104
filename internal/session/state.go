package session

// State is the phase of the request currently driven by a Controller.
type State string

const (
	// StateIdle is the resting state before a send and after a request settles.
	StateIdle     State = "idle"
	StateThinking State = "thinking"
	StateToolCall State = "tool_call"
	// StateComplete and StateError are passed through on the way back to idle.
	StateComplete State = "complete"
	StateError    State = "error"
)

func progressState(kind EventKind) State {
	if kind == EventToolCall {
		return StateToolCall
	}
	return StateThinking
}
