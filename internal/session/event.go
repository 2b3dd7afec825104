package session

import (
	"context"

	"github.com/raphaelgruber/opschat/internal/models"
)

// EventKind names a server-sent event. The names match the event field of
// the agent's stream.
type EventKind string

const (
	EventIdle     EventKind = "idle"
	EventThinking EventKind = "thinking"
	EventToolCall EventKind = "tool_call"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// IsTerminal reports whether the event ends a request.
func (k EventKind) IsTerminal() bool {
	return k == EventComplete || k == EventError
}

// Event is one incremental notification for an open request.
//
// Message carries the progress label for thinking and tool_call events.
// Envelope is set on complete events, Err on error events.
type Event struct {
	Kind     EventKind
	Message  string
	Envelope *models.ChatResponseEnvelope
	Err      error
}

// Streamer opens one streaming request to the agent and pushes its events,
// in arrival order, to handle. It returns once the stream is finished.
// A non-nil error with no terminal event delivered is treated as a failure.
type Streamer interface {
	Stream(ctx context.Context, req models.ChatRequest, handle func(Event)) error
}

// StreamerFunc adapts a function to the Streamer interface.
type StreamerFunc func(ctx context.Context, req models.ChatRequest, handle func(Event)) error

// Stream calls f.
func (f StreamerFunc) Stream(ctx context.Context, req models.ChatRequest, handle func(Event)) error {
	return f(ctx, req, handle)
}
