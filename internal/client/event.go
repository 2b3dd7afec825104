package client

import (
	"encoding/json"
	"fmt"

	"github.com/raphaelgruber/opschat/internal/models"
	"github.com/raphaelgruber/opschat/internal/session"
)

// progressPayload is the data of thinking and tool_call events.
type progressPayload struct {
	Message string `json:"message"`
}

// errorPayload is the data of error events.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeEvent maps a named server event onto a session event.
// ok is false for event names the client does not know.
func decodeEvent(name string, data []byte) (ev session.Event, ok bool, err error) {
	kind := session.EventKind(name)
	switch kind {
	case session.EventIdle:
		return session.Event{Kind: kind}, true, nil

	case session.EventThinking, session.EventToolCall:
		var p progressPayload
		if len(data) > 0 {
			if err := json.Unmarshal(data, &p); err != nil {
				return ev, false, fmt.Errorf("decode %s event: %w", name, err)
			}
		}
		return session.Event{Kind: kind, Message: p.Message}, true, nil

	case session.EventComplete:
		var env models.ChatResponseEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return ev, false, fmt.Errorf("decode complete event: %w", err)
		}
		env.Data.Normalize()
		return session.Event{Kind: kind, Envelope: &env}, true, nil

	case session.EventError:
		var p errorPayload
		// The error payload is opaque; an undecodable one still signals failure.
		_ = json.Unmarshal(data, &p)
		detail := p.Error
		if detail == "" {
			detail = p.Message
		}
		if detail == "" {
			detail = "no detail"
		}
		return session.Event{Kind: kind, Err: fmt.Errorf("%w: %s", ErrAgent, detail)}, true, nil
	}

	return ev, false, nil
}
