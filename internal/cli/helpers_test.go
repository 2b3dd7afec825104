package cli

import (
	"context"
	"log/slog"

	"github.com/raphaelgruber/opschat/internal/models"
	"github.com/raphaelgruber/opschat/internal/session"
)

var discardLogger = slog.New(slog.DiscardHandler)

// scripted replays events for every request.
func scripted(events ...session.Event) session.Streamer {
	return session.StreamerFunc(func(ctx context.Context, req models.ChatRequest, handle func(session.Event)) error {
		for _, ev := range events {
			handle(ev)
		}
		return nil
	})
}

func x12Events() []session.Event {
	return []session.Event{
		{Kind: session.EventThinking, Message: "Processing your request..."},
		{Kind: session.EventToolCall, Message: "Looking up order X12..."},
		{Kind: session.EventComplete, Envelope: &models.ChatResponseEnvelope{
			Data: models.AgentResponse{
				Message: "Order X12 is active.",
				Orders: []models.Order{{
					Code:        "X12",
					Status:      "active",
					Customer:    "Acme",
					ProductName: "Crane",
					StartDate:   "2024-01-01",
					EndDate:     "2024-06-01",
				}},
				Sentiment: &models.Sentiment{
					OrderCode:        "X12",
					OverallSentiment: "negative",
					MessageCount:     3,
					Negative:         2,
					FlaggedMessages:  []string{"The crane arrived late again."},
				},
			},
			RequestID: "0d9f6c1e-3b7a-4c52-9e59-2f0a3c7d1b11",
			Model:     "claude-sonnet",
		}},
	}
}

func newTestController(events ...session.Event) *session.Controller {
	return session.New(scripted(events...), session.WithLogger(discardLogger))
}
