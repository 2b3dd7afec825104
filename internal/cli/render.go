package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/opschat/internal/models"
	"github.com/raphaelgruber/opschat/internal/transcript"
)

// emptyHint is shown before the first message.
const emptyHint = "Ask about orders, active rentals, or customer sentiment."

// renderFailed replaces a message whose structured data could not be displayed.
const renderFailed = "[this answer could not be displayed]"

// messageBlocks is swapped in tests to exercise the render recovery path.
var messageBlocks = transcript.MessageBlocks

// renderConversation renders all messages for the chat view.
// spin is the current spinner frame shown next to a pending answer.
func renderConversation(t Theme, logger *slog.Logger, msgs []models.Message, spin string) string {
	if len(msgs) == 0 {
		return t.hintStyle().Render(emptyHint)
	}

	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, renderMessage(t, logger, m, spin))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage renders one message. A panic while building its blocks is
// contained to this message.
func renderMessage(t Theme, logger *slog.Logger, m models.Message, spin string) (out string) {
	header := t.roleStyle(m.Role == models.RoleUser).Render(m.Role.Label() + ":")

	defer func() {
		if r := recover(); r != nil {
			logger.Error("render message failed", "message_id", m.ID, "panic", fmt.Sprint(r))
			out = header + " " + t.errorStyle().Render(renderFailed)
		}
	}()

	if m.Pending {
		status := m.StatusText
		if status == "" {
			status = "Thinking..."
		}
		return header + " " + spin + t.statusStyle().Render(status)
	}

	var b strings.Builder
	b.WriteString(header)
	if m.Content != "" {
		b.WriteString(" ")
		b.WriteString(m.Content)
	}
	for _, block := range messageBlocks(m) {
		b.WriteString("\n")
		b.WriteString(renderBlock(t, block))
	}
	return b.String()
}

// renderBlock styles a transcript block. Field selection and order come from the block.
func renderBlock(t Theme, block transcript.Block) string {
	lines := make([]string, 0, len(block.Rows)+len(block.Flagged)+1)
	for _, r := range block.Rows {
		lines = append(lines, t.labelStyle().Render(r.Label+":")+" "+r.Value)
	}
	if len(block.Flagged) > 0 {
		lines = append(lines, t.labelStyle().Render(transcript.LabelFlagged+":"))
		for _, fm := range block.Flagged {
			lines = append(lines, "  "+t.flaggedStyle().Render(transcript.Quote(fm)))
		}
	}
	return t.blockStyle().Render(strings.Join(lines, "\n"))
}
