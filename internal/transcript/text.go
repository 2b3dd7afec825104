package transcript

import (
	"strings"

	"github.com/raphaelgruber/opschat/internal/models"
)

const (
	partSeparator    = "\n\n"
	messageSeparator = "\n\n---\n\n"
)

// Text serializes the block as "Label: Value" lines followed by the flagged
// messages, if any.
func (b Block) Text() string {
	lines := make([]string, 0, len(b.Rows)+len(b.Flagged)+1)
	for _, r := range b.Rows {
		lines = append(lines, r.Label+": "+r.Value)
	}
	if len(b.Flagged) > 0 {
		lines = append(lines, LabelFlagged+":")
		for _, fm := range b.Flagged {
			lines = append(lines, "  "+Quote(fm))
		}
	}
	return strings.Join(lines, "\n")
}

// Quote wraps a flagged message in typographic double quotes.
func Quote(s string) string {
	return "“" + s + "”"
}

// FormatMessage renders one message. It returns "" for messages with nothing to export.
func FormatMessage(m models.Message) string {
	if !m.HasContent() {
		return ""
	}

	var parts []string
	if m.Content != "" {
		parts = append(parts, m.Role.Label()+": "+m.Content)
	}
	for _, b := range MessageBlocks(m) {
		parts = append(parts, b.Text())
	}
	return strings.Join(parts, partSeparator)
}

// Format renders the conversation as a plain-text transcript. Messages with
// no content and no structured data are skipped. Pending state and status
// text are never exported.
func Format(messages []models.Message) string {
	rendered := make([]string, 0, len(messages))
	for _, m := range messages {
		if s := FormatMessage(m); s != "" {
			rendered = append(rendered, s)
		}
	}
	return strings.Join(rendered, messageSeparator)
}
