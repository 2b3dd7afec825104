package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphaelgruber/opschat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunREPL(t *testing.T) {
	c := newTestController(x12Events()...)
	in := strings.NewReader("What is the status of order X12?\n\n/stats\n/quit\nnever sent\n")
	var out bytes.Buffer

	require.NoError(t, runREPL(t.Context(), c, in, &out))

	got := out.String()
	assert.Contains(t, got, emptyHint)
	assert.Contains(t, got, "Agent: Order X12 is active.")
	assert.Contains(t, got, "Order: X12\nStatus: active")
	assert.Contains(t, got, "Session Statistics")
	assert.NotContains(t, got, "never sent")
	assert.Len(t, c.Messages(), 2)
}

func TestRunREPLFailureShowsFallback(t *testing.T) {
	c := newTestController(session.Event{Kind: session.EventError})
	var out bytes.Buffer

	require.NoError(t, runREPL(t.Context(), c, strings.NewReader("hello\n"), &out))
	assert.Contains(t, out.String(), "Agent: "+session.FallbackText)
}

func TestAskOnceExportAndStats(t *testing.T) {
	c := newTestController(x12Events()...)
	path := filepath.Join(t.TempDir(), "ask.txt")
	var out bytes.Buffer

	err := askOnce(t.Context(), c, "Status of X12?", &out, askOptions{exportFile: path, stats: true})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Agent: Order X12 is active.")
	assert.Contains(t, out.String(), "Answered:")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "User: Status of X12?\n\n---\n\nAgent: Order X12 is active."))
}

func TestAskOnceFailure(t *testing.T) {
	c := newTestController(session.Event{Kind: session.EventError})
	var out bytes.Buffer

	err := askOnce(t.Context(), c, "hello", &out, askOptions{})
	assert.ErrorIs(t, err, errAskFailed)
	assert.Contains(t, out.String(), session.FallbackText)
}

func TestAskOnceRejectsEmpty(t *testing.T) {
	c := newTestController()
	err := askOnce(t.Context(), c, "   ", &bytes.Buffer{}, askOptions{})
	assert.Error(t, err)
	assert.Empty(t, c.Messages())
}
