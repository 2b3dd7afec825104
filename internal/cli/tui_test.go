package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func update(t *testing.T, m chatModel, msg tea.Msg) (chatModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(chatModel)
	require.True(t, ok)
	return cm, cmd
}

func TestChatModelEmptyState(t *testing.T) {
	c := newTestController()
	m := newChatModel(t.Context(), c, discardLogger)

	view := m.renderContent()
	assert.Contains(t, view, "Ops Agent")
	assert.Contains(t, view, emptyHint)
	assert.True(t, m.View().AltScreen)
}

func TestChatModelSendsMessage(t *testing.T) {
	c := newTestController(x12Events()...)
	m := newChatModel(t.Context(), c, discardLogger)

	m.input.SetValue("What is the status of order X12?")
	m, cmd := update(t, m, enter())
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())

	msg := cmd()
	assert.Equal(t, sentMsg{accepted: true}, msg)

	m, _ = update(t, m, msg)
	view := m.renderContent()
	assert.Contains(t, view, "Order X12 is active.")
	assert.Contains(t, view, "Order: X12")
	assert.Contains(t, view, "Sentiment: negative")
}

func TestChatModelIgnoresBlankInput(t *testing.T) {
	c := newTestController(x12Events()...)
	m := newChatModel(t.Context(), c, discardLogger)

	m.input.SetValue("   ")
	_, cmd := update(t, m, enter())
	assert.Nil(t, cmd)
	assert.Empty(t, c.Messages())
}

func TestChatModelSlashCommands(t *testing.T) {
	c := newTestController(x12Events()...)
	require.True(t, c.SendMessage(t.Context(), "Status of X12?"))
	m := newChatModel(t.Context(), c, discardLogger)

	path := filepath.Join(t.TempDir(), "chat.txt")
	m.input.SetValue("/export " + path)
	m, cmd := update(t, m, enter())
	assert.Nil(t, cmd)
	assert.Equal(t, "Transcript written to "+path, m.notice)
	assert.Contains(t, m.renderContent(), "Transcript written to")
	_, err := os.Stat(path)
	require.NoError(t, err)

	m.input.SetValue("/copy")
	m, _ = update(t, m, enter())
	assert.True(t, m.copy)

	m.input.SetValue("/quit")
	m, cmd = update(t, m, enter())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.renderContent())
}

func TestChatModelWindowResize(t *testing.T) {
	c := newTestController()
	m := newChatModel(t.Context(), c, discardLogger)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.viewport.Width())
	assert.Equal(t, 40-chromeHeight, m.viewport.Height())
}

func TestChatModelRefreshesOnUpdate(t *testing.T) {
	c := newTestController(x12Events()...)
	m := newChatModel(t.Context(), c, discardLogger)

	require.True(t, c.SendMessage(t.Context(), "Status of X12?"))

	// The controller has signalled; the watch command returns immediately.
	msg := waitForUpdate(t.Context(), c)()
	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.renderContent(), "Order X12 is active.")
}

func TestWaitForUpdateReturnsWhenContextEnds(t *testing.T) {
	c := newTestController()
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan tea.Msg, 1)
	go func() { done <- waitForUpdate(ctx, c)() }()

	cancel()
	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("update watch did not stop after cancel")
	}
}
