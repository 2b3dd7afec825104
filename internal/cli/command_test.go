package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSlashCommandIgnoresChat(t *testing.T) {
	c := newTestController()
	_, ok := runSlashCommand(c, "what is order X12?")
	assert.False(t, ok)
}

func TestRunSlashCommandExport(t *testing.T) {
	c := newTestController(x12Events()...)
	path := filepath.Join(t.TempDir(), "out", "x12.txt")

	res, ok := runSlashCommand(c, "/export "+path)
	require.True(t, ok)
	assert.Equal(t, "Nothing to export yet.", res.Notice)

	require.True(t, c.SendMessage(t.Context(), "Status of X12?"))
	res, ok = runSlashCommand(c, "/export "+path)
	require.True(t, ok)
	assert.Equal(t, "Transcript written to "+path, res.Notice)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Transcript()+"\n", string(data))

	res, _ = runSlashCommand(c, "/export")
	assert.Equal(t, "Usage: /export <file>", res.Notice)
}

func TestRunSlashCommands(t *testing.T) {
	c := newTestController(x12Events()...)

	res, ok := runSlashCommand(c, "/copy")
	require.True(t, ok)
	assert.False(t, res.Copy)

	require.True(t, c.SendMessage(t.Context(), "Status of X12?"))

	res, _ = runSlashCommand(c, "/copy")
	assert.True(t, res.Copy)

	res, _ = runSlashCommand(c, "/stats")
	assert.True(t, res.Stats)
	assert.Contains(t, res.Notice, "1 answered")
	assert.Contains(t, res.Notice, "1 tool calls")

	res, _ = runSlashCommand(c, "  /quit ")
	assert.True(t, res.Quit)

	res, _ = runSlashCommand(c, "/frobnicate")
	assert.Contains(t, res.Notice, "Unknown command /frobnicate")
}
