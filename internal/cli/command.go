package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raphaelgruber/opschat/internal/session"
)

// commandResult is the outcome of a slash command.
type commandResult struct {
	Notice string
	Quit   bool
	Copy   bool // print the transcript once the terminal is released
	Stats  bool // show full statistics
}

const commandHelp = "/export <file>, /copy, /stats, /quit"

// runSlashCommand executes line if it is a slash command.
// It returns false for ordinary chat input.
func runSlashCommand(ctrl *session.Controller, line string) (commandResult, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return commandResult{}, false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return commandResult{Quit: true}, true

	case "/export":
		if arg == "" {
			return commandResult{Notice: "Usage: /export <file>"}, true
		}
		if err := writeTranscript(arg, ctrl.Transcript()); err != nil {
			if errors.Is(err, errEmptyTranscript) {
				return commandResult{Notice: "Nothing to export yet."}, true
			}
			return commandResult{Notice: fmt.Sprintf("Export failed: %v", err)}, true
		}
		return commandResult{Notice: "Transcript written to " + arg}, true

	case "/copy":
		if ctrl.Transcript() == "" {
			return commandResult{Notice: "Nothing to copy yet."}, true
		}
		return commandResult{Notice: "Transcript will be printed when you quit.", Copy: true}, true

	case "/stats":
		return commandResult{Notice: statsLine(ctrl.Metrics().Snapshot()), Stats: true}, true

	case "/help":
		return commandResult{Notice: "Commands: " + commandHelp}, true

	default:
		return commandResult{Notice: fmt.Sprintf("Unknown command %s (try %s)", name, commandHelp)}, true
	}
}
