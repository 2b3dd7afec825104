package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat (default)",
	Long: `Start an interactive chat with the Ops Agent.

In a terminal this opens a full-screen chat. When input is piped, each line
is sent as one message and answers are printed as plain text.

Commands inside the chat:
  /export <file>  write the transcript to a file
  /copy           print the transcript after quitting
  /stats          show request statistics
  /quit           leave the chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctrl := newController(logger)
	defer ctrl.Close()

	if usesTUI(cmd) {
		return runTUI(ctx, ctrl, logger)
	}
	return runREPL(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
}

// usesTUI reports whether cmd will take over the terminal.
func usesTUI(cmd *cobra.Command) bool {
	if cmd.Name() != "opschat" && cmd.Name() != "chat" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
