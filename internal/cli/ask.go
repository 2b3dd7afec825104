package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raphaelgruber/opschat/internal/session"
	"github.com/spf13/cobra"
)

var (
	askExportFile string
	askStats      bool
)

var errAskFailed = errors.New("agent request failed")

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message to the Ops Agent and print the answer",
	Long: `Send a single message to the Ops Agent, print the answer with any
orders, summaries and sentiment it returned, then exit.

Progress labels reported by the agent are printed while waiting.

Examples:
  opschat ask "What is the status of order X12?"
  opschat ask "Show active rentals" --export rentals.txt
  opschat ask "Sentiment for X12" --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askExportFile, "export", "o", "", "write the transcript to a file")
	askCmd.Flags().BoolVar(&askStats, "stats", false, "print request statistics")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctrl := newController(logger)
	defer ctrl.Close()

	return askOnce(ctx, ctrl, args[0], cmd.OutOrStdout(), askOptions{
		exportFile: askExportFile,
		stats:      askStats,
	})
}

type askOptions struct {
	exportFile string
	stats      bool
}

// askOnce runs a single exchange and applies the export and stats options.
func askOnce(ctx context.Context, ctrl *session.Controller, text string, out io.Writer, opts askOptions) error {
	if err := ask(ctx, ctrl, text, out); err != nil {
		return err
	}

	if opts.exportFile != "" {
		if err := writeTranscript(opts.exportFile, ctrl.Transcript()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Transcript written to %s\n", opts.exportFile)
	}

	snap := ctrl.Metrics().Snapshot()
	if opts.stats {
		fmt.Fprintln(out)
		printStats(out, snap)
	}
	if snap.Failed != nil {
		return errAskFailed
	}
	return nil
}
