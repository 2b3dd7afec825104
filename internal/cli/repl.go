package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/raphaelgruber/opschat/internal/session"
	"github.com/raphaelgruber/opschat/internal/transcript"
)

// runREPL runs a line-oriented chat, used when stdin is not a terminal.
func runREPL(ctx context.Context, ctrl *session.Controller, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, emptyHint)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if res, ok := runSlashCommand(ctrl, line); ok {
			switch {
			case res.Quit:
				return nil
			case res.Copy:
				fmt.Fprintln(out, ctrl.Transcript())
			case res.Stats:
				printStats(out, ctrl.Metrics().Snapshot())
			default:
				fmt.Fprintln(out, res.Notice)
			}
			continue
		}

		if err := ask(ctx, ctrl, line, out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return scanner.Err()
}

// ask sends one message, echoing progress labels to out, and prints the settled answer.
func ask(ctx context.Context, ctrl *session.Controller, text string, out io.Writer) error {
	stop := followProgress(ctrl, out)
	accepted := ctrl.SendMessage(ctx, text)
	stop()

	if !accepted {
		return fmt.Errorf("message not sent")
	}

	msgs := ctrl.Messages()
	fmt.Fprintln(out, transcript.FormatMessage(msgs[len(msgs)-1]))
	return nil
}

// followProgress prints each new status label of the pending answer until stop is called.
func followProgress(ctrl *session.Controller, out io.Writer) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		last := ""
		for {
			select {
			case <-done:
				return
			case <-ctrl.Updates():
			}
			msgs := ctrl.Messages()
			if len(msgs) == 0 {
				continue
			}
			m := msgs[len(msgs)-1]
			if m.Pending && m.StatusText != "" && m.StatusText != last {
				last = m.StatusText
				fmt.Fprintf(out, "… %s\n", last)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
