package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raphaelgruber/opschat/internal/metrics"
)

var errEmptyTranscript = errors.New("nothing to export yet")

// writeTranscript writes the plain-text transcript to path, creating parent directories.
func writeTranscript(path, text string) error {
	if text == "" {
		return errEmptyTranscript
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// printStats displays the session statistics.
func printStats(w io.Writer, s metrics.Snapshot) {
	fmt.Fprintf(w, "Session Statistics\n")
	fmt.Fprintf(w, "═══════════════════════════════════════\n")
	fmt.Fprintf(w, "Uptime: %.1f seconds\n", s.UptimeSeconds)

	if s.Completed != nil {
		fmt.Fprintf(w, "\nAnswered:\n")
		printOpStats(w, s.Completed)
	}
	if s.Failed != nil {
		fmt.Fprintf(w, "\nFailed:\n")
		printOpStats(w, s.Failed)
	}

	fmt.Fprintf(w, "\nTool calls: %d\n", s.ToolCalls)
	if s.Rejected > 0 {
		fmt.Fprintf(w, "Rejected sends: %d\n", s.Rejected)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Total: %dms\n", op.Count, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}

// statsLine summarizes the session statistics on one line.
func statsLine(s metrics.Snapshot) string {
	var answered, failed int64
	var avg float64
	if s.Completed != nil {
		answered = s.Completed.Count
		avg = s.Completed.AvgTimeMs
	}
	if s.Failed != nil {
		failed = s.Failed.Count
	}
	return fmt.Sprintf("%d answered (avg %.0fms), %d failed, %d tool calls", answered, avg, failed, s.ToolCalls)
}
