// Package cli provides the command-line interface for opschat.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/raphaelgruber/opschat/internal/client"
	"github.com/raphaelgruber/opschat/internal/config"
	"github.com/raphaelgruber/opschat/internal/session"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose       bool
	serverURL     string
	transportName string
	configFile    string
	timeoutFlag   string

	// Global config and logger
	cfg        config.Config
	logger     = slog.Default()
	logCleanup = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "opschat",
	Short: "Chat with the Ops Agent",
	Long: `Opschat is a terminal client for the Ops Agent.

Ask about orders, active rentals or customer sentiment. Answers stream in
with live progress and structured order, summary and sentiment blocks.

Running opschat without a subcommand starts the interactive chat.`,
	Version:      Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = resolveConfig(cmd)
		if err != nil {
			return err
		}

		// The TUI owns the terminal, so only log to the console when asked and safe.
		var console io.Writer
		if verbose && !usesTUI(cmd) {
			console = os.Stderr
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel, console)
		return nil
	},
	RunE: runChat,
}

// resolveConfig layers env, config file and flags, in that order.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	c := config.Load()

	if configFile != "" {
		var err error
		c, err = c.LoadFile(configFile)
		if err != nil {
			return c, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		c.ServerURL = serverURL
	}
	if flags.Changed("transport") {
		c.Transport = transportName
	}
	if flags.Changed("timeout") {
		d, err := parseTimeout(timeoutFlag)
		if err != nil {
			return c, err
		}
		c.RequestTimeout = d
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// newStreamer creates the transport selected by the configuration.
func newStreamer(c config.Config, logger *slog.Logger) session.Streamer {
	if c.Transport == config.TransportWS {
		return client.NewWS(c.ServerURL, client.WithLogger(logger))
	}
	return client.New(c.ServerURL, client.WithLogger(logger))
}

// newController creates a session controller for the current configuration.
func newController(logger *slog.Logger) *session.Controller {
	return session.New(newStreamer(cfg, logger),
		session.WithLogger(logger),
		session.WithTimeout(cfg.RequestTimeout))
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: want a duration like 90s", s)
	}
	return time.Duration(secs) * time.Second, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The log file is closed even when a command fails.
func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

// closeLog runs the logger cleanup once and resets it.
func closeLog() {
	cleanup := logCleanup
	logCleanup = func() error { return nil }
	if err := cleanup(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr (not in the interactive chat)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Ops Agent base URL (env OPSCHAT_SERVER_URL)")
	rootCmd.PersistentFlags().StringVarP(&transportName, "transport", "t", "", "transport: sse, or ws via a WebSocket bridge at /api/chat/ws (env OPSCHAT_TRANSPORT)")
	rootCmd.PersistentFlags().StringVar(&timeoutFlag, "timeout", "", "request timeout, e.g. 90s; 0 disables (env OPSCHAT_REQUEST_TIMEOUT)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}
