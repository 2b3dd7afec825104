package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transports understood by the chat client. The Ops Agent serves SSE on
// POST /api/chat; TransportWS needs a WebSocket bridge at /api/chat/ws.
const (
	TransportSSE = "sse"
	TransportWS  = "ws"
)

// ErrInvalidTransport is returned by Validate for an unknown transport.
var ErrInvalidTransport = errors.New("invalid transport")

// Config holds all configuration values.
type Config struct {
	// Ops Agent service
	ServerURL      string
	Transport      string
	RequestTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig is the YAML shape accepted by LoadFile. Empty fields keep the current value.
type fileConfig struct {
	ServerURL      string `yaml:"server_url"`
	Transport      string `yaml:"transport"`
	RequestTimeout string `yaml:"request_timeout"`
	LogFile        string `yaml:"log_file"`
	LogLevel       string `yaml:"log_level"`
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		ServerURL:      getEnv("OPSCHAT_SERVER_URL", "http://localhost:8000"),
		Transport:      strings.ToLower(getEnv("OPSCHAT_TRANSPORT", TransportSSE)),
		RequestTimeout: parseDuration(getEnv("OPSCHAT_REQUEST_TIMEOUT", "2m"), 2*time.Minute),

		LogFile:  getEnv("OPSCHAT_LOG_FILE", "/tmp/opschat.log"),
		LogLevel: parseLogLevel(getEnv("OPSCHAT_LOG_LEVEL", "INFO")),
	}
}

// LoadFile overlays the YAML file at path on top of cfg.
func (c Config) LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return c, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.ServerURL != "" {
		c.ServerURL = fc.ServerURL
	}
	if fc.Transport != "" {
		c.Transport = strings.ToLower(fc.Transport)
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return c, fmt.Errorf("parse request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	return c, nil
}

// Validate checks values that cannot be defaulted silently.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportSSE, TransportWS:
	default:
		return fmt.Errorf("%w %q (want %s or %s)", ErrInvalidTransport, c.Transport, TransportSSE, TransportWS)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout)
	}
	if strings.TrimSpace(c.ServerURL) == "" {
		return errors.New("server url is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
