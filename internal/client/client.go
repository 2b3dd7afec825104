// Package client streams chat requests to the Ops Agent service.
//
// Client speaks Server-Sent Events over HTTP POST; WSClient speaks JSON
// frames over a WebSocket. Both implement session.Streamer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/opschat/internal/models"
	"github.com/raphaelgruber/opschat/internal/session"
)

// DefaultBaseURL is used when no server URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// chatPath is the streaming chat endpoint.
const chatPath = "/api/chat"

// RequestIDHeader carries the client-side request id for log correlation.
const RequestIDHeader = "X-Client-Request-ID"

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

var (
	// ErrUnexpectedStatus is returned when the server answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrStreamEnded is returned when the stream closes before a complete or error event.
	ErrStreamEnded = errors.New("stream ended before a result")

	// ErrAgent wraps the detail of an error event sent by the server.
	ErrAgent = errors.New("agent error")
)

// Option configures a Client or WSClient.
type Option func(*options)

type options struct {
	httpClient  *http.Client
	logger      *slog.Logger
	dialTimeout time.Duration
}

// WithHTTPClient sets the HTTP client used for SSE requests.
// The client must not set a Timeout shorter than the longest expected answer.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDialTimeout sets the WebSocket handshake timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:      slog.Default(),
		dialTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Client streams chat requests over Server-Sent Events.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an SSE client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := buildOptions(opts)
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Transport: newLoggingTransport(http.DefaultTransport, o.logger)}
	}
	return &Client{
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: hc,
		logger:     o.logger,
	}
}

var _ session.Streamer = (*Client)(nil)

// Stream posts req to the chat endpoint and pushes each event to handle.
// It returns after a complete or error event, or when the stream fails.
func (c *Client) Stream(ctx context.Context, req models.ChatRequest, handle func(session.Event)) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := requestIDFor(ctx)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s - %s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(excerpt)))
	}

	logger := c.logger.With("client_request_id", requestID)
	terminal := false
	err = readSSE(resp.Body, func(f sseFrame) (bool, error) {
		ev, ok, err := decodeEvent(f.Event, []byte(f.Data))
		if err != nil {
			return false, err
		}
		if !ok {
			logger.Debug("ignoring unknown event", "event", f.Event)
			return true, nil
		}
		logger.Debug("event received", "event", ev.Kind)
		handle(ev)
		terminal = ev.Kind.IsTerminal()
		return !terminal, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("read stream: %w", err)
	}
	if !terminal {
		return ErrStreamEnded
	}
	return nil
}

// normalizeBaseURL trims trailing slashes and applies the default.
func normalizeBaseURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// requestIDFor returns the controller's request id, or a fresh one.
func requestIDFor(ctx context.Context) string {
	if id, ok := session.RequestIDFromContext(ctx); ok {
		return id
	}
	return uuid.New().String()
}
