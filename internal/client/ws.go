package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raphaelgruber/opschat/internal/models"
	"github.com/raphaelgruber/opschat/internal/session"
)

// wsChatPath is the WebSocket chat endpoint. The Ops Agent itself only serves
// SSE; this path is expected on a bridge in front of it.
const wsChatPath = "/api/chat/ws"

// wsFrame is one event frame on the WebSocket.
type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WSClient streams chat requests over a WebSocket, one connection per request.
// It requires a server-side bridge that relays the agent's SSE events as frames.
type WSClient struct {
	endpoint    string
	logger      *slog.Logger
	dialTimeout time.Duration
}

// NewWS creates a WebSocket client for the server at baseURL.
// http(s) URLs are converted to ws(s).
func NewWS(baseURL string, opts ...Option) *WSClient {
	o := buildOptions(opts)

	endpoint := normalizeBaseURL(baseURL)
	endpoint = strings.Replace(endpoint, "http://", "ws://", 1)
	endpoint = strings.Replace(endpoint, "https://", "wss://", 1)

	return &WSClient{
		endpoint:    endpoint + wsChatPath,
		logger:      o.logger,
		dialTimeout: o.dialTimeout,
	}
}

var _ session.Streamer = (*WSClient)(nil)

// Stream sends req over a new WebSocket connection and pushes each event
// frame to handle until a complete or error event arrives.
func (c *WSClient) Stream(ctx context.Context, req models.ChatRequest, handle func(session.Event)) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}

	requestID := requestIDFor(ctx)
	header := http.Header{}
	header.Set(RequestIDHeader, requestID)

	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket connect: %w: %s", ErrUnexpectedStatus, resp.Status)
		}
		return fmt.Errorf("websocket connect: %w", err)
	}

	// Track connection state for proper cleanup
	var mu sync.Mutex
	closed := false
	closeConn := func() {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			conn.Close()
		}
	}
	defer closeConn()

	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	// Handle context cancellation in a separate goroutine
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-done:
		}
	}()

	logger := c.logger.With("client_request_id", requestID)
	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrStreamEnded
			}
			return fmt.Errorf("read message: %w", err)
		}

		ev, ok, err := decodeEvent(frame.Event, frame.Data)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debug("ignoring unknown event", "event", frame.Event)
			continue
		}

		logger.Debug("event received", "event", ev.Kind)
		handle(ev)
		if ev.Kind.IsTerminal() {
			return nil
		}
	}
}
