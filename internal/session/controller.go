// Package session drives one conversation with the Ops Agent.
//
// A Controller owns the ordered message list. Each SendMessage appends a user
// message and a pending agent message, opens one streaming request and maps
// the request's events onto the pending message until it settles.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/opschat/internal/metrics"
	"github.com/raphaelgruber/opschat/internal/models"
	"github.com/raphaelgruber/opschat/internal/transcript"
)

// FallbackText replaces the agent message when a request fails.
const FallbackText = "Something went wrong. Please try again."

// DefaultTimeout bounds how long a request may stay open without a result.
const DefaultTimeout = 2 * time.Minute

var (
	// ErrTimeout is reported when no result arrives within the request timeout.
	ErrTimeout = errors.New("no result from agent before timeout")

	// ErrIncomplete is reported when the stream ends without a complete or error event.
	ErrIncomplete = errors.New("stream ended without a result")

	// ErrMissingResult is reported for a complete event that carries no envelope.
	ErrMissingResult = errors.New("complete event without result")

	// ErrAgent is reported for an error event that carries no detail.
	ErrAgent = errors.New("agent reported an error")
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds the wait for a result. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithMetrics records request outcomes in the given collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// request tracks the single in-flight request.
type request struct {
	id      string // client-side correlation id
	text    string
	index   int // position of the pending agent message
	started time.Time
	tools   []string
	settled bool
	cancel  context.CancelFunc
}

// Controller owns one conversation and its in-flight request.
// All methods are safe for concurrent use.
type Controller struct {
	streamer  Streamer
	logger    *slog.Logger
	metrics   *metrics.Collector
	timeout   time.Duration
	sessionID string
	updates   chan struct{}

	mu       sync.Mutex
	messages []models.Message
	lastID   uint64
	state    State
	inflight *request
	closed   bool
}

// New creates a controller that opens requests through streamer.
func New(streamer Streamer, opts ...Option) *Controller {
	c := &Controller{
		streamer:  streamer,
		logger:    slog.Default(),
		metrics:   metrics.NewCollector(),
		timeout:   DefaultTimeout,
		sessionID: uuid.New().String(),
		updates:   make(chan struct{}, 1),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.NewCollector()
	}
	c.logger = c.logger.With("session_id", c.sessionID)
	return c
}

// SessionID returns the id used to correlate this conversation in logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Metrics returns the collector holding this controller's request stats.
func (c *Controller) Metrics() *metrics.Collector {
	return c.metrics
}

// SendMessage sends text to the agent and blocks until the request settles.
//
// It returns false without changing anything when the trimmed text is empty,
// a request is already in flight, or the controller is closed. Failures of
// the request itself are never returned: they settle the agent message with
// FallbackText.
func (c *Controller) SendMessage(ctx context.Context, text string) bool {
	req, ok := c.begin(text)
	if !ok {
		return false
	}
	c.run(ctx, req)
	return true
}

// begin validates the input and appends the user and pending agent messages.
func (c *Controller) begin(text string) (*request, bool) {
	trimmed := strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if trimmed == "" || c.inflight != nil || c.closed {
		c.metrics.Increment(metrics.OpRejected)
		c.logger.Debug("send rejected",
			"empty", trimmed == "",
			"in_flight", c.inflight != nil,
			"closed", c.closed)
		return nil, false
	}

	c.messages = append(c.messages, models.Message{
		ID:      c.nextID(),
		Role:    models.RoleUser,
		Content: trimmed,
	})
	c.messages = append(c.messages, models.Message{
		ID:      c.nextID(),
		Role:    models.RoleAgent,
		Pending: true,
	})

	req := &request{
		id:      uuid.New().String(),
		text:    trimmed,
		index:   len(c.messages) - 1,
		started: time.Now(),
	}
	c.inflight = req
	c.state = StateThinking
	c.notify()

	c.logger.Info("request started", "client_request_id", req.id, "message_id", c.messages[req.index].ID)
	return req, true
}

// run opens the stream and waits for it, or for the timeout, whichever comes first.
func (c *Controller) run(parent context.Context, req *request) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	c.mu.Lock()
	req.cancel = cancel
	if c.closed {
		cancel()
	}
	c.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- c.stream(ctx, req)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		// The streamer may not honour cancellation; settle without waiting for it.
		err = ctx.Err()
	}
	c.finish(req, err)
}

// stream calls the streamer, converting a panic into an error.
func (c *Controller) stream(ctx context.Context, req *request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("streamer panic: %v", r)
		}
	}()

	ctx = WithRequestID(ctx, req.id)
	return c.streamer.Stream(ctx, models.ChatRequest{Message: req.text}, func(ev Event) {
		c.handle(req, ev)
	})
}

// handle applies one event to the request's pending message.
func (c *Controller) handle(req *request, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.settled || c.inflight != req {
		c.logger.Debug("event after settle ignored", "client_request_id", req.id, "event", ev.Kind)
		return
	}

	switch ev.Kind {
	case EventThinking, EventToolCall:
		c.onProgress(req, ev.Kind, ev.Message)
	case EventComplete:
		if ev.Envelope == nil {
			c.onError(req, ErrMissingResult)
			return
		}
		c.onComplete(req, ev.Envelope)
	case EventError:
		err := ev.Err
		if err == nil {
			err = ErrAgent
		}
		c.onError(req, err)
	default:
		// idle carries no state change
	}
}

// finish settles a request the stream left open.
func (c *Controller) finish(req *request, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.settled {
		return
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w (%s)", ErrTimeout, c.timeout)
	case err == nil:
		err = ErrIncomplete
	}
	c.onError(req, err)
}

// onProgress overwrites the status label. Caller must hold c.mu.
func (c *Controller) onProgress(req *request, kind EventKind, text string) {
	m := &c.messages[req.index]
	m.StatusText = text
	c.state = progressState(kind)

	if kind == EventToolCall {
		req.tools = append(req.tools, text)
		c.metrics.Increment(metrics.OpToolCall)
	}
	c.notify()
	c.logger.Debug("progress", "client_request_id", req.id, "event", kind, "status", text)
}

// onComplete settles the pending message with the agent's answer. Caller must hold c.mu.
func (c *Controller) onComplete(req *request, env *models.ChatResponseEnvelope) {
	data := env.Data
	settled := models.Message{
		ID:             c.messages[req.index].ID,
		Role:           models.RoleAgent,
		Content:        data.Message,
		Orders:         data.Orders,
		OrderSummaries: data.OrderSummaries,
		Sentiment:      data.Sentiment,
	}.Clone()
	if settled.Orders == nil {
		settled.Orders = []models.Order{}
	}
	if settled.OrderSummaries == nil {
		settled.OrderSummaries = []models.OrderSummary{}
	}
	c.messages[req.index] = settled
	c.state = StateComplete

	duration := time.Since(req.started)
	c.metrics.RecordTiming(metrics.OpCompleted, duration)
	c.logger.Info("request completed",
		"client_request_id", req.id,
		"request_id", shortID(env.RequestID),
		"model", env.Model,
		"tools", strings.Join(req.tools, ", "),
		"orders", len(settled.Orders),
		"summaries", len(settled.OrderSummaries),
		"sentiment", settled.Sentiment != nil,
		"duration_ms", duration.Milliseconds())

	c.settle(req)
}

// onError settles the pending message with FallbackText. Caller must hold c.mu.
func (c *Controller) onError(req *request, err error) {
	m := &c.messages[req.index]
	m.Content = FallbackText
	m.Pending = false
	m.StatusText = ""
	m.Orders = nil
	m.OrderSummaries = nil
	m.Sentiment = nil
	c.state = StateError

	duration := time.Since(req.started)
	c.metrics.RecordTiming(metrics.OpFailed, duration)
	c.logger.Error("request failed",
		"client_request_id", req.id,
		"tools", strings.Join(req.tools, ", "),
		"duration_ms", duration.Milliseconds(),
		"error", err)

	c.settle(req)
}

// settle frees the request slot and returns to idle. Caller must hold c.mu.
func (c *Controller) settle(req *request) {
	req.settled = true
	if req.cancel != nil {
		req.cancel()
	}
	c.inflight = nil
	c.state = StateIdle
	c.notify()
}

// Messages returns a copy of the conversation in display order.
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Clone()
	}
	return out
}

// IsLoading reports whether a request is in flight. New sends are refused while it is true.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// State returns the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript renders the conversation as plain text.
func (c *Controller) Transcript() string {
	return transcript.Format(c.Messages())
}

// Updates returns a channel that receives a value after state changes.
// Notifications coalesce: a slow reader sees at least one signal for any
// number of changes since its last receive.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Close releases the controller. An in-flight request is cancelled and
// settles as failed; later sends are refused. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.inflight != nil && c.inflight.cancel != nil {
		c.inflight.cancel()
	}
	c.logger.Debug("session closed", "messages", len(c.messages))
}

func (c *Controller) nextID() string {
	c.lastID++
	return fmt.Sprintf("msg-%d", c.lastID)
}

// notify signals Updates without blocking. Caller must hold c.mu.
func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// shortID truncates a server request id for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
