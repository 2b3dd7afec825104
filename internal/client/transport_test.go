package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLoggingTransport(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantLevel string
		wantMsg   string
	}{
		{name: "ok", status: http.StatusOK, wantLevel: "DEBUG", wantMsg: "http response"},
		{name: "rejected", status: http.StatusBadGateway, wantLevel: "WARN", wantMsg: "http request rejected"},
		{name: "failed", err: errors.New("connection refused"), wantLevel: "ERROR", wantMsg: "http request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			next := roundTripFunc(func(r *http.Request) (*http.Response, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &http.Response{StatusCode: tt.status, Body: http.NoBody, Request: r}, nil
			})

			req := httptest.NewRequest(http.MethodPost, "http://ops/api/chat", nil)
			req.Header.Set(RequestIDHeader, "req-1")

			_, err := newLoggingTransport(next, logger).RoundTrip(req)
			assert.Equal(t, tt.err, err)

			entries := logLines(t, &buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, tt.wantMsg, entries[0]["msg"])
			assert.Equal(t, "/api/chat", entries[0]["path"])
			assert.Equal(t, "req-1", entries[0]["client_request_id"])
		})
	}
}

func TestClientUsesLoggingTransportByDefault(t *testing.T) {
	c := New("http://ops")
	_, ok := c.httpClient.Transport.(*loggingTransport)
	assert.True(t, ok)

	custom := &http.Client{}
	assert.Same(t, custom, New("http://ops", WithHTTPClient(custom)).httpClient)
}
