package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/authstate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, buf *bytes.Buffer) *slog.Logger {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	return slogx.New(slogx.Config{
		Service: "authstate",
		Version: "test",
		Env:     "test",
		Level:   "debug",
		Format:  "json",
		Output:  buf,
	})
}

func TestNewRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(t, &buf)

	logger.Info("login", "user", "fred", "password", "fredpw", "token", "eyJ.abc.def")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "fred", line["user"])
	require.Equal(t, "[REDACTED]", line["password"])
	require.Equal(t, "[REDACTED]", line["token"])
	require.Equal(t, "authstate", line["service"])
	require.NotContains(t, buf.String(), "fredpw")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))

	var buf bytes.Buffer
	logger := newBufferLogger(t, &buf)
	ctx := slogx.WithConnectionID(slogx.WithContext(context.Background(), logger), "conn-1")

	slogx.FromContext(ctx).Info("hello")
	require.Contains(t, buf.String(), `"conn_id":"conn-1"`)
}

func TestHTTPMiddlewareEchoesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(t, &buf)

	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("provided id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
		req.Header.Set(slogx.RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))
		require.Contains(t, buf.String(), `"req_id":"req-123"`)
		require.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("generated id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))
	})
}
