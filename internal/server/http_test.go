package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/fathom-mcp/internal/config"
	"github.com/teemow/fathom-mcp/internal/instrumentation"
)

func newTestServerContext(t *testing.T, apiKey string) *ServerContext {
	t.Helper()
	cfg := config.Default()
	cfg.APIKey = apiKey
	sc := NewServerContext(context.Background(), cfg, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestHTTPServer_MCPEndpoint(t *testing.T) {
	sc := newTestServerContext(t, "key")
	mcpSrv := mcpserver.NewMCPServer("fathom-mcp", "test", mcpserver.WithToolCapabilities(true))

	ts := httptest.NewServer(NewHTTPServer(mcpSrv, sc).Handler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+DefaultMCPEndpoint, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "fathom-mcp")
}

func TestHTTPServer_HealthEndpoints(t *testing.T) {
	sc := newTestServerContext(t, "")
	srv := NewHTTPServer(mcpserver.NewMCPServer("fathom-mcp", "test"), sc)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz/detailed")
	require.NoError(t, err)
	var detailed DetailedHealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detailed))
	_ = resp.Body.Close()
	assert.Equal(t, "ok", detailed.Status)
	assert.False(t, detailed.APIKeyConfigured)
	assert.Equal(t, config.Default().BaseURL, detailed.Upstream)

	require.NoError(t, sc.Shutdown())

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHTTPServer_StartAndShutdown(t *testing.T) {
	srv := NewHTTPServer(mcpserver.NewMCPServer("fathom-mcp", "test"), newTestServerContext(t, ""))

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- srv.StartWithReadySignal("127.0.0.1:0", ready) }()

	select {
	case <-ready:
	case err := <-errCh:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server")
	}

	resp, err := http.Get("http://" + srv.BoundAddr() + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-errCh)
	assert.False(t, srv.HealthChecker().IsReady())
}

func TestResponseWriter(t *testing.T) {
	t.Run("captures status code", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		rw := newResponseWriter(recorder)

		rw.WriteHeader(http.StatusNotFound)

		if rw.statusCode != http.StatusNotFound {
			t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusNotFound)
		}
		if recorder.Code != http.StatusNotFound {
			t.Errorf("recorder.Code = %d, want %d", recorder.Code, http.StatusNotFound)
		}
	})

	t.Run("defaults to 200", func(t *testing.T) {
		rw := newResponseWriter(httptest.NewRecorder())

		if rw.statusCode != http.StatusOK {
			t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusOK)
		}
	})

	t.Run("flush passes through", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		newResponseWriter(recorder).Flush()

		if !recorder.Flushed {
			t.Error("expected underlying writer to be flushed")
		}
	})
}

func TestInstrumentationMiddleware(t *testing.T) {
	t.Run("calls next handler when no metrics", func(t *testing.T) {
		server := &HTTPServer{}
		called := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		})

		server.instrumentationMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

		if !called {
			t.Error("expected next handler to be called")
		}
	})

	t.Run("records with metrics", func(t *testing.T) {
		metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
		require.NoError(t, err)

		sc := newTestServerContext(t, "")
		sc.SetMetrics(metrics)
		server := &HTTPServer{serverContext: sc}

		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		rec := httptest.NewRecorder()
		server.instrumentationMiddleware(next).ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}
