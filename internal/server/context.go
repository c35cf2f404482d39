package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/fathom-mcp/internal/config"
	"github.com/teemow/fathom-mcp/internal/fathom"
	"github.com/teemow/fathom-mcp/internal/instrumentation"
)

// ServerContext holds the shared state of the MCP server: the resolved
// configuration, the Fathom client and the observability hooks.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         config.Config
	logger      *slog.Logger
	client      *fathom.Client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. A missing API key is not an
// error here; Fathom requests fail with fathom.ErrUnauthorized instead.
func NewServerContext(ctx context.Context, cfg config.Config, logger *slog.Logger) *ServerContext {
	if logger == nil {
		logger = slog.Default()
	}
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
	}
	sc.client = sc.newClient(nil)
	return sc
}

func (sc *ServerContext) newClient(metrics *instrumentation.Metrics) *fathom.Client {
	return fathom.NewClient(sc.cfg.APIKey,
		fathom.WithBaseURL(sc.cfg.BaseURL),
		fathom.WithTimeout(sc.cfg.HTTPTimeout),
		fathom.WithMetrics(metrics),
		fathom.WithLogger(sc.logger),
	)
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the resolved configuration.
func (sc *ServerContext) Config() config.Config {
	return sc.cfg
}

// Logger returns the process logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// FathomClient returns the shared Fathom API client.
func (sc *ServerContext) FathomClient() *fathom.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// SetFathomClient replaces the Fathom API client.
func (sc *ServerContext) SetFathomClient(client *fathom.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder and rebuilds the Fathom client so
// upstream calls are recorded too.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	client := sc.newClient(metrics)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.client = client
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
