package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/fathom-mcp/internal/config"
	"github.com/teemow/fathom-mcp/internal/fathom"
	"github.com/teemow/fathom-mcp/internal/instrumentation"
)

func TestNewServerContext(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "secret"
	cfg.BaseURL = "http://localhost:1234/v1/"

	sc := NewServerContext(context.Background(), cfg, nil)
	defer func() { _ = sc.Shutdown() }()

	require.NotNil(t, sc.FathomClient())
	assert.Equal(t, "http://localhost:1234/v1", sc.FathomClient().BaseURL())
	assert.True(t, sc.FathomClient().HasAPIKey())
	assert.Equal(t, "secret", sc.Config().APIKey)
	assert.NotNil(t, sc.Logger())
	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())
}

func TestServerContext_SetMetricsRebuildsClient(t *testing.T) {
	sc := NewServerContext(context.Background(), config.Default(), nil)
	defer func() { _ = sc.Shutdown() }()

	before := sc.FathomClient()
	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	require.NoError(t, err)

	sc.SetMetrics(metrics)

	assert.Same(t, metrics, sc.Metrics())
	assert.NotSame(t, before, sc.FathomClient())
	assert.Equal(t, before.BaseURL(), sc.FathomClient().BaseURL())
}

func TestServerContext_Setters(t *testing.T) {
	sc := NewServerContext(context.Background(), config.Default(), nil)
	defer func() { _ = sc.Shutdown() }()

	client := fathom.NewClient("other", fathom.WithBaseURL("http://example.test"))
	sc.SetFathomClient(client)
	assert.Same(t, client, sc.FathomClient())

	al := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(al)
	assert.Same(t, al, sc.AuditLogger())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), config.Default(), nil)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	// idempotent
	require.NoError(t, sc.Shutdown())
}
