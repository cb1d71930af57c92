package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerInjectsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.OTLPConfig{ServiceName: "catalog-test", Environment: "test"}
	logger := NewLogger(&buf, cfg, slog.LevelInfo)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	ctx = WithHTTPRoute(ctx, "/products/{id}")
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "host/abc-000001")
	logger.InfoContext(ctx, "hello")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "catalog-test", entry["service.name"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
	assert.Equal(t, "/products/{id}", entry["http.route"])
	assert.Equal(t, "host/abc-000001", entry["request_id"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.OTLPConfig{}, slog.LevelWarn)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNoOpTelemetryServesPrometheusMetrics(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	telem, err := NewNoOpTelemetry(logger)
	require.NoError(t, err)

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("catalog.queries")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := telem.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if mf.GetName() == "catalog_queries_total" {
			found = true
			require.NotEmpty(t, mf.GetMetric())
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "catalog_queries_total not exported")

	require.NoError(t, telem.Shutdown(context.Background()))
}
