package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]string{"catalog-browser-api"})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, "localhost:4317", cfg.OTLP.Endpoint)
	assert.Equal(t, "catalog-browser-api", cfg.OTLP.ServiceName)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "./data.json", cfg.Catalog.Source)
	assert.Equal(t, 10*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, language.Und, cfg.Catalog.Locale)
	assert.Equal(t, domain.RemoveAll, cfg.Cart.RemovalPolicy)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_SOURCE", "https://example.com/data.json")
	t.Setenv("CATALOG_FETCH_TIMEOUT", "2s")
	t.Setenv("CATALOG_LOCALE", "es-AR")
	t.Setenv("CART_REMOVAL_POLICY", "ONE")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "https://example.com/data.json", cfg.Catalog.Source)
	assert.Equal(t, 2*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, language.MustParse("es-AR"), cfg.Catalog.Locale)
	assert.Equal(t, domain.RemoveOne, cfg.Cart.RemovalPolicy)
}

func TestLoadConfigFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "/env/data.json")

	cfg, err := LoadConfig([]string{"app", "--port", "7070", "--catalog-source=/flag/data.json"})
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "/flag/data.json", cfg.Catalog.Source)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "locale", env: map[string]string{"CATALOG_LOCALE": "not a locale!"}},
		{name: "removal policy", env: map[string]string{"CART_REMOVAL_POLICY": "some"}},
		{name: "empty source", args: []string{"app", "--catalog-source", " "}},
		{name: "unknown flag", args: []string{"app", "--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}
