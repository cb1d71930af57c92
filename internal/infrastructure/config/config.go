package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

type Config struct {
	Server  ServerConfig
	OTLP    OTLPConfig
	Log     LogConfig
	Catalog CatalogConfig
	Cart    CartConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

type LogConfig struct {
	Level slog.Level
}

type CatalogConfig struct {
	// Source is a file path or an http(s) URL of the catalog document
	Source       string
	FetchTimeout time.Duration
	Locale       language.Tag
}

type CartConfig struct {
	RemovalPolicy domain.RemovalPolicy
}

// keys map viper keys to the environment variables they are read from
var keys = map[string]string{
	"server.host":             "SERVER_HOST",
	"server.port":             "SERVER_PORT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
	"otlp.enabled":            "OTEL_ENABLED",
	"otlp.endpoint":           "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otlp.service_name":       "OTEL_SERVICE_NAME",
	"otlp.environment":        "OTEL_ENVIRONMENT",
	"log.level":               "LOG_LEVEL",
	"catalog.source":          "CATALOG_SOURCE",
	"catalog.fetch_timeout":   "CATALOG_FETCH_TIMEOUT",
	"catalog.locale":          "CATALOG_LOCALE",
	"cart.removal_policy":     "CART_REMOVAL_POLICY",
}

// flags map viper keys to command-line flags
var flags = map[string]string{
	"server.host":         "host",
	"server.port":         "port",
	"log.level":           "log-level",
	"catalog.source":      "catalog-source",
	"catalog.locale":      "catalog-locale",
	"cart.removal_policy": "cart-removal-policy",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("otlp.enabled", true)
	v.SetDefault("otlp.endpoint", "localhost:4317")
	v.SetDefault("otlp.service_name", "catalog-browser-api")
	v.SetDefault("otlp.environment", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("catalog.source", "./data.json")
	v.SetDefault("catalog.fetch_timeout", 10*time.Second)
	v.SetDefault("catalog.locale", "und")
	v.SetDefault("cart.removal_policy", string(domain.RemoveAll))
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(flags["server.host"], "", "HTTP listen host")
	fs.String(flags["server.port"], "", "HTTP listen port")
	fs.String(flags["log.level"], "", "log level (debug, info, warn, error)")
	fs.String(flags["catalog.source"], "", "catalog document path or URL")
	fs.String(flags["catalog.locale"], "", "BCP 47 locale used to sort product names")
	fs.String(flags["cart.removal_policy"], "", "cart removal policy (all, one)")
	return fs
}

// LoadConfig loads configuration from defaults, environment variables and
// command-line arguments, in increasing order of precedence.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	name := "catalog-browser-api"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	fs := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	for key, flag := range flags {
		// only flags given on the command line override env and defaults
		if f := fs.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	locale, err := language.Parse(v.GetString("catalog.locale"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog locale: %w", err)
	}

	policy, err := domain.ParseRemovalPolicy(strings.ToLower(v.GetString("cart.removal_policy")))
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(v.GetString("catalog.source"))
	if source == "" {
		return nil, errors.New("catalog source is required")
	}

	return &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetString("server.port"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		OTLP: OTLPConfig{
			Enabled:     v.GetBool("otlp.enabled"),
			Endpoint:    v.GetString("otlp.endpoint"),
			ServiceName: v.GetString("otlp.service_name"),
			Environment: v.GetString("otlp.environment"),
		},
		Log: LogConfig{
			Level: level,
		},
		Catalog: CatalogConfig{
			Source:       source,
			FetchTimeout: v.GetDuration("catalog.fetch_timeout"),
			Locale:       locale,
		},
		Cart: CartConfig{
			RemovalPolicy: policy,
		},
	}, nil
}
