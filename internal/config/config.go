package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config carries process-level settings, parsed from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"avantstark"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string `env:"DATABASE_DSN" envDefault:"file:avantstark.db?cache=shared"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	OutboxDispatchInterval time.Duration `env:"OUTBOX_DISPATCH_INTERVAL" envDefault:"5s"`
	OutboxBatchSize        int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`

	StoreCacheTTL time.Duration `env:"STORE_CACHE_TTL" envDefault:"30s"`

	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`

	TracingEnabled          bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingExporterEndpoint string  `env:"TRACING_EXPORTER_ENDPOINT"`
	TracingExporterProtocol string  `env:"TRACING_EXPORTER_PROTOCOL" envDefault:"http"`
	TracingSamplingRatio    float64 `env:"TRACING_SAMPLING_RATIO" envDefault:"1.0"`

	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"dev"`
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
