package observability

import (
	"github.com/AvantStark/avant-stark-contract/internal/config"
	"github.com/AvantStark/avant-stark-contract/internal/observability/metrics"
	"github.com/AvantStark/avant-stark-contract/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(tracing.NewProvider),
	fx.Provide(func(cfg config.Config) (*metrics.HTTPMetrics, error) {
		return metrics.NewHTTPMetrics(cfg.ServiceName, otel.GetMeterProvider())
	}),
	fx.Provide(func(cfg config.Config) (*metrics.SettlementMetrics, error) {
		return metrics.NewSettlementMetrics(cfg.ServiceName, otel.GetMeterProvider())
	}),
)
