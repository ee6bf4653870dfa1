package metrics

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SettlementMetrics counts billing settlement outcomes.
type SettlementMetrics struct {
	payments metric.Int64Counter
	refunds  metric.Int64Counter
	failures metric.Int64Counter
}

// NewSettlementMetrics creates settlement metric instruments.
func NewSettlementMetrics(serviceName string, provider metric.MeterProvider) (*SettlementMetrics, error) {
	name := strings.TrimSpace(serviceName)
	if name == "" {
		name = "avantstark"
	}
	meter := provider.Meter(name + "/settlement")

	payments, err := meter.Int64Counter("billing.payments.settled")
	if err != nil {
		return nil, err
	}
	refunds, err := meter.Int64Counter("billing.refunds.settled")
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("billing.settlement.failures")
	if err != nil {
		return nil, err
	}

	return &SettlementMetrics{payments: payments, refunds: refunds, failures: failures}, nil
}

// RecordPayment counts one settled payment.
func (m *SettlementMetrics) RecordPayment(ctx context.Context) {
	if m == nil {
		return
	}
	m.payments.Add(ctx, 1)
}

// RecordRefund counts one settled refund.
func (m *SettlementMetrics) RecordRefund(ctx context.Context) {
	if m == nil {
		return
	}
	m.refunds.Add(ctx, 1)
}

// RecordFailure counts one rejected or failed operation by reason.
func (m *SettlementMetrics) RecordFailure(ctx context.Context, operation string, reason string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}
