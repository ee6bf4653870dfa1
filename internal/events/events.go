package events

import "time"

// Billing settlement event types, consumed by external observers.
const (
	EventBillingPaid     = "billing.paid"
	EventBillingRefunded = "billing.refunded"
)

// BillingPaidPayload describes a settled payment.
type BillingPaidPayload struct {
	BillingID    string    `json:"billing_id"`
	PaymentToken string    `json:"payment_token"`
	Amount       string    `json:"amount"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p BillingPaidPayload) ToMap() map[string]any {
	return map[string]any{
		"billing_id":    p.BillingID,
		"payment_token": p.PaymentToken,
		"amount":        p.Amount,
		"occurred_at":   p.OccurredAt.UTC().Format(time.RFC3339),
	}
}

// BillingRefundedPayload describes a settled refund.
type BillingRefundedPayload struct {
	BillingID    string    `json:"billing_id"`
	PaymentToken string    `json:"payment_token"`
	Amount       string    `json:"amount"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p BillingRefundedPayload) ToMap() map[string]any {
	return map[string]any{
		"billing_id":    p.BillingID,
		"payment_token": p.PaymentToken,
		"amount":        p.Amount,
		"occurred_at":   p.OccurredAt.UTC().Format(time.RFC3339),
	}
}
