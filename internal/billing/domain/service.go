package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type PayBillingRequest struct {
	BillingID    string `json:"billing_id"`
	PaymentToken string `json:"payment_token"`
	Amount       string `json:"amount"`
}

type ListBillingsRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ListBillingsResponse struct {
	Billings []BillingRecord `json:"billings"`
	Total    int64           `json:"total"`
}

// Service executes billing settlement. Every mutating call runs as one
// database transaction: validation, accumulator update, token transfer,
// record write and event emission either all land or none do.
type Service interface {
	PayBilling(ctx context.Context, actor string, storeID snowflake.ID, req PayBillingRequest) (*BillingRecord, error)
	RefundBilling(ctx context.Context, actor string, storeID snowflake.ID, billingID string) (*BillingRecord, error)
	GetBilling(ctx context.Context, storeID snowflake.ID, billingID string) (*BillingRecord, error)
	ListBillings(ctx context.Context, storeID snowflake.ID, req ListBillingsRequest) (ListBillingsResponse, error)
	TotalPaid(ctx context.Context, storeID snowflake.ID) (decimal.Decimal, error)
}

var (
	ErrTokenMismatch    = errors.New("not_token_address")
	ErrZeroPay          = errors.New("zero_pay")
	ErrBillingExists    = errors.New("billing_id_exists")
	ErrBillingNotFound  = errors.New("billing_not_found")
	ErrRefundNotAllowed = errors.New("refund_not_allowed")
	ErrRefundsDisabled  = errors.New("refunds_disabled")
	ErrInvalidBillingID = errors.New("invalid_billing_id")
	ErrInvalidAmount    = errors.New("invalid_amount")
)
