package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a billing record. A record exists only
// after a successful payment; absence is represented by a missing row, not
// a sentinel value.
type Status string

const (
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
)

// BillingRecord is one payment lifecycle entry, keyed per store by a
// caller-chosen identifier. Amount, token and payer are immutable once
// written; only Status and StatusChangedAt change, on refund.
type BillingRecord struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"-"`
	StoreID         snowflake.ID `gorm:"not null;uniqueIndex:ux_billing_records_store_billing,priority:1" json:"store_id"`
	BillingID       string       `gorm:"type:text;not null;uniqueIndex:ux_billing_records_store_billing,priority:2" json:"billing_id"`
	Amount          string       `gorm:"type:text;not null" json:"amount"`
	PaymentToken    string       `gorm:"type:text;not null" json:"payment_token"`
	PayerAddress    string       `gorm:"type:text;not null" json:"payer_address"`
	Status          Status       `gorm:"type:text;not null" json:"status"`
	StatusChangedAt time.Time    `gorm:"not null" json:"status_changed_at"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (BillingRecord) TableName() string { return "billing_records" }

// AmountValue parses the stored amount.
func (r *BillingRecord) AmountValue() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// maxUint256 bounds identifiers and amounts to the 256-bit range.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseAmount validates a payment amount: a base-10 non-negative integer
// within the 256-bit range.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := parseUint256(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}

// ParseBillingID validates a billing identifier: a base-10 non-negative
// integer within the 256-bit range. Zero is a legitimate identifier.
func ParseBillingID(raw string) (string, error) {
	value, err := parseUint256(raw)
	if err != nil {
		return "", ErrInvalidBillingID
	}
	return value.String(), nil
}

func parseUint256(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	parsed, ok := new(big.Int).SetString(raw, 10)
	if !ok || parsed.Sign() < 0 || parsed.Cmp(maxUint256) > 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return decimal.NewFromBigInt(parsed, 0), nil
}
