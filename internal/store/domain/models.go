package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SettlementMode selects where collected funds land.
type SettlementMode string

const (
	// SettlementModeWallet settles funds to the store's configured wallet
	// address and supports refunds.
	SettlementModeWallet SettlementMode = "wallet"
	// SettlementModeEscrow settles funds to an escrow address derived from
	// the store itself. Payment only; refunds are rejected.
	SettlementModeEscrow SettlementMode = "escrow"
)

// Store is one billing settlement instance: an owner, a display name, a
// settlement destination, the accepted settlement token and the running
// total of outstanding paid value.
type Store struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	Owner          string         `gorm:"type:text;not null;index" json:"owner"`
	Name           string         `gorm:"type:text;not null" json:"name"`
	WalletAddress  string         `gorm:"type:text;not null" json:"wallet_address,omitempty"`
	PaymentToken   string         `gorm:"type:text;not null" json:"payment_token"`
	SettlementMode SettlementMode `gorm:"type:text;not null" json:"settlement_mode"`
	EscrowAddress  string         `gorm:"type:text;not null" json:"escrow_address,omitempty"`
	TotalPaid      string         `gorm:"type:text;not null;default:'0'" json:"total_paid"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Store) TableName() string { return "stores" }

// SettlementDestination is the account collected funds are transferred to.
func (s *Store) SettlementDestination() string {
	if s.SettlementMode == SettlementModeEscrow {
		return s.EscrowAddress
	}
	return s.WalletAddress
}

// TotalPaidAmount parses the stored accumulator.
func (s *Store) TotalPaidAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(s.TotalPaid))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// IsZeroAddress reports whether an address is absent or the all-zero
// hex address.
func IsZeroAddress(address string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return true
	}
	hex := strings.TrimPrefix(strings.ToLower(address), "0x")
	if hex == "" {
		return true
	}
	for _, r := range hex {
		if r != '0' {
			return false
		}
	}
	return true
}
