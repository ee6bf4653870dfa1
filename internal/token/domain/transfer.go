package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transferer is the external fungible-token collaborator: it moves value
// between accounts or fails the operation. It receives the caller's open
// transaction so a failed transfer rolls the whole settlement back, and a
// later settlement failure rolls the transfer back.
type Transferer interface {
	TransferFrom(ctx context.Context, tx *gorm.DB, token, from, to string, amount decimal.Decimal) error
}

var (
	ErrInvalidTransfer       = errors.New("invalid_transfer")
	ErrInsufficientBalance   = errors.New("insufficient_balance")
	ErrInsufficientAllowance = errors.New("insufficient_allowance")
)
