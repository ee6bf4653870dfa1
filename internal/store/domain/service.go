package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateStoreRequest struct {
	Name           string         `json:"name"`
	WalletAddress  string         `json:"wallet_address"`
	PaymentToken   string         `json:"payment_token"`
	SettlementMode SettlementMode `json:"settlement_mode"`
}

// Service manages store configuration. Mutators are owner-gated; reads
// carry no authorization.
type Service interface {
	CreateStore(ctx context.Context, actor string, req CreateStoreRequest) (*Store, error)
	GetStore(ctx context.Context, id snowflake.ID) (*Store, error)
	UpdateStoreName(ctx context.Context, actor string, id snowflake.ID, name string) error
	UpdateWalletAddress(ctx context.Context, actor string, id snowflake.ID, address string) error
	UpdatePaymentToken(ctx context.Context, actor string, id snowflake.ID, token string) error
}

var (
	ErrStoreNotFound         = errors.New("store_not_found")
	ErrZeroWalletAddress     = errors.New("zero_wallet_address")
	ErrZeroTokenAddress      = errors.New("zero_token_address")
	ErrInvalidSettlementMode = errors.New("invalid_settlement_mode")
	ErrEscrowSettlement      = errors.New("escrow_settlement")
)
