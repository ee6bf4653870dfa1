package service

import (
	"context"
	"strings"

	"github.com/AvantStark/avant-stark-contract/internal/authorization"
	"github.com/AvantStark/avant-stark-contract/internal/clock"
	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuthzSvc authorization.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	authzSvc authorization.Service
}

func NewService(p Params) storedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("store.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		authzSvc: p.AuthzSvc,
	}
}

// CreateStore provisions a settlement instance. Wallet-mode stores require
// a non-zero wallet address; escrow-mode stores derive their settlement
// destination from the store ID and accept no wallet. The payment token
// must be non-zero in both modes. Addresses are validated only here, never
// on later updates.
func (s *Service) CreateStore(ctx context.Context, actor string, req storedomain.CreateStoreRequest) (*storedomain.Store, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, authorization.ErrInvalidActor
	}

	mode := req.SettlementMode
	if mode == "" {
		mode = storedomain.SettlementModeWallet
	}
	switch mode {
	case storedomain.SettlementModeWallet:
		if storedomain.IsZeroAddress(req.WalletAddress) {
			return nil, storedomain.ErrZeroWalletAddress
		}
	case storedomain.SettlementModeEscrow:
		if strings.TrimSpace(req.WalletAddress) != "" {
			return nil, storedomain.ErrEscrowSettlement
		}
	default:
		return nil, storedomain.ErrInvalidSettlementMode
	}
	if storedomain.IsZeroAddress(req.PaymentToken) {
		return nil, storedomain.ErrZeroTokenAddress
	}

	now := s.clock.Now()
	store := &storedomain.Store{
		ID:             s.genID.Generate(),
		Owner:          actor,
		Name:           req.Name,
		WalletAddress:  strings.TrimSpace(req.WalletAddress),
		PaymentToken:   strings.TrimSpace(req.PaymentToken),
		SettlementMode: mode,
		TotalPaid:      "0",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if mode == storedomain.SettlementModeEscrow {
		store.EscrowAddress = "escrow:" + store.ID.String()
	}

	if err := s.db.WithContext(ctx).Exec(
		`INSERT INTO stores
		 (id, owner, name, wallet_address, payment_token, settlement_mode, escrow_address, total_paid, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		store.ID,
		store.Owner,
		store.Name,
		store.WalletAddress,
		store.PaymentToken,
		store.SettlementMode,
		store.EscrowAddress,
		store.TotalPaid,
		store.CreatedAt,
		store.UpdatedAt,
	).Error; err != nil {
		return nil, err
	}

	s.log.Info("store created",
		zap.String("store_id", store.ID.String()),
		zap.String("settlement_mode", string(mode)),
	)
	return store, nil
}

func (s *Service) GetStore(ctx context.Context, id snowflake.ID) (*storedomain.Store, error) {
	var stores []storedomain.Store
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, owner, name, wallet_address, payment_token, settlement_mode,
		        escrow_address, total_paid, created_at, updated_at
		 FROM stores
		 WHERE id = ?`,
		id,
	).Scan(&stores).Error
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return nil, storedomain.ErrStoreNotFound
	}
	return &stores[0], nil
}

// UpdateStoreName overwrites the display name unconditionally.
func (s *Service) UpdateStoreName(ctx context.Context, actor string, id snowflake.ID, name string) error {
	return s.updateField(ctx, actor, id, `UPDATE stores SET name = ?, updated_at = ? WHERE id = ?`, name, nil)
}

// UpdateWalletAddress overwrites the settlement wallet. Escrow-mode stores
// have no wallet to update. The new address is not validated; only
// construction checks for the zero address.
func (s *Service) UpdateWalletAddress(ctx context.Context, actor string, id snowflake.ID, address string) error {
	escrowGuard := func(store *storedomain.Store) error {
		if store.SettlementMode == storedomain.SettlementModeEscrow {
			return storedomain.ErrEscrowSettlement
		}
		return nil
	}
	return s.updateField(ctx, actor, id, `UPDATE stores SET wallet_address = ?, updated_at = ? WHERE id = ?`, strings.TrimSpace(address), escrowGuard)
}

// UpdatePaymentToken switches the accepted settlement token. Only future
// payments are affected; written billing records keep their snapshot.
func (s *Service) UpdatePaymentToken(ctx context.Context, actor string, id snowflake.ID, token string) error {
	return s.updateField(ctx, actor, id, `UPDATE stores SET payment_token = ?, updated_at = ? WHERE id = ?`, strings.TrimSpace(token), nil)
}

func (s *Service) updateField(ctx context.Context, actor string, id snowflake.ID, query string, value string, guard func(*storedomain.Store) error) error {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return err
	}
	if guard != nil {
		if err := guard(store); err != nil {
			return err
		}
	}
	if err := s.authzSvc.Authorize(ctx, actor, store, authorization.ActionStoreUpdate); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(query, value, s.clock.Now(), id).Error
}
