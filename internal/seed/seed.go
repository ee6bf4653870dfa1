package seed

import (
	"context"
	"errors"
	"time"

	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	"github.com/AvantStark/avant-stark-contract/internal/token/ledgertoken"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoOwner  = "0xdemo-owner"
	demoBuyer  = "0xdemo-buyer"
	demoWallet = "0xdemo-wallet"
	demoToken  = "0xdemo-token"
	demoFunds  = "1000000"
)

// EnsureDemoStore seeds a demo store and a funded, pre-approved buyer so a
// fresh local deployment can settle payments immediately. No-op when any
// store already exists.
func EnsureDemoStore(db *gorm.DB, ledger *ledgertoken.Ledger, node *snowflake.Node, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if ledger == nil {
		return errors.New("seed token ledger is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Raw(`SELECT COUNT(*) FROM stores`).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		storeID := node.Generate()
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO stores
			 (id, owner, name, wallet_address, payment_token, settlement_mode, escrow_address, total_paid, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, '', '0', ?, ?)`,
			storeID, demoOwner, "Demo Store", demoWallet, demoToken,
			storedomain.SettlementModeWallet, now, now,
		).Error; err != nil {
			return err
		}

		funds, err := decimal.NewFromString(demoFunds)
		if err != nil {
			return err
		}
		if err := ledger.Mint(ctx, tx, demoToken, demoBuyer, funds); err != nil {
			return err
		}
		if err := ledger.Approve(ctx, tx, demoToken, demoBuyer, funds); err != nil {
			return err
		}
		// The owner funds refunds out of pocket; give them a float too.
		if err := ledger.Mint(ctx, tx, demoToken, demoOwner, funds); err != nil {
			return err
		}
		if err := ledger.Approve(ctx, tx, demoToken, demoOwner, funds); err != nil {
			return err
		}

		log.Info("demo store seeded",
			zap.String("store_id", storeID.String()),
			zap.String("owner", demoOwner),
			zap.String("buyer", demoBuyer),
		)
		return nil
	})
}
