package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AvantStark/avant-stark-contract/internal/authorization"
	"github.com/AvantStark/avant-stark-contract/internal/clock"
	"github.com/AvantStark/avant-stark-contract/internal/migration"
	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStoreService(t *testing.T) storedomain.Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	genID, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return NewService(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    genID,
		Clock:    clock.Fixed{At: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		AuthzSvc: authorization.NewService(zap.NewNop()),
	})
}

func TestCreateStoreWalletMode(t *testing.T) {
	svc := setupStoreService(t)

	store, err := svc.CreateStore(context.Background(), "0xowner", storedomain.CreateStoreRequest{
		Name:          "corner shop",
		WalletAddress: "0xwallet",
		PaymentToken:  "0xtoken",
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if store.Owner != "0xowner" {
		t.Fatalf("expected owner 0xowner, got %s", store.Owner)
	}
	if store.TotalPaid != "0" {
		t.Fatalf("expected zero-initialized total_paid, got %s", store.TotalPaid)
	}
	if store.SettlementMode != storedomain.SettlementModeWallet {
		t.Fatalf("expected wallet mode default, got %s", store.SettlementMode)
	}
	if store.SettlementDestination() != "0xwallet" {
		t.Fatalf("expected settlement to wallet, got %s", store.SettlementDestination())
	}
}

func TestCreateStoreRejectsZeroWallet(t *testing.T) {
	svc := setupStoreService(t)

	for _, wallet := range []string{"", "0x0000000000000000000000000000000000000000"} {
		_, err := svc.CreateStore(context.Background(), "0xowner", storedomain.CreateStoreRequest{
			Name:          "shop",
			WalletAddress: wallet,
			PaymentToken:  "0xtoken",
		})
		if !errors.Is(err, storedomain.ErrZeroWalletAddress) {
			t.Fatalf("wallet %q: expected zero_wallet_address, got %v", wallet, err)
		}
	}
}

func TestCreateStoreRejectsZeroToken(t *testing.T) {
	svc := setupStoreService(t)

	_, err := svc.CreateStore(context.Background(), "0xowner", storedomain.CreateStoreRequest{
		Name:          "shop",
		WalletAddress: "0xwallet",
		PaymentToken:  "0x0",
	})
	if !errors.Is(err, storedomain.ErrZeroTokenAddress) {
		t.Fatalf("expected zero_token_address, got %v", err)
	}
}

func TestCreateStoreEscrowMode(t *testing.T) {
	svc := setupStoreService(t)

	store, err := svc.CreateStore(context.Background(), "0xowner", storedomain.CreateStoreRequest{
		Name:           "escrow shop",
		PaymentToken:   "0xtoken",
		SettlementMode: storedomain.SettlementModeEscrow,
	})
	if err != nil {
		t.Fatalf("create escrow store: %v", err)
	}
	if store.EscrowAddress == "" {
		t.Fatalf("expected derived escrow address")
	}
	if store.SettlementDestination() != store.EscrowAddress {
		t.Fatalf("expected settlement to escrow address")
	}
}

func TestCreateStoreEscrowRejectsWallet(t *testing.T) {
	svc := setupStoreService(t)

	_, err := svc.CreateStore(context.Background(), "0xowner", storedomain.CreateStoreRequest{
		Name:           "escrow shop",
		WalletAddress:  "0xwallet",
		PaymentToken:   "0xtoken",
		SettlementMode: storedomain.SettlementModeEscrow,
	})
	if !errors.Is(err, storedomain.ErrEscrowSettlement) {
		t.Fatalf("expected escrow_settlement, got %v", err)
	}
}

func TestUpdateStoreNameOwnerGated(t *testing.T) {
	svc := setupStoreService(t)
	ctx := context.Background()

	store, err := svc.CreateStore(ctx, "0xowner", storedomain.CreateStoreRequest{
		Name: "old name", WalletAddress: "0xwallet", PaymentToken: "0xtoken",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.UpdateStoreName(ctx, "0xmallory", store.ID, "hijacked"); !errors.Is(err, authorization.ErrNotOwner) {
		t.Fatalf("expected not_owner, got %v", err)
	}

	if err := svc.UpdateStoreName(ctx, "0xowner", store.ID, "new name"); err != nil {
		t.Fatalf("update name: %v", err)
	}
	updated, err := svc.GetStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Name != "new name" {
		t.Fatalf("expected new name, got %s", updated.Name)
	}
}

func TestUpdateWalletAddressSkipsZeroCheck(t *testing.T) {
	svc := setupStoreService(t)
	ctx := context.Background()

	store, err := svc.CreateStore(ctx, "0xowner", storedomain.CreateStoreRequest{
		Name: "shop", WalletAddress: "0xwallet", PaymentToken: "0xtoken",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Updates overwrite unconditionally; only construction validates.
	if err := svc.UpdateWalletAddress(ctx, "0xowner", store.ID, "0x0"); err != nil {
		t.Fatalf("update wallet: %v", err)
	}
	updated, err := svc.GetStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.WalletAddress != "0x0" {
		t.Fatalf("expected overwritten wallet, got %s", updated.WalletAddress)
	}
}

func TestUpdateWalletAddressRejectedInEscrowMode(t *testing.T) {
	svc := setupStoreService(t)
	ctx := context.Background()

	store, err := svc.CreateStore(ctx, "0xowner", storedomain.CreateStoreRequest{
		Name: "escrow shop", PaymentToken: "0xtoken", SettlementMode: storedomain.SettlementModeEscrow,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.UpdateWalletAddress(ctx, "0xowner", store.ID, "0xwallet")
	if !errors.Is(err, storedomain.ErrEscrowSettlement) {
		t.Fatalf("expected escrow_settlement, got %v", err)
	}
}

func TestUpdatePaymentToken(t *testing.T) {
	svc := setupStoreService(t)
	ctx := context.Background()

	store, err := svc.CreateStore(ctx, "0xowner", storedomain.CreateStoreRequest{
		Name: "shop", WalletAddress: "0xwallet", PaymentToken: "0xtoken",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.UpdatePaymentToken(ctx, "0xowner", store.ID, "0xnewtoken"); err != nil {
		t.Fatalf("update token: %v", err)
	}
	updated, err := svc.GetStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.PaymentToken != "0xnewtoken" {
		t.Fatalf("expected new token, got %s", updated.PaymentToken)
	}
}

func TestGetStoreNotFound(t *testing.T) {
	svc := setupStoreService(t)

	_, err := svc.GetStore(context.Background(), snowflake.ID(12345))
	if !errors.Is(err, storedomain.ErrStoreNotFound) {
		t.Fatalf("expected store_not_found, got %v", err)
	}
}
