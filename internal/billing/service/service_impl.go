package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AvantStark/avant-stark-contract/internal/authorization"
	billingdomain "github.com/AvantStark/avant-stark-contract/internal/billing/domain"
	"github.com/AvantStark/avant-stark-contract/internal/clock"
	"github.com/AvantStark/avant-stark-contract/internal/events"
	"github.com/AvantStark/avant-stark-contract/internal/observability/metrics"
	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	tokendomain "github.com/AvantStark/avant-stark-contract/internal/token/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       billingdomain.Repository
	AuthzSvc   authorization.Service
	Transferer tokendomain.Transferer
	Outbox     *events.Outbox
	Metrics    *metrics.SettlementMetrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       billingdomain.Repository
	authzSvc   authorization.Service
	transferer tokendomain.Transferer
	outbox     *events.Outbox
	metrics    *metrics.SettlementMetrics
}

func NewService(p Params) billingdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("billing.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		authzSvc:   p.AuthzSvc,
		transferer: p.Transferer,
		outbox:     p.Outbox,
		metrics:    p.Metrics,
	}
}

// PayBilling settles a new payment. Preconditions are checked in order:
// token match, positive amount, unused billing id. On success the store's
// total_paid grows by the amount, the payer's funds move to the settlement
// destination, the record lands as paid and a billing.paid event is
// emitted. All of it commits or none of it does.
func (s *Service) PayBilling(ctx context.Context, actor string, storeID snowflake.ID, req billingdomain.PayBillingRequest) (*billingdomain.BillingRecord, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, authorization.ErrInvalidActor
	}

	billingID, err := billingdomain.ParseBillingID(req.BillingID)
	if err != nil {
		return nil, err
	}
	amount, err := billingdomain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	var record *billingdomain.BillingRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store, err := s.loadStoreForUpdate(ctx, tx, storeID)
		if err != nil {
			return err
		}

		if strings.TrimSpace(req.PaymentToken) != store.PaymentToken {
			return billingdomain.ErrTokenMismatch
		}
		if amount.Sign() <= 0 {
			return billingdomain.ErrZeroPay
		}
		existing, err := s.repo.Find(ctx, tx, storeID, billingID)
		if err != nil {
			return err
		}
		if existing != nil {
			return billingdomain.ErrBillingExists
		}

		newTotal := store.TotalPaidAmount().Add(amount)
		if err := s.writeTotalPaid(ctx, tx, storeID, newTotal); err != nil {
			return err
		}

		if err := s.transferer.TransferFrom(ctx, tx, store.PaymentToken, actor, store.SettlementDestination(), amount); err != nil {
			return err
		}

		now := s.clock.Now()
		record = &billingdomain.BillingRecord{
			ID:              s.genID.Generate(),
			StoreID:         storeID,
			BillingID:       billingID,
			Amount:          amount.String(),
			PaymentToken:    store.PaymentToken,
			PayerAddress:    actor,
			Status:          billingdomain.StatusPaid,
			StatusChangedAt: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		inserted, err := s.repo.Insert(ctx, tx, record)
		if err != nil {
			return err
		}
		if !inserted {
			return billingdomain.ErrBillingExists
		}

		payload := events.BillingPaidPayload{
			BillingID:    billingID,
			PaymentToken: store.PaymentToken,
			Amount:       amount.String(),
			OccurredAt:   now,
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			StoreID:   storeID,
			Type:      events.EventBillingPaid,
			Payload:   payload.ToMap(),
			DedupeKey: events.EventBillingPaid + ":" + billingID,
		})
	})
	if err != nil {
		s.metrics.RecordFailure(ctx, "pay_billing", failureReason(err))
		return nil, err
	}

	s.metrics.RecordPayment(ctx)
	s.log.Info("billing paid",
		zap.String("store_id", storeID.String()),
		zap.String("billing_id", billingID),
		zap.String("amount", amount.String()),
	)
	return record, nil
}

// RefundBilling reverses a paid billing. The record must be in paid status
// and the actor must be the store owner; the refund is funded from the
// owner's own balance, not the store wallet.
func (s *Service) RefundBilling(ctx context.Context, actor string, storeID snowflake.ID, rawBillingID string) (*billingdomain.BillingRecord, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, authorization.ErrInvalidActor
	}

	billingID, err := billingdomain.ParseBillingID(rawBillingID)
	if err != nil {
		return nil, err
	}

	var record *billingdomain.BillingRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store, err := s.loadStoreForUpdate(ctx, tx, storeID)
		if err != nil {
			return err
		}
		if store.SettlementMode == storedomain.SettlementModeEscrow {
			return billingdomain.ErrRefundsDisabled
		}

		record, err = s.repo.Find(ctx, tx, storeID, billingID)
		if err != nil {
			return err
		}
		if record == nil || record.Status != billingdomain.StatusPaid {
			record = nil
			return billingdomain.ErrRefundNotAllowed
		}

		if err := s.authzSvc.Authorize(ctx, actor, store, authorization.ActionBillingRefund); err != nil {
			return err
		}

		amount := record.AmountValue()
		newTotal := store.TotalPaidAmount().Sub(amount)
		if err := s.writeTotalPaid(ctx, tx, storeID, newTotal); err != nil {
			return err
		}

		if err := s.transferer.TransferFrom(ctx, tx, record.PaymentToken, actor, record.PayerAddress, amount); err != nil {
			return err
		}

		now := s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, record.ID, billingdomain.StatusRefunded, now); err != nil {
			return err
		}
		record.Status = billingdomain.StatusRefunded
		record.StatusChangedAt = now
		record.UpdatedAt = now

		payload := events.BillingRefundedPayload{
			BillingID:    billingID,
			PaymentToken: record.PaymentToken,
			Amount:       record.Amount,
			OccurredAt:   now,
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			StoreID:   storeID,
			Type:      events.EventBillingRefunded,
			Payload:   payload.ToMap(),
			DedupeKey: events.EventBillingRefunded + ":" + billingID,
		})
	})
	if err != nil {
		s.metrics.RecordFailure(ctx, "refund_billing", failureReason(err))
		return nil, err
	}

	s.metrics.RecordRefund(ctx)
	s.log.Info("billing refunded",
		zap.String("store_id", storeID.String()),
		zap.String("billing_id", billingID),
		zap.String("amount", record.Amount),
	)
	return record, nil
}

func (s *Service) GetBilling(ctx context.Context, storeID snowflake.ID, rawBillingID string) (*billingdomain.BillingRecord, error) {
	billingID, err := billingdomain.ParseBillingID(rawBillingID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Find(ctx, s.db, storeID, billingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, billingdomain.ErrBillingNotFound
	}
	return record, nil
}

func (s *Service) ListBillings(ctx context.Context, storeID snowflake.ID, req billingdomain.ListBillingsRequest) (billingdomain.ListBillingsResponse, error) {
	records, total, err := s.repo.List(ctx, s.db, storeID, req.Limit, req.Offset)
	if err != nil {
		return billingdomain.ListBillingsResponse{}, err
	}
	return billingdomain.ListBillingsResponse{Billings: records, Total: total}, nil
}

func (s *Service) TotalPaid(ctx context.Context, storeID snowflake.ID) (decimal.Decimal, error) {
	store, err := s.loadStore(ctx, s.db, storeID)
	if err != nil {
		return decimal.Zero, err
	}
	return store.TotalPaidAmount(), nil
}

// failureReasons are the stable tokens recorded on the failure metric.
// Anything outside this set is bucketed as internal so attribute
// cardinality stays bounded.
var failureReasons = []error{
	authorization.ErrInvalidActor,
	authorization.ErrNotOwner,
	storedomain.ErrStoreNotFound,
	billingdomain.ErrTokenMismatch,
	billingdomain.ErrZeroPay,
	billingdomain.ErrBillingExists,
	billingdomain.ErrBillingNotFound,
	billingdomain.ErrRefundNotAllowed,
	billingdomain.ErrRefundsDisabled,
	billingdomain.ErrInvalidBillingID,
	billingdomain.ErrInvalidAmount,
	tokendomain.ErrInvalidTransfer,
	tokendomain.ErrInsufficientBalance,
	tokendomain.ErrInsufficientAllowance,
}

func failureReason(err error) string {
	for _, sentinel := range failureReasons {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal"
}

func (s *Service) loadStore(ctx context.Context, db *gorm.DB, storeID snowflake.ID) (*storedomain.Store, error) {
	return s.queryStore(ctx, db, storeID, "")
}

// loadStoreForUpdate locks the stores row for the rest of the transaction.
// Settlement paths read total_paid and write a computed value back, so
// without the lock two concurrent settlements on the same store would both
// start from the same total and the second commit would erase the first.
func (s *Service) loadStoreForUpdate(ctx context.Context, tx *gorm.DB, storeID snowflake.ID) (*storedomain.Store, error) {
	return s.queryStore(ctx, tx, storeID, storeLockClause(tx))
}

// storeLockClause returns the row-lock suffix for the dialect. sqlite has
// no FOR UPDATE; its single-writer transaction serializes settlements
// anyway, so the suffix stays empty there.
func storeLockClause(db *gorm.DB) string {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return " FOR UPDATE"
	}
	return ""
}

func (s *Service) queryStore(ctx context.Context, db *gorm.DB, storeID snowflake.ID, lock string) (*storedomain.Store, error) {
	var stores []storedomain.Store
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner, name, wallet_address, payment_token, settlement_mode,
		        escrow_address, total_paid, created_at, updated_at
		 FROM stores
		 WHERE id = ?`+lock,
		storeID,
	).Scan(&stores).Error
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return nil, storedomain.ErrStoreNotFound
	}
	return &stores[0], nil
}

func (s *Service) writeTotalPaid(ctx context.Context, tx *gorm.DB, storeID snowflake.ID, total decimal.Decimal) error {
	if total.Sign() < 0 {
		return errors.New("total_paid_underflow")
	}
	return tx.WithContext(ctx).Exec(
		`UPDATE stores SET total_paid = ?, updated_at = ? WHERE id = ?`,
		total.String(),
		s.clock.Now(),
		storeID,
	).Error
}
