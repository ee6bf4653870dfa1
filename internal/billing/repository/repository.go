package repository

import (
	"context"
	"time"

	billingdomain "github.com/AvantStark/avant-stark-contract/internal/billing/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type gormRepository struct{}

// Provide constructs the gorm-backed billing repository.
func Provide() billingdomain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) Find(ctx context.Context, db *gorm.DB, storeID snowflake.ID, billingID string) (*billingdomain.BillingRecord, error) {
	var records []billingdomain.BillingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, billing_id, amount, payment_token, payer_address,
		        status, status_changed_at, created_at, updated_at
		 FROM billing_records
		 WHERE store_id = ? AND billing_id = ?`,
		storeID,
		billingID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *gormRepository) Insert(ctx context.Context, db *gorm.DB, record *billingdomain.BillingRecord) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO billing_records
		 (id, store_id, billing_id, amount, payment_token, payer_address, status, status_changed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (store_id, billing_id) DO NOTHING`,
		record.ID,
		record.StoreID,
		record.BillingID,
		record.Amount,
		record.PaymentToken,
		record.PayerAddress,
		record.Status,
		record.StatusChangedAt,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status billingdomain.Status, changedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE billing_records
		 SET status = ?, status_changed_at = ?, updated_at = ?
		 WHERE id = ?`,
		status,
		changedAt,
		changedAt,
		id,
	).Error
}

func (r *gormRepository) List(ctx context.Context, db *gorm.DB, storeID snowflake.ID, limit, offset int) ([]billingdomain.BillingRecord, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM billing_records WHERE store_id = ?`,
		storeID,
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []billingdomain.BillingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, store_id, billing_id, amount, payment_token, payer_address,
		        status, status_changed_at, created_at, updated_at
		 FROM billing_records
		 WHERE store_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		storeID,
		limit,
		offset,
	).Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
