package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists billing records. Methods accept the caller's open
// transaction so settlement writes stay atomic with the rest of the call.
type Repository interface {
	Find(ctx context.Context, db *gorm.DB, storeID snowflake.ID, billingID string) (*BillingRecord, error)
	Insert(ctx context.Context, db *gorm.DB, record *BillingRecord) (bool, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, changedAt time.Time) error
	List(ctx context.Context, db *gorm.DB, storeID snowflake.ID, limit, offset int) ([]BillingRecord, int64, error)
}
