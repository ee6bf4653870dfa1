package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/AvantStark/avant-stark-contract/internal/config"
	"github.com/AvantStark/avant-stark-contract/internal/events"
	"github.com/AvantStark/avant-stark-contract/internal/migration"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDispatcher(t *testing.T, batch int) (*Dispatcher, *events.Outbox, *gorm.DB) {
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
	genID, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	d := NewDispatcher(Params{
		Cfg: config.Config{OutboxBatchSize: batch},
		Log: zap.NewNop(),
		DB:  conn,
	})
	return d, events.NewOutbox(conn, genID), conn
}

func unpublishedCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Raw(`SELECT COUNT(*) FROM billing_events WHERE published = false`).Scan(&n).Error; err != nil {
		t.Fatalf("count unpublished: %v", err)
	}
	return n
}

func TestRunOnceMarksEventsPublished(t *testing.T) {
	d, outbox, db := setupDispatcher(t, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := outbox.Publish(ctx, events.Event{
			StoreID:   snowflake.ID(200),
			Type:      events.EventBillingPaid,
			DedupeKey: fmt.Sprintf("billing.paid:%d", i),
		})
		if err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	n, err := d.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 dispatched, got %d", n)
	}
	if left := unpublishedCount(t, db); left != 0 {
		t.Fatalf("expected all published, %d left", left)
	}
}

func TestRunOnceRespectsBatchSize(t *testing.T) {
	d, outbox, db := setupDispatcher(t, 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := outbox.Publish(ctx, events.Event{
			StoreID:   snowflake.ID(201),
			Type:      events.EventBillingPaid,
			DedupeKey: fmt.Sprintf("billing.paid:%d", i),
		})
		if err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	n, err := d.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected batch of 2, got %d", n)
	}
	if left := unpublishedCount(t, db); left != 3 {
		t.Fatalf("expected 3 left, got %d", left)
	}
}

func TestRunOnceEmptyOutbox(t *testing.T) {
	d, _, _ := setupDispatcher(t, 100)

	n, err := d.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing dispatched, got %d", n)
	}
}
