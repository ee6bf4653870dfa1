package scheduler

import (
	"context"
	"time"

	"github.com/AvantStark/avant-stark-contract/internal/config"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkEvent is one unpublished billing event claimed for dispatch.
type WorkEvent struct {
	ID        snowflake.ID
	StoreID   snowflake.ID
	EventType string
	Payload   string
	CreatedAt time.Time
}

// Dispatcher drains the billing_events outbox in batches. Delivery goes to
// the structured log stream; swapping in a broker client only touches the
// deliver method. Claimed events are marked published in the same
// transaction that read them, so a crash mid-batch re-delivers at most one
// batch (at-least-once).
type Dispatcher struct {
	db       *gorm.DB
	log      *zap.Logger
	interval time.Duration
	batch    int
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
	DB  *gorm.DB
}

func NewDispatcher(p Params) *Dispatcher {
	interval := p.Cfg.OutboxDispatchInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batch := p.Cfg.OutboxBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Dispatcher{
		db:       p.DB,
		log:      p.Log.Named("scheduler.dispatcher"),
		interval: interval,
		batch:    batch,
	}
}

// RunOnce claims one batch of unpublished events and dispatches them.
// Returns the number of events dispatched.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	var dispatched int
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events, err := d.fetchEventsForWork(ctx, tx, d.batch)
		if err != nil {
			return err
		}
		for _, event := range events {
			d.deliver(event)
			if err := tx.WithContext(ctx).Exec(
				`UPDATE billing_events SET published = true WHERE id = ?`,
				event.ID,
			).Error; err != nil {
				return err
			}
			dispatched++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return dispatched, nil
}

func (d *Dispatcher) fetchEventsForWork(ctx context.Context, tx *gorm.DB, limit int) ([]WorkEvent, error) {
	var events []WorkEvent
	err := tx.WithContext(ctx).Raw(
		`SELECT id, store_id, event_type, payload, created_at
		 FROM billing_events
		 WHERE published = false
		 ORDER BY id
		 LIMIT ?`,
		limit,
	).Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *Dispatcher) deliver(event WorkEvent) {
	d.log.Info("billing event dispatched",
		zap.String("event_id", event.ID.String()),
		zap.String("store_id", event.StoreID.String()),
		zap.String("event_type", event.EventType),
		zap.String("payload", event.Payload),
	)
}

var Module = fx.Module("scheduler",
	fx.Provide(NewDispatcher),
	fx.Invoke(Run),
)

// Run drives the dispatcher on a fixed interval under the fx lifecycle.
func Run(lc fx.Lifecycle, d *Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(d.interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := d.RunOnce(ctx); err != nil && ctx.Err() == nil {
							d.log.Error("outbox dispatch failed", zap.Error(err))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
