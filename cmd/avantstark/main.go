package main

import (
	"github.com/AvantStark/avant-stark-contract/internal/authorization"
	"github.com/AvantStark/avant-stark-contract/internal/billing"
	"github.com/AvantStark/avant-stark-contract/internal/clock"
	"github.com/AvantStark/avant-stark-contract/internal/config"
	"github.com/AvantStark/avant-stark-contract/internal/events"
	"github.com/AvantStark/avant-stark-contract/internal/migration"
	"github.com/AvantStark/avant-stark-contract/internal/observability"
	"github.com/AvantStark/avant-stark-contract/internal/observability/logger"
	"github.com/AvantStark/avant-stark-contract/internal/scheduler"
	"github.com/AvantStark/avant-stark-contract/internal/seed"
	"github.com/AvantStark/avant-stark-contract/internal/server"
	"github.com/AvantStark/avant-stark-contract/internal/store"
	"github.com/AvantStark/avant-stark-contract/internal/token"
	"github.com/AvantStark/avant-stark-contract/internal/token/ledgertoken"
	"github.com/AvantStark/avant-stark-contract/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),
		observability.Module,
		clock.Module,
		authorization.Module,
		events.Module,
		token.Module,
		fx.Invoke(func(cfg config.Config, conn *gorm.DB, ledger *ledgertoken.Ledger, node *snowflake.Node, log *zap.Logger) error {
			if !cfg.SeedDemo {
				return nil
			}
			return seed.EnsureDemoStore(conn, ledger, node, log.Named("seed"))
		}),
		store.Module,
		billing.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}
