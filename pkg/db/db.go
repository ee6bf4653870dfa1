package db

import (
	"fmt"
	"strings"

	"github.com/AvantStark/avant-stark-contract/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	var conn *gorm.DB
	var err error
	switch driver {
	case "postgres":
		conn, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	case "sqlite", "":
		conn, err = gorm.Open(sqlite.Open(cfg.DatabaseDSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if log != nil {
		log.Info("database connected", zap.String("driver", driver))
	}
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(Open),
)
