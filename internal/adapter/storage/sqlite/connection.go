package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/quest-board/internal/adapter/storage/postgres"
	"github.com/seu-repo/quest-board/pkg/config"
)

const memoryDSN = ":memory:"

// NewConnection opens a pure-Go SQLite database for local runs and tests.
// An empty URL means an in-memory database.
func NewConnection(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), postgres.GormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// every new connection to :memory: is a fresh, empty database
	if dsn == memoryDSN {
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("Opened SQLite database", zap.String("dsn", dsn))
	return db, nil
}

// OpenMemory returns a migrated in-memory database.
func OpenMemory(log *zap.Logger) (*gorm.DB, error) {
	db, err := NewConnection(config.DatabaseConfig{Driver: "sqlite"}, log)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(db, log); err != nil {
		return nil, err
	}
	return db, nil
}
