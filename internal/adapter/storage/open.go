package storage

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/quest-board/internal/adapter/storage/postgres"
	"github.com/seu-repo/quest-board/internal/adapter/storage/sqlite"
	"github.com/seu-repo/quest-board/pkg/config"
)

// Open connects to the configured row store and applies migrations when
// enabled.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "", "postgres":
		db, err = postgres.NewConnection(cfg, log)
	case "sqlite":
		db, err = sqlite.NewConnection(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(db, log); err != nil {
			return nil, err
		}
	}
	return db, nil
}
