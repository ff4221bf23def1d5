package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/quest-board/internal/adapter/storage"
	"github.com/seu-repo/quest-board/pkg/config"
	"github.com/seu-repo/quest-board/pkg/logging"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "questctl",
	Short: "Administration tool for Quest Board",
	Long: `questctl runs maintenance tasks against the Quest Board row store:
schema migrations, achievement catalog seeding, project plan generation
and offline preview of project files.`,
	SilenceUsage: true,
}

// env is the shared state of commands that need the row store.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// openEnv loads configuration and connects to the row store. Migrations
// are left to the migrate command.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	dbCfg := cfg.Database
	dbCfg.AutoMigrate = false
	db, err := storage.Open(dbCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	e.log.Sync()
}

// SetVersion sets the version information
func SetVersion(v, c string) {
	version = v
	commit = c
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}
