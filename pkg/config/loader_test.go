package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Gamification.LevelSize != 1000 {
		t.Errorf("Expected level size 1000, got %d", cfg.Gamification.LevelSize)
	}
	if cfg.Gamification.DefaultCardPoints != 10 {
		t.Errorf("Expected default card points 10, got %d", cfg.Gamification.DefaultCardPoints)
	}
	if cfg.Board.DoneColumnName != "Concluído" {
		t.Errorf("Expected done column Concluído, got %q", cfg.Board.DoneColumnName)
	}
	if cfg.Planner.Delay != 2*time.Second {
		t.Errorf("Expected planner delay 2s, got %s", cfg.Planner.Delay)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Expected postgres driver, got %s", cfg.Database.Driver)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("database:\n  driver: sqlite\n  url: board.db\ngamification:\n  level_size: 500\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("APP_BOARD_REGISTRY_SIZE", "64")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Database.Driver != "sqlite" || cfg.Database.URL != "board.db" {
		t.Errorf("Expected sqlite board.db, got %s %s", cfg.Database.Driver, cfg.Database.URL)
	}
	if cfg.Gamification.LevelSize != 500 {
		t.Errorf("Expected level size 500, got %d", cfg.Gamification.LevelSize)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("Expected jwt secret from env, got %q", cfg.JWT.Secret)
	}
	if cfg.Board.RegistrySize != 64 {
		t.Errorf("Expected registry size 64, got %d", cfg.Board.RegistrySize)
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
