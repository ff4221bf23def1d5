//go:build integration

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/ports"
	"github.com/seu-repo/quest-board/pkg/config"
)

func setupRedis(t *testing.T) ports.Cache {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		container, err := tcredis.Run(ctx, "redis:7-alpine",
			testcontainers.WithWaitStrategy(
				wait.ForLog("Ready to accept connections").
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			t.Fatalf("Failed to start redis container: %v", err)
		}
		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				t.Logf("Failed to terminate redis container: %v", err)
			}
		})

		url, err = container.ConnectionString(ctx)
		if err != nil {
			t.Fatalf("Failed to get redis connection string: %v", err)
		}
	}

	c, err := NewRedisCache(config.RedisConfig{URL: url}, logger)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache_Operations(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "import:u1", `{"cards":[]}`, time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		val, err := c.Get(ctx, "import:u1")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}
		if val != `{"cards":[]}` {
			t.Errorf("Expected stored session, got '%s'", val)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		_, err := c.Get(ctx, "import:nobody")
		if !errors.Is(err, ports.ErrCacheMiss) {
			t.Errorf("Expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		c.Set(ctx, "revoked:t1", "1", 100*time.Millisecond)

		time.Sleep(150 * time.Millisecond)

		if _, err := c.Get(ctx, "revoked:t1"); !errors.Is(err, ports.ErrCacheMiss) {
			t.Error("Key should have expired")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set(ctx, "catalog", "[]", time.Minute)

		if err := c.Delete(ctx, "catalog"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}
		if _, err := c.Get(ctx, "catalog"); !errors.Is(err, ports.ErrCacheMiss) {
			t.Error("Key should have been deleted")
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := c.Ping(); err != nil {
			t.Errorf("Expected ping to succeed, got %v", err)
		}
	})
}
