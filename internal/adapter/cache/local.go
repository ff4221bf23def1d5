package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/ports"
)

const defaultLocalEntries = 10000

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LocalCache is the in-process Cache used when Redis is not configured.
// It holds at most a fixed number of entries, dropping the least recently
// used, and expires entries lazily on read. Nothing survives a restart, so
// import previews and token revocations are per process.
type LocalCache struct {
	entries *lru.Cache
	log     *zap.Logger
}

func NewLocalCache(maxEntries int, log *zap.Logger) ports.Cache {
	if maxEntries <= 0 {
		maxEntries = defaultLocalEntries
	}
	c, err := lru.NewWithEvict(maxEntries, func(key, _ interface{}) {
		log.Debug("Local cache evicted entry", zap.Any("key", key))
	})
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	log.Info("Using in-process cache", zap.Int("max_entries", maxEntries))
	return &LocalCache{entries: c, log: log}
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.entries.Get(key)
	if !ok {
		return "", ports.ErrCacheMiss
	}
	e := v.(entry)
	if e.expired(time.Now()) {
		c.entries.Remove(key)
		return "", ports.ErrCacheMiss
	}
	return e.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s, err := encode(value)
	if err != nil {
		return err
	}
	e := entry{value: s}
	if expiration > 0 {
		e.expiresAt = time.Now().Add(expiration)
	}
	c.entries.Add(key, e)
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

func (c *LocalCache) Ping() error { return nil }

func (c *LocalCache) Close() error {
	c.entries.Purge()
	return nil
}

// encode renders value the way the Redis client stores it.
func encode(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal value: %w", err)
		}
		return string(raw), nil
	}
}
