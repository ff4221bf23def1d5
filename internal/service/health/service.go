package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/quest-board/internal/ports"
)

const checkTimeout = 5 * time.Second

// Pinger is satisfied by the cache and the message bus.
type Pinger interface {
	Ping() error
}

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker runs one readiness probe.
type Checker func(ctx context.Context) CheckResult

// Config lists the dependencies probed on readiness. Nil entries are
// skipped. Catalog is probed to make sure achievements were seeded.
type Config struct {
	Version string
	DB      DBPinger
	Cache   Pinger
	Queue   Pinger
	Catalog ports.AchievementRepository
}

type Service struct {
	startTime time.Time
	version   string
	log       *zap.Logger

	mu       sync.RWMutex
	checkers map[string]Checker
}

func NewService(cfg *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   cfg.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if cfg.DB != nil {
		s.RegisterChecker("database", s.probe("database", StatusUnhealthy, cfg.DB.PingContext))
	}
	if cfg.Cache != nil {
		s.RegisterChecker("cache", s.probe("cache", StatusUnhealthy, ignoreContext(cfg.Cache.Ping)))
	}
	// Without the bus notifications are dropped but the board keeps working.
	if cfg.Queue != nil {
		s.RegisterChecker("queue", s.probe("queue", StatusDegraded, ignoreContext(cfg.Queue.Ping)))
	}
	if cfg.Catalog != nil {
		s.RegisterChecker("achievements", s.probe("achievements", StatusDegraded, catalogSeeded(cfg.Catalog)))
	}
	return s
}

func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Debug("Registered health checker", zap.String("name", name))
}

// Health is the liveness probe; it never touches dependencies.
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every registered checker concurrently. Any unhealthy check
// makes the service not ready; degraded checks only lower the status.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	names := make([]string, 0, len(s.checkers))
	for name := range s.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = s.checkers[name]
	}
	s.mu.RUnlock()

	results := make([]CheckResult, len(checkers))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checkers {
		i, check := i, check
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, checkTimeout)
			defer cancel()
			results[i] = check(cctx)
			return nil
		})
	}
	g.Wait()

	resp := &ReadyResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckResult, len(results)),
	}
	for i, r := range results {
		resp.Checks[names[i]] = r
		switch r.Status {
		case StatusUnhealthy:
			resp.Ready = false
			resp.Status = StatusUnhealthy
		case StatusDegraded:
			if resp.Status == StatusHealthy {
				resp.Status = StatusDegraded
			}
		}
	}
	return resp
}

// probe turns ping into a Checker reporting onFailure when ping errors.
func (s *Service) probe(name string, onFailure Status, ping func(ctx context.Context) error) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		r := CheckResult{Name: name, Status: StatusHealthy, Duration: time.Since(start), Timestamp: start}
		if err != nil {
			r.Status = onFailure
			r.Message = err.Error()
			s.log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
		}
		return r
	}
}

func ignoreContext(ping func() error) func(context.Context) error {
	return func(context.Context) error { return ping() }
}

func catalogSeeded(repo ports.AchievementRepository) func(context.Context) error {
	return func(ctx context.Context) error {
		list, err := repo.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return errors.New("achievement catalog is empty, run questctl seed-achievements")
		}
		return nil
	}
}
