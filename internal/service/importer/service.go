package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

type Options struct {
	SessionTTL        time.Duration
	MaxBytes          int
	DefaultCardPoints int
}

// Service keeps one import preview per user in the cache. Nothing here
// touches the board; PlanTasks is the explicit bridge to it.
type Service struct {
	cache ports.Cache
	opts  Options
	log   *zap.Logger
}

func NewService(cache ports.Cache, opts Options, log *zap.Logger) ports.ImportService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.DefaultCardPoints <= 0 {
		opts.DefaultCardPoints = 10
	}
	return &Service{cache: cache, opts: opts, log: log}
}

// Parse decodes and validates a project file.
func Parse(raw []byte) (*domain.ProjectData, error) {
	var data domain.ProjectData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	if data.Cards == nil {
		return nil, &domain.ParseError{Err: errors.New("missing cards array")}
	}

	seen := make(map[string]bool, len(data.Cards))
	for i := range data.Cards {
		c := &data.Cards[i]
		if err := c.Validate(); err != nil {
			return nil, &domain.ParseError{Err: fmt.Errorf("card %d: %w", i, err)}
		}
		if seen[c.ID] {
			return nil, &domain.ParseError{Err: fmt.Errorf("duplicate card id %q", c.ID)}
		}
		seen[c.ID] = true
		if c.Proximos == nil {
			c.Proximos = []string{}
		}
	}
	return &data, nil
}

func (s *Service) Load(ctx context.Context, userID string, raw []byte) (*domain.ProjectData, error) {
	if s.opts.MaxBytes > 0 && len(raw) > s.opts.MaxBytes {
		return nil, &domain.ParseError{Err: fmt.Errorf("file exceeds %d bytes", s.opts.MaxBytes)}
	}
	data, err := Parse(raw)
	if err != nil {
		s.log.Warn("Rejected project file", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if err := s.save(ctx, userID, data); err != nil {
		return nil, err
	}
	s.log.Info("Project file loaded", zap.String("user_id", userID), zap.Int("cards", len(data.Cards)))
	return data, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.ProjectData, error) {
	raw, err := s.cache.Get(ctx, sessionKey(userID))
	if err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.PersistenceError{Op: "load import session", Err: err}
	}
	var data domain.ProjectData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, &domain.PersistenceError{Op: "decode import session", Err: err}
	}
	return &data, nil
}

func (s *Service) CardsByStatus(ctx context.Context, userID string, status domain.ImportStatus) ([]domain.ProjectCard, error) {
	data, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CardsByStatus(data, status), nil
}

func (s *Service) NextCards(ctx context.Context, userID, cardID string) ([]domain.ProjectCard, error) {
	data, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NextCards(data, cardID), nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID, cardID string, status domain.ImportStatus) (*domain.ProjectData, error) {
	if !status.IsValid() {
		return nil, &domain.ValidationError{Field: "status_inicial", Message: "unknown status " + string(status)}
	}
	return s.mutate(ctx, userID, func(d *domain.ProjectData) error {
		c := CardByID(d, cardID)
		if c == nil {
			return domain.ErrNotFound
		}
		c.StatusInicial = status
		return nil
	})
}

func (s *Service) AddCard(ctx context.Context, userID string, card domain.ProjectCard) (*domain.ProjectData, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}
	if card.Proximos == nil {
		card.Proximos = []string{}
	}
	return s.mutate(ctx, userID, func(d *domain.ProjectData) error {
		if CardByID(d, card.ID) != nil {
			return &domain.ValidationError{Field: "id", Message: "already exists"}
		}
		d.Cards = append(d.Cards, card)
		return nil
	})
}

func (s *Service) UpdateCard(ctx context.Context, userID string, card domain.ProjectCard) (*domain.ProjectData, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}
	if card.Proximos == nil {
		card.Proximos = []string{}
	}
	return s.mutate(ctx, userID, func(d *domain.ProjectData) error {
		c := CardByID(d, card.ID)
		if c == nil {
			return domain.ErrNotFound
		}
		*c = card
		return nil
	})
}

func (s *Service) DeleteCard(ctx context.Context, userID, cardID string) (*domain.ProjectData, error) {
	return s.mutate(ctx, userID, func(d *domain.ProjectData) error {
		if CardByID(d, cardID) == nil {
			return domain.ErrNotFound
		}
		RemoveCard(d, cardID)
		return nil
	})
}

func (s *Service) Discard(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, sessionKey(userID)); err != nil {
		return &domain.PersistenceError{Op: "discard import session", Err: err}
	}
	return nil
}

// PlanTasks converts the preview into plan tasks in file order.
func (s *Service) PlanTasks(ctx context.Context, userID string) ([]domain.PlanTask, error) {
	data, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToPlanTasks(data, s.opts.DefaultCardPoints), nil
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*domain.ProjectData) error) (*domain.ProjectData, error) {
	data, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(data); err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Service) save(ctx context.Context, userID string, data *domain.ProjectData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return &domain.PersistenceError{Op: "encode import session", Err: err}
	}
	if err := s.cache.Set(ctx, sessionKey(userID), raw, s.opts.SessionTTL); err != nil {
		return &domain.PersistenceError{Op: "store import session", Err: err}
	}
	return nil
}

func sessionKey(userID string) string {
	return "import:session:" + userID
}
