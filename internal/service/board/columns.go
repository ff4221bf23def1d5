package board

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

// ColumnStore owns the ordered status columns of each board.
type ColumnStore struct {
	repo ports.ColumnRepository
	log  *zap.Logger
}

func NewColumnStore(repo ports.ColumnRepository, log *zap.Logger) *ColumnStore {
	return &ColumnStore{repo: repo, log: log}
}

func (s *ColumnStore) List(ctx context.Context, userID string) ([]domain.Column, error) {
	cols, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list columns", Err: err}
	}
	return cols, nil
}

// EnsureDefaults returns the user's columns, seeding the defaults when the
// board has none.
func (s *ColumnStore) EnsureDefaults(ctx context.Context, userID string) ([]domain.Column, error) {
	cols, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		return cols, nil
	}
	s.log.Info("Seeding default columns", zap.String("user_id", userID))
	return s.CreateDefaults(ctx, userID)
}

// CreateDefaults inserts the default columns in order.
func (s *ColumnStore) CreateDefaults(ctx context.Context, userID string) ([]domain.Column, error) {
	now := time.Now()
	tpl := domain.DefaultColumns()
	cols := make([]domain.Column, len(tpl))
	for i, t := range tpl {
		cols[i] = domain.Column{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      t.Name,
			Color:     t.Color,
			Position:  i,
			CreatedAt: now,
		}
	}
	if err := s.repo.CreateMany(ctx, cols); err != nil {
		return nil, &domain.PersistenceError{Op: "create columns", Err: err}
	}
	return cols, nil
}

func (s *ColumnStore) DeleteAll(ctx context.Context, userID string) error {
	if err := s.repo.DeleteAllByUser(ctx, userID); err != nil {
		return &domain.PersistenceError{Op: "delete columns", Err: err}
	}
	return nil
}

// columnIDByName returns the id of the first column called name.
func columnIDByName(cols []domain.Column, name string) string {
	for _, c := range cols {
		if c.Name == name {
			return c.ID
		}
	}
	return ""
}

func hasColumn(cols []domain.Column, id string) bool {
	for _, c := range cols {
		if c.ID == id {
			return true
		}
	}
	return false
}
