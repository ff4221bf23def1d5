package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

type ColumnRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewColumnRepository(db *gorm.DB, log *zap.Logger) ports.ColumnRepository {
	return &ColumnRepository{db: db, log: log}
}

func (r *ColumnRepository) ListByUser(ctx context.Context, userID string) ([]domain.Column, error) {
	var cols []domain.Column
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position asc").
		Find(&cols).Error
	return cols, err
}

func (r *ColumnRepository) CreateMany(ctx context.Context, columns []domain.Column) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&columns).Error
}

func (r *ColumnRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Column{}).Error
}
