package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

type ConnectionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewConnectionRepository(db *gorm.DB, log *zap.Logger) ports.ConnectionRepository {
	return &ConnectionRepository{db: db, log: log}
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *domain.CardConnection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.CardConnection{}).Error
}

func (r *ConnectionRepository) FindByID(ctx context.Context, id string) (*domain.CardConnection, error) {
	var conn domain.CardConnection
	err := r.db.WithContext(ctx).First(&conn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepository) ListByCards(ctx context.Context, cardIDs []string) ([]domain.CardConnection, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	var conns []domain.CardConnection
	err := r.db.WithContext(ctx).
		Where("source_card_id IN ? OR target_card_id IN ?", cardIDs, cardIDs).
		Order("created_at asc").
		Find(&conns).Error
	return conns, err
}
