package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

// moveColumns are rewritten by UpsertMany on conflict.
var moveColumns = []string{"column_id", "position", "status", "updated_at"}

type CardRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCardRepository(db *gorm.DB, log *zap.Logger) ports.CardRepository {
	return &CardRepository{
		db:  db,
		log: log,
	}
}

func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CardRepository) FindByID(ctx context.Context, userID, id string) (*domain.Card, error) {
	var card domain.Card
	err := r.db.WithContext(ctx).First(&card, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) ListByUser(ctx context.Context, userID string) ([]domain.Card, error) {
	var cards []domain.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position asc").
		Order("created_at asc").
		Find(&cards).Error
	return cards, err
}

func (r *CardRepository) Update(ctx context.Context, userID, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the card and its connections in one transaction.
func (r *CardRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Card{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("source_card_id = ? OR target_card_id = ?", id, id).
			Delete(&domain.CardConnection{}).Error
	})
}

func (r *CardRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&domain.Card{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("source_card_id IN (?) OR target_card_id IN (?)", owned, owned).
			Delete(&domain.CardConnection{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&domain.Card{}).Error
	})
}

// UpsertMany writes the placement of the given cards in a single statement.
func (r *CardRepository) UpsertMany(ctx context.Context, cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(moveColumns),
		}).
		Create(&cards).Error
}

func (r *CardRepository) CreateMany(ctx context.Context, cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&cards, 100).Error
}

func (r *CardRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("user_id = ? AND status = ?", userID, domain.CardStatusCompleted).
		Count(&n).Error
	return int(n), err
}

func (r *CardRepository) CountCompletedByService(ctx context.Context, userID string) (map[domain.ServiceType]int, error) {
	var rows []struct {
		ServiceType domain.ServiceType
		Total       int
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Select("service_type, count(*) as total").
		Where("user_id = ? AND status = ?", userID, domain.CardStatusCompleted).
		Group("service_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[domain.ServiceType]int, len(rows))
	for _, row := range rows {
		out[row.ServiceType] = row.Total
	}
	return out, nil
}
