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

type AchievementRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAchievementRepository(db *gorm.DB, log *zap.Logger) ports.AchievementRepository {
	return &AchievementRepository{db: db, log: log}
}

func (r *AchievementRepository) List(ctx context.Context) ([]domain.Achievement, error) {
	var list []domain.Achievement
	err := r.db.WithContext(ctx).Order("points asc").Order("name asc").Find(&list).Error
	return list, err
}

// Seed inserts the catalog, refreshing rows that already exist.
func (r *AchievementRepository) Seed(ctx context.Context, achievements []domain.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&achievements).Error
}

type UserAchievementRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserAchievementRepository(db *gorm.DB, log *zap.Logger) ports.UserAchievementRepository {
	return &UserAchievementRepository{db: db, log: log}
}

func (r *UserAchievementRepository) ListByUser(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	var list []domain.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at asc").
		Find(&list).Error
	return list, err
}

func (r *UserAchievementRepository) Create(ctx context.Context, ua *domain.UserAchievement) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(ua).Error
	if isUniqueViolation(err) {
		return ports.ErrAlreadyEarned
	}
	if err != nil && errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ErrNotFound
	}
	return err
}
