package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

type ProfileRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProfileRepository(db *gorm.DB, log *zap.Logger) ports.ProfileRepository {
	return &ProfileRepository{db: db, log: log}
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Update writes the progression counters. The WHERE clause refuses any
// write that would move experience backwards.
func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("user_id = ? AND experience <= ? AND total_points <= ?", profile.UserID, profile.Experience, profile.TotalPoints).
		Updates(map[string]interface{}{
			"experience":   profile.Experience,
			"total_points": profile.TotalPoints,
			"level":        profile.Level,
			"updated_at":   profile.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("profile missing or counters would decrease")
	}
	return nil
}
