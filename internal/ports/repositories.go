package ports

import (
	"context"

	"github.com/seu-repo/quest-board/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CardRepository persists cards. Every call is scoped to the owning user.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, userID, id string) (*domain.Card, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Card, error)
	Update(ctx context.Context, userID, id string, updates map[string]interface{}) error
	// Delete removes the card and every connection referencing it.
	Delete(ctx context.Context, userID, id string) error
	DeleteAllByUser(ctx context.Context, userID string) error
	// UpsertMany writes the given cards in one batch keyed by id.
	UpsertMany(ctx context.Context, cards []domain.Card) error
	CreateMany(ctx context.Context, cards []domain.Card) error
	CountCompleted(ctx context.Context, userID string) (int, error)
	CountCompletedByService(ctx context.Context, userID string) (map[domain.ServiceType]int, error)
}

type ColumnRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Column, error)
	CreateMany(ctx context.Context, columns []domain.Column) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

type ProfileRepository interface {
	Save(ctx context.Context, profile *domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type AchievementRepository interface {
	List(ctx context.Context) ([]domain.Achievement, error)
	Seed(ctx context.Context, achievements []domain.Achievement) error
}

type UserAchievementRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.UserAchievement, error)
	// Create returns ErrAlreadyEarned when the pair already exists.
	Create(ctx context.Context, ua *domain.UserAchievement) error
}

type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.CardConnection) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.CardConnection, error)
	ListByCards(ctx context.Context, cardIDs []string) ([]domain.CardConnection, error)
}
