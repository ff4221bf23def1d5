package ports

import (
	"context"

	"github.com/seu-repo/quest-board/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, refreshToken string) error
}

// BoardService is the card and column store of one user's board.
type BoardService interface {
	Load(ctx context.Context, userID string) (*domain.Board, error)
	Columns(ctx context.Context, userID string) ([]domain.Column, error)
	CreateCard(ctx context.Context, userID string, draft domain.CardDraft) (*domain.Card, error)
	UpdateCard(ctx context.Context, userID string, patch domain.CardPatch) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
	MoveCard(ctx context.Context, userID string, newList, oldList []domain.Card) error
	Drag(ctx context.Context, userID string, gesture domain.DragGesture) (*domain.Board, error)
	GenerateProjectPlan(ctx context.Context, userID string, tasks []domain.PlanTask) error
	Search(ctx context.Context, userID, query string) ([]domain.Card, error)
}

type GamificationService interface {
	EnsureProfile(ctx context.Context, userID, name string) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	AddExperience(ctx context.Context, userID string, points int) (*domain.Profile, error)
	CheckAchievements(ctx context.Context, userID string) ([]domain.Achievement, error)
	Achievements(ctx context.Context) ([]domain.Achievement, error)
	UserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error)
	NextLevelProgress(ctx context.Context, userID string) (int, error)
}

type PlanGenerator interface {
	Generate(ctx context.Context, description string) ([]domain.PlanTask, error)
}

type ConnectionService interface {
	Create(ctx context.Context, userID, sourceID, targetID string) (*domain.CardConnection, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]domain.CardConnection, error)
	Connected(ctx context.Context, userID, cardID string) (*domain.ConnectedCards, error)
}

// ImportService manages the preview-only project import of a user.
type ImportService interface {
	Load(ctx context.Context, userID string, raw []byte) (*domain.ProjectData, error)
	Get(ctx context.Context, userID string) (*domain.ProjectData, error)
	CardsByStatus(ctx context.Context, userID string, status domain.ImportStatus) ([]domain.ProjectCard, error)
	NextCards(ctx context.Context, userID, cardID string) ([]domain.ProjectCard, error)
	UpdateStatus(ctx context.Context, userID, cardID string, status domain.ImportStatus) (*domain.ProjectData, error)
	AddCard(ctx context.Context, userID string, card domain.ProjectCard) (*domain.ProjectData, error)
	UpdateCard(ctx context.Context, userID string, card domain.ProjectCard) (*domain.ProjectData, error)
	DeleteCard(ctx context.Context, userID, cardID string) (*domain.ProjectData, error)
	Discard(ctx context.Context, userID string) error
	PlanTasks(ctx context.Context, userID string) ([]domain.PlanTask, error)
}
