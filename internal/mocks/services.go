package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/quest-board/internal/domain"
)

// MockGamificationService records experience grants.
type MockGamificationService struct {
	mu                sync.Mutex
	Granted           []int
	AddExperienceFunc func(ctx context.Context, userID string, points int) (*domain.Profile, error)
}

func (m *MockGamificationService) EnsureProfile(ctx context.Context, userID, name string) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID, Name: name, Level: 1}, nil
}

func (m *MockGamificationService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID, Level: 1}, nil
}

func (m *MockGamificationService) AddExperience(ctx context.Context, userID string, points int) (*domain.Profile, error) {
	m.mu.Lock()
	m.Granted = append(m.Granted, points)
	m.mu.Unlock()
	if m.AddExperienceFunc != nil {
		return m.AddExperienceFunc(ctx, userID, points)
	}
	return &domain.Profile{UserID: userID, Level: 1, Experience: points, TotalPoints: points}, nil
}

func (m *MockGamificationService) CheckAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	return nil, nil
}

func (m *MockGamificationService) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	return domain.DefaultAchievements(), nil
}

func (m *MockGamificationService) UserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	return nil, nil
}

func (m *MockGamificationService) NextLevelProgress(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (m *MockGamificationService) GrantedPoints() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.Granted...)
}

// MockNotifier collects notifications.
type MockNotifier struct {
	mu   sync.Mutex
	Sent []domain.Notification
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, n)
}

// Kinds returns the kinds of the collected notifications in order.
func (m *MockNotifier) Kinds() []domain.NotificationKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.NotificationKind, len(m.Sent))
	for i, n := range m.Sent {
		out[i] = n.Kind
	}
	return out
}

// MockBoardPublisher collects board events.
type MockBoardPublisher struct {
	mu     sync.Mutex
	Events []domain.BoardEvent
}

func (m *MockBoardPublisher) PublishBoard(ctx context.Context, ev domain.BoardEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
}

// MockEmailSender records sent e-mails.
type MockEmailSender struct {
	mu       sync.Mutex
	Sent     []SentEmail
	SendFunc func(ctx context.Context, to, subject, body string) error
}

type SentEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}
