package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

// MockCardRepository keeps cards in memory unless a Func override is set.
type MockCardRepository struct {
	mu    sync.Mutex
	Cards map[string]domain.Card

	CreateFunc          func(ctx context.Context, card *domain.Card) error
	UpdateFunc          func(ctx context.Context, userID, id string, updates map[string]interface{}) error
	DeleteFunc          func(ctx context.Context, userID, id string) error
	DeleteAllByUserFunc func(ctx context.Context, userID string) error
	UpsertManyFunc      func(ctx context.Context, cards []domain.Card) error
	CreateManyFunc      func(ctx context.Context, cards []domain.Card) error
	CountCompletedFunc  func(ctx context.Context, userID string) (int, error)

	UpsertCalls [][]domain.Card
}

func NewMockCardRepository(cards ...domain.Card) *MockCardRepository {
	m := &MockCardRepository{Cards: make(map[string]domain.Card)}
	for _, c := range cards {
		m.Cards[c.ID] = c
	}
	return m
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cards[card.ID] = *card
	return nil
}

func (m *MockCardRepository) FindByID(ctx context.Context, userID, id string) (*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Cards[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (m *MockCardRepository) ListByUser(ctx context.Context, userID string) ([]domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Card
	for _, c := range m.Cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockCardRepository) Update(ctx context.Context, userID, id string, updates map[string]interface{}) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, updates)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Cards[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	if v, ok := updates["status"].(domain.CardStatus); ok {
		c.Status = v
	}
	if v, ok := updates["title"].(string); ok {
		c.Title = v
	}
	if v, ok := updates["points"].(int); ok {
		c.Points = v
	}
	m.Cards[id] = c
	return nil
}

func (m *MockCardRepository) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Cards[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.Cards, id)
	return nil
}

func (m *MockCardRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	if m.DeleteAllByUserFunc != nil {
		return m.DeleteAllByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.Cards {
		if c.UserID == userID {
			delete(m.Cards, id)
		}
	}
	return nil
}

func (m *MockCardRepository) UpsertMany(ctx context.Context, cards []domain.Card) error {
	m.mu.Lock()
	m.UpsertCalls = append(m.UpsertCalls, append([]domain.Card(nil), cards...))
	m.mu.Unlock()
	if m.UpsertManyFunc != nil {
		return m.UpsertManyFunc(ctx, cards)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cards {
		m.Cards[c.ID] = c
	}
	return nil
}

func (m *MockCardRepository) CreateMany(ctx context.Context, cards []domain.Card) error {
	if m.CreateManyFunc != nil {
		return m.CreateManyFunc(ctx, cards)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cards {
		m.Cards[c.ID] = c
	}
	return nil
}

func (m *MockCardRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	if m.CountCompletedFunc != nil {
		return m.CountCompletedFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Cards {
		if c.UserID == userID && c.Status == domain.CardStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (m *MockCardRepository) CountCompletedByService(ctx context.Context, userID string) (map[domain.ServiceType]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.ServiceType]int)
	for _, c := range m.Cards {
		if c.UserID == userID && c.Status == domain.CardStatusCompleted {
			out[c.ServiceType]++
		}
	}
	return out, nil
}

// MockColumnRepository keeps columns in memory unless a Func override is set.
type MockColumnRepository struct {
	mu      sync.Mutex
	Columns []domain.Column

	ListByUserFunc      func(ctx context.Context, userID string) ([]domain.Column, error)
	CreateManyFunc      func(ctx context.Context, columns []domain.Column) error
	DeleteAllByUserFunc func(ctx context.Context, userID string) error
}

func (m *MockColumnRepository) ListByUser(ctx context.Context, userID string) ([]domain.Column, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Column
	for _, c := range m.Columns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MockColumnRepository) CreateMany(ctx context.Context, columns []domain.Column) error {
	if m.CreateManyFunc != nil {
		return m.CreateManyFunc(ctx, columns)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Columns = append(m.Columns, columns...)
	return nil
}

func (m *MockColumnRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	if m.DeleteAllByUserFunc != nil {
		return m.DeleteAllByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Columns[:0]
	for _, c := range m.Columns {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	m.Columns = kept
	return nil
}

// MockProfileRepository keeps profiles in memory unless a Func override is set.
type MockProfileRepository struct {
	mu       sync.Mutex
	Profiles map[string]domain.Profile

	UpdateFunc func(ctx context.Context, profile *domain.Profile) error
}

func NewMockProfileRepository(profiles ...domain.Profile) *MockProfileRepository {
	m := &MockProfileRepository{Profiles: make(map[string]domain.Profile)}
	for _, p := range profiles {
		m.Profiles[p.UserID] = p
	}
	return m
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles[profile.UserID] = *profile
	return nil
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles[profile.UserID] = *profile
	return nil
}

// MockAchievementRepository serves a fixed catalog.
type MockAchievementRepository struct {
	Catalog   []domain.Achievement
	ListCalls int
}

func (m *MockAchievementRepository) List(ctx context.Context) ([]domain.Achievement, error) {
	m.ListCalls++
	return m.Catalog, nil
}

func (m *MockAchievementRepository) Seed(ctx context.Context, achievements []domain.Achievement) error {
	m.Catalog = achievements
	return nil
}

// MockUserAchievementRepository enforces the (user, achievement) uniqueness
// of the real store.
type MockUserAchievementRepository struct {
	mu     sync.Mutex
	Earned []domain.UserAchievement

	CreateFunc func(ctx context.Context, ua *domain.UserAchievement) error
}

func (m *MockUserAchievementRepository) ListByUser(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UserAchievement
	for _, ua := range m.Earned {
		if ua.UserID == userID {
			out = append(out, ua)
		}
	}
	return out, nil
}

func (m *MockUserAchievementRepository) Create(ctx context.Context, ua *domain.UserAchievement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ua)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Earned {
		if e.UserID == ua.UserID && e.AchievementID == ua.AchievementID {
			return ports.ErrAlreadyEarned
		}
	}
	m.Earned = append(m.Earned, *ua)
	return nil
}

// MockConnectionRepository keeps connections in memory.
type MockConnectionRepository struct {
	mu          sync.Mutex
	Connections map[string]domain.CardConnection

	CreateFunc func(ctx context.Context, conn *domain.CardConnection) error
}

func NewMockConnectionRepository() *MockConnectionRepository {
	return &MockConnectionRepository{Connections: make(map[string]domain.CardConnection)}
}

func (m *MockConnectionRepository) Create(ctx context.Context, conn *domain.CardConnection) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, conn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connections[conn.ID] = *conn
	return nil
}

func (m *MockConnectionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Connections, id)
	return nil
}

func (m *MockConnectionRepository) FindByID(ctx context.Context, id string) (*domain.CardConnection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Connections[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MockConnectionRepository) ListByCards(ctx context.Context, cardIDs []string) ([]domain.CardConnection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		ids[id] = true
	}
	var out []domain.CardConnection
	for _, c := range m.Connections {
		if ids[c.SourceCardID] || ids[c.TargetCardID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
