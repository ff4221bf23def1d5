package gamification

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/mocks"
	"github.com/seu-repo/quest-board/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fixture struct {
	svc      ports.GamificationService
	profiles *mocks.MockProfileRepository
	catalog  *mocks.MockAchievementRepository
	earned   *mocks.MockUserAchievementRepository
	cards    *mocks.MockCardRepository
	notifier *mocks.MockNotifier
}

func newFixture(profile *domain.Profile, catalog []domain.Achievement, opts Options, cards ...domain.Card) *fixture {
	f := &fixture{
		profiles: mocks.NewMockProfileRepository(),
		catalog:  &mocks.MockAchievementRepository{Catalog: catalog},
		earned:   &mocks.MockUserAchievementRepository{},
		cards:    mocks.NewMockCardRepository(cards...),
		notifier: &mocks.MockNotifier{},
	}
	if profile != nil {
		f.profiles.Profiles[profile.UserID] = *profile
	}
	f.svc = NewService(f.profiles, f.catalog, f.earned, f.cards, nil, f.notifier, opts, newTestLogger())
	return f
}

func completed(id string, svc domain.ServiceType) domain.Card {
	return domain.Card{ID: id, UserID: "u1", Status: domain.CardStatusCompleted, ServiceType: svc}
}

func TestAddExperience_LevelUp(t *testing.T) {
	// Arrange
	f := newFixture(&domain.Profile{ID: "p1", UserID: "u1", Level: 1, Experience: 980, TotalPoints: 980}, nil, Options{})

	// Act
	p, err := f.svc.AddExperience(context.Background(), "u1", 30)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Experience != 1010 || p.TotalPoints != 1010 || p.Level != 2 {
		t.Errorf("Expected 1010 XP at level 2, got %+v", p)
	}
	stored := f.profiles.Profiles["u1"]
	if stored.Experience != 1010 || stored.Level != 2 {
		t.Errorf("Expected persisted profile, got %+v", stored)
	}
	kinds := f.notifier.Kinds()
	if len(kinds) != 1 || kinds[0] != domain.NotifyLevelUp {
		t.Errorf("Expected one level_up notification, got %v", kinds)
	}
}

func TestAddExperience_NoLevelUpWithinBand(t *testing.T) {
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1, Experience: 100, TotalPoints: 100}, nil, Options{})

	p, err := f.svc.AddExperience(context.Background(), "u1", 50)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Level != 1 || p.Experience != 150 {
		t.Errorf("Unexpected profile %+v", p)
	}
	if len(f.notifier.Sent) != 0 {
		t.Errorf("Expected no notifications, got %v", f.notifier.Kinds())
	}
}

func TestAddExperience_CreatesMissingProfile(t *testing.T) {
	f := newFixture(nil, nil, Options{})

	p, err := f.svc.AddExperience(context.Background(), "u1", 10)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Level != 1 || p.Experience != 10 || p.ID == "" {
		t.Errorf("Unexpected profile %+v", p)
	}
}

func TestAddExperience_RejectsNegative(t *testing.T) {
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1, Experience: 100, TotalPoints: 100}, nil, Options{})

	_, err := f.svc.AddExperience(context.Background(), "u1", -5)

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if f.profiles.Profiles["u1"].Experience != 100 {
		t.Error("Expected experience unchanged")
	}
}

func TestAddExperience_PersistFailure(t *testing.T) {
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1, Experience: 990, TotalPoints: 990}, nil, Options{})
	f.profiles.UpdateFunc = func(ctx context.Context, profile *domain.Profile) error {
		return errors.New("connection reset")
	}

	_, err := f.svc.AddExperience(context.Background(), "u1", 20)

	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if len(f.notifier.Sent) != 0 {
		t.Error("Expected no level up notification for an unsaved profile")
	}
}

func TestCheckAchievements_FixedPoint(t *testing.T) {
	// Arrange: each grant qualifies the achievement listed before it, so a
	// single pass would only reach the last one.
	catalog := []domain.Achievement{
		{ID: "c", Name: "Seiscentos", ConditionType: domain.ConditionPointsEarned, ConditionValue: 600},
		{ID: "b", Name: "Quinhentos", Points: 100, ConditionType: domain.ConditionPointsEarned, ConditionValue: 500},
		{ID: "a", Name: "Primeiro Passo", Points: 500, ConditionType: domain.ConditionCardsCompleted, ConditionValue: 1},
	}
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1}, catalog, Options{}, completed("k1", domain.ServiceBoth))

	// Act
	p, err := f.svc.AddExperience(context.Background(), "u1", 10)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.earned.Earned) != 3 {
		t.Fatalf("Expected 3 achievements, got %d", len(f.earned.Earned))
	}
	if p.TotalPoints != 610 || p.Experience != 610 {
		t.Errorf("Expected 610 points, got %+v", p)
	}
}

func TestCheckAchievements_RoundCap(t *testing.T) {
	catalog := []domain.Achievement{
		{ID: "c", Name: "Seiscentos", ConditionType: domain.ConditionPointsEarned, ConditionValue: 600},
		{ID: "b", Name: "Quinhentos", Points: 100, ConditionType: domain.ConditionPointsEarned, ConditionValue: 500},
		{ID: "a", Name: "Primeiro Passo", Points: 500, ConditionType: domain.ConditionCardsCompleted, ConditionValue: 1},
	}
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1}, catalog, Options{MaxRounds: 1}, completed("k1", domain.ServiceBoth))

	unlocked, err := f.svc.CheckAchievements(context.Background(), "u1")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "a" {
		t.Errorf("Expected only a within one round, got %v", unlocked)
	}
}

func TestCheckAchievements_Idempotent(t *testing.T) {
	// Arrange
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1}, domain.DefaultAchievements(), Options{},
		completed("k1", domain.ServicePhysical))

	// Act
	first, err1 := f.svc.CheckAchievements(context.Background(), "u1")
	second, err2 := f.svc.CheckAchievements(context.Background(), "u1")

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("Expected no errors, got %v / %v", err1, err2)
	}
	if len(first) != 1 || first[0].Name != "Primeiro Passo" {
		t.Fatalf("Expected Primeiro Passo, got %v", first)
	}
	if len(second) != 0 {
		t.Errorf("Expected nothing on second check, got %v", second)
	}
	if len(f.earned.Earned) != 1 {
		t.Errorf("Expected one user achievement, got %d", len(f.earned.Earned))
	}
	if got := f.profiles.Profiles["u1"].TotalPoints; got != 50 {
		t.Errorf("Expected 50 points from the achievement, got %d", got)
	}
}

func TestCheckAchievements_ServiceType(t *testing.T) {
	var cards []domain.Card
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		cards = append(cards, completed("phys"+id, domain.ServicePhysical))
	}
	cards = append(cards, completed("dig", domain.ServiceDigital))
	catalog := []domain.Achievement{
		{ID: "phys", Name: "Mestre Físico", ConditionType: domain.ConditionServiceType, ConditionValue: 5},
		{ID: "dig", Name: "Mestre Digital", ConditionType: domain.ConditionServiceType, ConditionValue: 5},
	}
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1}, catalog, Options{}, cards...)

	unlocked, err := f.svc.CheckAchievements(context.Background(), "u1")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "phys" {
		t.Errorf("Expected only the physical achievement, got %v", unlocked)
	}
}

func TestCheckAchievements_ConcurrentGrantIsSkipped(t *testing.T) {
	catalog := []domain.Achievement{
		{ID: "a", Name: "Primeiro Passo", Points: 50, ConditionType: domain.ConditionCardsCompleted, ConditionValue: 1},
	}
	f := newFixture(&domain.Profile{UserID: "u1", Level: 1}, catalog, Options{}, completed("k1", domain.ServiceBoth))
	f.earned.CreateFunc = func(ctx context.Context, ua *domain.UserAchievement) error {
		return ports.ErrAlreadyEarned
	}

	unlocked, err := f.svc.CheckAchievements(context.Background(), "u1")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("Expected nothing unlocked, got %v", unlocked)
	}
	if f.profiles.Profiles["u1"].TotalPoints != 0 {
		t.Error("Expected no points for an achievement already held")
	}
}

func TestAchievements_CachesCatalog(t *testing.T) {
	catalog := &mocks.MockAchievementRepository{Catalog: domain.DefaultAchievements()}
	svc := NewService(mocks.NewMockProfileRepository(), catalog, &mocks.MockUserAchievementRepository{},
		mocks.NewMockCardRepository(), mocks.NewMockCache(), nil, Options{}, newTestLogger())

	for i := 0; i < 3; i++ {
		list, err := svc.Achievements(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(list) != len(domain.DefaultAchievements()) {
			t.Fatalf("Expected full catalog, got %d", len(list))
		}
	}

	if catalog.ListCalls != 1 {
		t.Errorf("Expected one repository read, got %d", catalog.ListCalls)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	f := newFixture(nil, nil, Options{})

	_, err := f.svc.GetProfile(context.Background(), "u1")

	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestNextLevelProgress(t *testing.T) {
	f := newFixture(&domain.Profile{UserID: "u1", Level: 2, Experience: 1255}, nil, Options{})

	got, err := f.svc.NextLevelProgress(context.Background(), "u1")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != 26 {
		t.Errorf("Expected 26, got %d", got)
	}
}
