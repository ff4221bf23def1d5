package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/observability/telemetry"
	"github.com/seu-repo/quest-board/internal/ports"
)

const catalogCacheKey = "achievements:catalog"

type Options struct {
	LevelSize  int
	MaxRounds  int
	CatalogTTL time.Duration
}

type Service struct {
	profiles     ports.ProfileRepository
	achievements ports.AchievementRepository
	earned       ports.UserAchievementRepository
	cards        ports.CardRepository
	cache        ports.Cache
	notifier     ports.Notifier
	opts         Options
	locks        sync.Map // user id -> *sync.Mutex
	log          *zap.Logger
}

func NewService(
	profiles ports.ProfileRepository,
	achievements ports.AchievementRepository,
	earned ports.UserAchievementRepository,
	cards ports.CardRepository,
	cache ports.Cache,
	notifier ports.Notifier,
	opts Options,
	log *zap.Logger,
) ports.GamificationService {
	if opts.LevelSize <= 0 {
		opts.LevelSize = domain.DefaultLevelSize
	}
	return &Service{
		profiles:     profiles,
		achievements: achievements,
		earned:       earned,
		cards:        cards,
		cache:        cache,
		notifier:     notifier,
		opts:         opts,
		log:          log,
	}
}

func (s *Service) lock(userID string) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) EnsureProfile(ctx context.Context, userID, name string) (*domain.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find profile", Err: err}
	}
	if p != nil {
		return p, nil
	}

	now := time.Now()
	p = &domain.Profile{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		// A concurrent request may have created it first.
		if existing, ferr := s.profiles.FindByUserID(ctx, userID); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, &domain.PersistenceError{Op: "create profile", Err: err}
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find profile", Err: err}
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) NextLevelProgress(ctx context.Context, userID string) (int, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return domain.NextLevelProgress(p, s.opts.LevelSize), nil
}

// AddExperience credits points to the user's profile and then evaluates
// achievements.
func (s *Service) AddExperience(ctx context.Context, userID string, points int) (*domain.Profile, error) {
	if points < 0 {
		return nil, &domain.ValidationError{Field: "points", Message: "must not be negative"}
	}

	unlock := s.lock(userID)
	defer unlock()

	profile, err := s.EnsureProfile(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	if profile, err = s.credit(ctx, profile, points); err != nil {
		return nil, err
	}
	if _, profile, err = s.check(ctx, profile); err != nil {
		return profile, err
	}
	return profile, nil
}

func (s *Service) CheckAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	unlock := s.lock(userID)
	defer unlock()

	profile, err := s.EnsureProfile(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	unlocked, _, err := s.check(ctx, profile)
	return unlocked, err
}

// credit adds points to experience and total points, recomputes the level
// and persists. Callers hold the user lock.
func (s *Service) credit(ctx context.Context, p *domain.Profile, points int) (*domain.Profile, error) {
	next := *p
	next.Experience += points
	next.TotalPoints += points
	next.Level = domain.LevelFor(next.Experience, s.opts.LevelSize)
	if next.Level < p.Level {
		next.Level = p.Level
	}
	next.UpdatedAt = time.Now()

	if err := s.profiles.Update(ctx, &next); err != nil {
		s.log.Error("Failed to persist experience",
			zap.String("user_id", p.UserID),
			zap.Int("points", points),
			zap.Error(err),
		)
		return p, &domain.PersistenceError{Op: "update profile", Err: err}
	}
	telemetry.ExperienceGrantedTotal.Add(float64(points))

	if next.Level > p.Level {
		telemetry.LevelUpsTotal.Add(float64(next.Level - p.Level))
		s.log.Info("Level up",
			zap.String("user_id", p.UserID),
			zap.Int("from", p.Level),
			zap.Int("to", next.Level),
		)
		s.notify(ctx, domain.Notification{
			UserID:      p.UserID,
			Kind:        domain.NotifyLevelUp,
			Title:       "🎉 Level Up!",
			Description: fmt.Sprintf("Você alcançou o nível %d!", next.Level),
			Data:        map[string]int{"level": next.Level},
		})
	}
	return &next, nil
}

// check grants every achievement the user qualifies for. Granting one can
// raise total points and qualify another, so evaluation repeats until a
// round grants nothing, capped at the catalog size plus one rounds.
func (s *Service) check(ctx context.Context, profile *domain.Profile) ([]domain.Achievement, *domain.Profile, error) {
	userID := profile.UserID

	catalog, err := s.Achievements(ctx)
	if err != nil {
		return nil, profile, err
	}
	owned, err := s.earned.ListByUser(ctx, userID)
	if err != nil {
		return nil, profile, &domain.PersistenceError{Op: "list user achievements", Err: err}
	}
	earned := make(map[string]bool, len(owned))
	for _, ua := range owned {
		earned[ua.AchievementID] = true
	}

	stats, err := s.stats(ctx, profile)
	if err != nil {
		return nil, profile, err
	}

	maxRounds := s.opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = len(catalog) + 1
	}

	var unlocked []domain.Achievement
	for round := 0; round < maxRounds; round++ {
		granted := false
		for _, a := range catalog {
			if earned[a.ID] || !Satisfied(a, stats) {
				continue
			}

			err := s.earned.Create(ctx, &domain.UserAchievement{
				ID:            uuid.New().String(),
				UserID:        userID,
				AchievementID: a.ID,
				EarnedAt:      time.Now(),
			})
			if errors.Is(err, ports.ErrAlreadyEarned) {
				earned[a.ID] = true
				continue
			}
			if err != nil {
				return unlocked, profile, &domain.PersistenceError{Op: "record achievement", Err: err}
			}
			earned[a.ID] = true
			granted = true
			unlocked = append(unlocked, a)

			telemetry.AchievementsUnlockedTotal.WithLabelValues(string(a.ConditionType)).Inc()
			s.log.Info("Achievement unlocked",
				zap.String("user_id", userID),
				zap.String("achievement", a.Name),
				zap.Int("points", a.Points),
			)
			s.notify(ctx, domain.Notification{
				UserID:      userID,
				Kind:        domain.NotifyAchievementEarned,
				Title:       "🏆 Conquista desbloqueada!",
				Description: fmt.Sprintf("%s - +%d XP", a.Name, a.Points),
				Data:        a,
			})

			if a.Points > 0 {
				if profile, err = s.credit(ctx, profile, a.Points); err != nil {
					return unlocked, profile, err
				}
				stats.TotalPoints = profile.TotalPoints
				stats.Experience = profile.Experience
				stats.Level = profile.Level
			}
		}
		if !granted {
			break
		}
	}
	return unlocked, profile, nil
}

func (s *Service) stats(ctx context.Context, p *domain.Profile) (domain.UserStats, error) {
	completed, err := s.cards.CountCompleted(ctx, p.UserID)
	if err != nil {
		return domain.UserStats{}, &domain.PersistenceError{Op: "count completed cards", Err: err}
	}
	byService, err := s.cards.CountCompletedByService(ctx, p.UserID)
	if err != nil {
		return domain.UserStats{}, &domain.PersistenceError{Op: "count completed cards by service", Err: err}
	}
	return domain.UserStats{
		CompletedCards:     completed,
		CompletedByService: byService,
		TotalPoints:        p.TotalPoints,
		Experience:         p.Experience,
		Level:              p.Level,
	}, nil
}

// Achievements returns the catalog ordered by points, served from the cache
// when possible.
func (s *Service) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, catalogCacheKey); err == nil {
			var cached []domain.Achievement
			if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
				return cached, nil
			}
		}
	}

	catalog, err := s.achievements.List(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list achievements", Err: err}
	}

	if s.cache != nil {
		if data, err := json.Marshal(catalog); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, data, s.opts.CatalogTTL); err != nil {
				s.log.Debug("Failed to cache achievement catalog", zap.Error(err))
			}
		}
	}
	return catalog, nil
}

func (s *Service) UserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	list, err := s.earned.ListByUser(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list user achievements", Err: err}
	}
	return list, nil
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	if n.Variant == "" {
		n.Variant = "default"
	}
	n.CreatedAt = time.Now()
	s.notifier.Notify(ctx, n)
}
