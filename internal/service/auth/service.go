package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ProfileInitializer creates the gamification profile of a new user.
type ProfileInitializer interface {
	EnsureProfile(ctx context.Context, userID, name string) (*domain.Profile, error)
}

type Service struct {
	userRepo ports.UserRepository
	profiles ProfileInitializer
	jwt      *JWTService
	log      *zap.Logger
}

func NewService(userRepo ports.UserRepository, profiles ProfileInitializer, jwtService *JWTService, log *zap.Logger) ports.AuthService {
	return &Service{
		userRepo: userRepo,
		profiles: profiles,
		jwt:      jwtService,
		log:      log,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		return "", "", ErrInvalidCredentials
	}
	if user.Status == "blocked" {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	return s.generateTokens(user)
}

func (s *Service) Register(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return &domain.ValidationError{Field: "email", Message: "is invalid"}
	}
	if len(user.Password) < 6 {
		return &domain.ValidationError{Field: "password", Message: "must have at least 6 characters"}
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return &domain.PersistenceError{Op: "find user", Err: err}
	}
	if existing != nil {
		return &domain.ValidationError{Field: "email", Message: "is already registered"}
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Password = string(hashedPwd)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = domain.UserRoleMember
	}
	user.Status = "active"

	if err := s.userRepo.Save(ctx, user); err != nil {
		return &domain.PersistenceError{Op: "save user", Err: err}
	}

	if s.profiles != nil {
		if _, err := s.profiles.EnsureProfile(ctx, user.ID, user.Name); err != nil {
			s.log.Error("Failed to create profile for new user", zap.String("user_id", user.ID), zap.Error(err))
			return err
		}
	}
	s.log.Info("User registered", zap.String("user_id", user.ID))
	return nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.Parse(ctx, refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil || user == nil {
		return "", errors.New("user not found")
	}

	return s.jwt.GenerateAccessToken(user)
}

// Logout revokes a refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.Parse(ctx, refreshToken, tokenTypeRefresh)
	if err != nil {
		return errors.New("invalid refresh token")
	}
	return s.jwt.RevokeToken(ctx, claims)
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.jwt.Parse(ctx, tokenStr, tokenTypeAccess)
	if err != nil {
		return nil, errors.New("invalid token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (s *Service) generateTokens(user *domain.User) (string, string, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
