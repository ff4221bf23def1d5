package connection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

type Service struct {
	repo  ports.ConnectionRepository
	cards ports.CardRepository
	log   *zap.Logger
}

func NewService(repo ports.ConnectionRepository, cards ports.CardRepository, log *zap.Logger) ports.ConnectionService {
	return &Service{repo: repo, cards: cards, log: log}
}

// Create links two of the user's cards with a manual connection.
func (s *Service) Create(ctx context.Context, userID, sourceID, targetID string) (*domain.CardConnection, error) {
	if sourceID == "" || targetID == "" {
		return nil, &domain.ValidationError{Field: "source_card_id", Message: "and target_card_id are required"}
	}
	for _, id := range []string{sourceID, targetID} {
		if err := s.owned(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	conn := &domain.CardConnection{
		ID:            uuid.New().String(),
		SourceCardID:  sourceID,
		TargetCardID:  targetID,
		ConditionType: domain.ConnectionManual,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		s.log.Error("Failed to create connection", zap.String("user_id", userID), zap.Error(err))
		return nil, &domain.PersistenceError{Op: "create connection", Err: err}
	}
	return conn, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	conn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &domain.PersistenceError{Op: "find connection", Err: err}
	}
	if conn == nil {
		return domain.ErrNotFound
	}
	if err := s.owned(ctx, userID, conn.SourceCardID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return &domain.PersistenceError{Op: "delete connection", Err: err}
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.CardConnection, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list cards", Err: err}
	}
	if len(cards) == 0 {
		return []domain.CardConnection{}, nil
	}
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	conns, err := s.repo.ListByCards(ctx, ids)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list connections", Err: err}
	}
	return conns, nil
}

// Connected returns the cards cardID points to and the cards pointing to it.
func (s *Service) Connected(ctx context.Context, userID, cardID string) (*domain.ConnectedCards, error) {
	if err := s.owned(ctx, userID, cardID); err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list cards", Err: err}
	}
	byID := make(map[string]domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	conns, err := s.repo.ListByCards(ctx, []string{cardID})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list connections", Err: err}
	}

	out := &domain.ConnectedCards{Targets: []domain.Card{}, Sources: []domain.Card{}}
	for _, c := range conns {
		if c.SourceCardID == cardID {
			if card, ok := byID[c.TargetCardID]; ok {
				out.Targets = append(out.Targets, card)
			}
		}
		if c.TargetCardID == cardID {
			if card, ok := byID[c.SourceCardID]; ok {
				out.Sources = append(out.Sources, card)
			}
		}
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, userID, cardID string) error {
	card, err := s.cards.FindByID(ctx, userID, cardID)
	if err != nil {
		return &domain.PersistenceError{Op: "find card", Err: err}
	}
	if card == nil {
		return domain.ErrNotFound
	}
	return nil
}
