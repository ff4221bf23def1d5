package board

import (
	"sync"

	"github.com/seu-repo/quest-board/internal/domain"
)

type ActionKind string

const (
	ActionLoaded         ActionKind = "loaded"
	ActionCardAdded      ActionKind = "card_added"
	ActionCardUpdated    ActionKind = "card_updated"
	ActionCardRemoved    ActionKind = "card_removed"
	ActionCardsStaged    ActionKind = "cards_staged"
	ActionCardsReplaced  ActionKind = "cards_replaced"
	ActionMoveRolledBack ActionKind = "move_rolled_back"
)

// Action is the only way board state changes. ActionCardsStaged carries an
// optimistic list that has not been written yet.
type Action struct {
	Kind    ActionKind
	Board   *domain.Board
	Card    *domain.Card
	CardID  string
	Cards   []domain.Card
	Columns []domain.Column
}

// Listener observes every dispatched action with the state it produced.
type Listener func(state domain.Board, action Action)

// Store holds the local board state of one user. Mutations go through
// Dispatch; ops serializes whole card-store operations for the user.
type Store struct {
	mu        sync.RWMutex
	state     domain.Board
	loaded    bool
	listeners map[int]Listener
	nextID    int

	ops sync.Mutex
}

func NewStore(userID string) *Store {
	return &Store{
		state:     domain.Board{UserID: userID},
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a to the state and notifies listeners outside the lock.
func (s *Store) Dispatch(a Action) domain.Board {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	if a.Kind == ActionLoaded {
		s.loaded = true
	}
	snapshot := s.state.Clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot.Clone(), a)
	}
	return snapshot
}

// exclusive runs fn while holding the user's operation lock.
func (s *Store) exclusive(fn func() error) error {
	s.ops.Lock()
	defer s.ops.Unlock()
	return fn()
}

func reduce(state domain.Board, a Action) domain.Board {
	next := state.Clone()
	switch a.Kind {
	case ActionLoaded:
		if a.Board != nil {
			next = a.Board.Clone()
			next.UserID = state.UserID
		}
	case ActionCardAdded:
		if a.Card != nil {
			next.Cards = append(next.Cards, *a.Card)
		}
	case ActionCardUpdated:
		if a.Card != nil {
			for i := range next.Cards {
				if next.Cards[i].ID == a.Card.ID {
					next.Cards[i] = *a.Card
				}
			}
		}
	case ActionCardRemoved:
		kept := next.Cards[:0]
		for _, c := range next.Cards {
			if c.ID != a.CardID {
				kept = append(kept, c)
			}
		}
		// a.Cards holds the re-ranked siblings of the removed card.
		next.Cards = overlay(kept, a.Cards)
	case ActionCardsStaged, ActionCardsReplaced, ActionMoveRolledBack:
		next.Cards = append([]domain.Card(nil), a.Cards...)
		if a.Columns != nil {
			next.Columns = append([]domain.Column(nil), a.Columns...)
		}
	}
	return next
}

// settle resolves an optimistic update: the optimistic list survives only
// when the remote write succeeded, otherwise the previous list is restored
// exactly.
func settle(previous, optimistic []domain.Card, writeErr error) ([]domain.Card, ActionKind) {
	if writeErr != nil {
		return append([]domain.Card(nil), previous...), ActionMoveRolledBack
	}
	return append([]domain.Card(nil), optimistic...), ActionCardsReplaced
}
