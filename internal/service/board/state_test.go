package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seu-repo/quest-board/internal/domain"
)

func TestStore_DispatchAndSubscribe(t *testing.T) {
	store := NewStore("u1")
	var seen []ActionKind
	unsubscribe := store.Subscribe(func(state domain.Board, a Action) {
		seen = append(seen, a.Kind)
		assert.Equal(t, "u1", state.UserID)
	})

	store.Dispatch(Action{Kind: ActionLoaded, Board: &domain.Board{
		Columns: []domain.Column{{ID: "backlog"}},
		Cards:   []domain.Card{c("a", "backlog", 0)},
	}})
	b := c("b", "backlog", 1)
	store.Dispatch(Action{Kind: ActionCardAdded, Card: &b})
	b.Title = "renamed"
	store.Dispatch(Action{Kind: ActionCardUpdated, Card: &b})
	store.Dispatch(Action{Kind: ActionCardRemoved, CardID: "a"})

	unsubscribe()
	store.Dispatch(Action{Kind: ActionCardRemoved, CardID: "b"})

	assert.True(t, store.Loaded())
	assert.Equal(t, []ActionKind{ActionLoaded, ActionCardAdded, ActionCardUpdated, ActionCardRemoved}, seen)
	assert.Empty(t, store.Snapshot().Cards)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore("u1")
	store.Dispatch(Action{Kind: ActionCardsReplaced, Cards: []domain.Card{c("a", "backlog", 0)}})

	snap := store.Snapshot()
	snap.Cards[0].Position = 9

	assert.Equal(t, 0, store.Snapshot().Cards[0].Position)
}

func TestStore_RemovalAppliesReRankedSiblings(t *testing.T) {
	store := NewStore("u1")
	store.Dispatch(Action{Kind: ActionCardsReplaced, Cards: []domain.Card{
		c("a", "backlog", 0), c("b", "backlog", 1), c("x", "doing", 0),
	}})

	store.Dispatch(Action{Kind: ActionCardRemoved, CardID: "a", Cards: []domain.Card{c("b", "backlog", 0)}})

	assert.Equal(t, []domain.Card{c("b", "backlog", 0), c("x", "doing", 0)}, store.Snapshot().Cards)
}

func TestSettle(t *testing.T) {
	previous := []domain.Card{c("a", "backlog", 0), c("b", "backlog", 1)}
	optimistic := []domain.Card{c("b", "backlog", 0), c("a", "backlog", 1)}

	t.Run("write failed restores previous exactly", func(t *testing.T) {
		got, kind := settle(previous, optimistic, errors.New("timeout"))

		assert.Equal(t, ActionMoveRolledBack, kind)
		assert.Equal(t, previous, got)
	})

	t.Run("write succeeded keeps optimistic", func(t *testing.T) {
		got, kind := settle(previous, optimistic, nil)

		assert.Equal(t, ActionCardsReplaced, kind)
		assert.Equal(t, optimistic, got)
	})
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	created := 0
	r, err := NewRegistry(2, func(*Store) { created++ })
	assert.NoError(t, err)
	get := func(userID string) *Store {
		s, release := r.Acquire(userID)
		release()
		return s
	}

	first := get("u1")
	get("u2")
	assert.Same(t, first, get("u1"))
	get("u3")

	assert.Equal(t, 2, r.Len())
	get("u2")
	assert.Equal(t, 4, created, "evicted store should be rebuilt")
}

func TestRegistry_KeepsStoreInUseAcrossEviction(t *testing.T) {
	r, err := NewRegistry(1, nil)
	assert.NoError(t, err)

	held, release := r.Acquire("u1")
	_, releaseOther := r.Acquire("u2")
	releaseOther()

	again, releaseAgain := r.Acquire("u1")
	assert.Same(t, held, again, "a store with an operation in flight must not be replaced")
	releaseAgain()
	release()
	release()

	_, releaseOther = r.Acquire("u2")
	releaseOther()
	fresh, releaseFresh := r.Acquire("u1")
	defer releaseFresh()
	assert.NotSame(t, held, fresh, "an idle evicted store is rebuilt")
}
