package board

import (
	"sort"

	"github.com/seu-repo/quest-board/internal/domain"
)

// ApplyDrag computes the full card list after a drop. It never mutates
// cards; when the gesture cannot be resolved it returns an unchanged copy.
func ApplyDrag(cards []domain.Card, g domain.DragGesture) []domain.Card {
	out := append([]domain.Card(nil), cards...)
	if g.ActiveCardID == "" || g.ActiveCardID == g.OverTargetID {
		return out
	}

	active, ok := findCard(cards, g.ActiveCardID)
	if !ok {
		return out
	}
	source := active.ColumnID

	var destination string
	switch g.OverTargetKind {
	case domain.OverColumn:
		destination = g.OverTargetID
	default:
		if over, ok := findCard(cards, g.OverTargetID); ok {
			destination = over.ColumnID
		}
	}
	if destination == "" {
		return out
	}

	if source == destination {
		return reorderWithin(cards, active, g)
	}
	return moveAcross(cards, active, destination, g)
}

func reorderWithin(cards []domain.Card, active domain.Card, g domain.DragGesture) []domain.Card {
	column := columnCards(cards, active.ColumnID)
	from := indexOf(column, active.ID)

	to := len(column) - 1
	if g.OverTargetKind != domain.OverColumn {
		to = indexOf(column, g.OverTargetID)
	}
	if from < 0 || to < 0 {
		return append([]domain.Card(nil), cards...)
	}

	moved := column[from]
	column = append(column[:from], column[from+1:]...)
	column = insertAt(column, to, moved)
	rank(column)

	return merge(cards, column)
}

func moveAcross(cards []domain.Card, active domain.Card, destination string, g domain.DragGesture) []domain.Card {
	src := columnCards(cards, active.ColumnID)
	if i := indexOf(src, active.ID); i >= 0 {
		src = append(src[:i], src[i+1:]...)
	}
	rank(src)

	dst := columnCards(cards, destination)
	at := len(dst)
	if g.OverTargetKind != domain.OverColumn {
		if i := indexOf(dst, g.OverTargetID); i >= 0 {
			at = i
		}
	}
	active.ColumnID = destination
	dst = insertAt(dst, at, active)
	rank(dst)

	return merge(cards, append(src, dst...))
}

// ChangedCards returns the cards of next whose position or column differ
// from prev, plus cards that are absent from prev.
func ChangedCards(next, prev []domain.Card) []domain.Card {
	before := make(map[string]domain.Card, len(prev))
	for _, c := range prev {
		before[c.ID] = c
	}

	var changed []domain.Card
	for _, c := range next {
		old, ok := before[c.ID]
		if !ok || old.Position != c.Position || old.ColumnID != c.ColumnID {
			changed = append(changed, c)
		}
	}
	return changed
}

// closeGap re-ranks the column of cardID without it and returns the
// siblings whose position changed.
func closeGap(cards []domain.Card, cardID string) []domain.Card {
	removed, ok := findCard(cards, cardID)
	if !ok {
		return nil
	}
	siblings := columnCards(cards, removed.ColumnID)
	i := indexOf(siblings, cardID)
	rest := append(append([]domain.Card(nil), siblings[:i]...), siblings[i+1:]...)
	prev := append([]domain.Card(nil), rest...)
	rank(rest)
	return ChangedCards(rest, prev)
}

// columnCards returns copies of the cards in column ordered by position.
func columnCards(cards []domain.Card, columnID string) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// merge replaces the cards of touched by id and keeps every other card.
// Replaced cards come last, in the order given.
func merge(cards []domain.Card, touched []domain.Card) []domain.Card {
	ids := make(map[string]struct{}, len(touched))
	for _, c := range touched {
		ids[c.ID] = struct{}{}
	}
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if _, ok := ids[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return append(out, touched...)
}

func rank(cards []domain.Card) {
	for i := range cards {
		cards[i].Position = i
	}
}

func insertAt(cards []domain.Card, i int, c domain.Card) []domain.Card {
	if i < 0 || i > len(cards) {
		i = len(cards)
	}
	cards = append(cards, domain.Card{})
	copy(cards[i+1:], cards[i:])
	cards[i] = c
	return cards
}

func indexOf(cards []domain.Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func findCard(cards []domain.Card, id string) (domain.Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Card{}, false
}
