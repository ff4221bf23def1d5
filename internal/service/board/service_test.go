package board

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/mocks"
	"github.com/seu-repo/quest-board/internal/ports"
)

const (
	colBacklog = "col-backlog"
	colDoing   = "col-doing"
	colDone    = "col-done"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fixture struct {
	svc       ports.BoardService
	cards     *mocks.MockCardRepository
	columns   *mocks.MockColumnRepository
	game      *mocks.MockGamificationService
	notifier  *mocks.MockNotifier
	publisher *mocks.MockBoardPublisher
}

func defaultColumns(userID string) []domain.Column {
	return []domain.Column{
		{ID: colBacklog, UserID: userID, Name: domain.BacklogColumnName, Position: 0},
		{ID: colDoing, UserID: userID, Name: domain.InProgressColumnName, Position: 1},
		{ID: colDone, UserID: userID, Name: domain.DoneColumnName, Position: 2},
	}
}

func newFixture(t *testing.T, cards ...domain.Card) *fixture {
	t.Helper()
	f := &fixture{
		cards:     mocks.NewMockCardRepository(cards...),
		columns:   &mocks.MockColumnRepository{Columns: defaultColumns("u1")},
		game:      &mocks.MockGamificationService{},
		notifier:  &mocks.MockNotifier{},
		publisher: &mocks.MockBoardPublisher{},
	}
	svc, err := NewService(f.cards, f.columns, f.game, f.notifier, f.publisher, Options{RegistrySize: 8}, newTestLogger())
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) local(t *testing.T) []domain.Card {
	t.Helper()
	cards, err := f.svc.Search(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Failed to read local board: %v", err)
	}
	return cards
}

func TestLoad_SeedsDefaultColumns(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.columns.Columns = nil

	// Act
	board, err := f.svc.Load(context.Background(), "u1")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(board.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(board.Columns))
	}
	for i, tpl := range domain.DefaultColumns() {
		if board.Columns[i].Name != tpl.Name || board.Columns[i].Color != tpl.Color || board.Columns[i].Position != i {
			t.Errorf("Column %d: expected %s/%s, got %+v", i, tpl.Name, tpl.Color, board.Columns[i])
		}
	}
}

func TestCreateCard_AppendsToColumn(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1))

	// Act
	card, err := f.svc.CreateCard(context.Background(), "u1", domain.CardDraft{ColumnID: colBacklog, Title: "  Nova  "})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if card.Position != 2 {
		t.Errorf("Expected position 2, got %d", card.Position)
	}
	if card.Title != "Nova" || card.Priority != domain.PriorityMedium || card.Status != domain.CardStatusPending {
		t.Errorf("Unexpected defaults: %+v", card)
	}
	if len(f.local(t)) != 3 {
		t.Errorf("Expected card appended locally")
	}
	if kinds := f.notifier.Kinds(); len(kinds) != 1 || kinds[0] != domain.NotifyCardCreated {
		t.Errorf("Expected card_created notification, got %v", kinds)
	}
}

func TestCreateCard_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.CardDraft
	}{
		{name: "missing title", draft: domain.CardDraft{ColumnID: colBacklog, Title: "   "}},
		{name: "missing column", draft: domain.CardDraft{Title: "x"}},
		{name: "foreign column", draft: domain.CardDraft{ColumnID: "other", Title: "x"}},
		{name: "bad priority", draft: domain.CardDraft{ColumnID: colBacklog, Title: "x", Priority: "critical"}},
		{name: "negative points", draft: domain.CardDraft{ColumnID: colBacklog, Title: "x", Points: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.CreateCard(context.Background(), "u1", tt.draft)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateCard_PersistenceFailureKeepsState(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0))
	f.cards.CreateFunc = func(ctx context.Context, card *domain.Card) error {
		return errors.New("connection refused")
	}

	// Act
	_, err := f.svc.CreateCard(context.Background(), "u1", domain.CardDraft{ColumnID: colBacklog, Title: "x"})

	// Assert
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if len(f.local(t)) != 1 {
		t.Error("Expected local board unchanged")
	}
	if n := f.notifier.Sent; len(n) != 1 || n[0].Variant != "destructive" {
		t.Errorf("Expected one destructive notification, got %+v", n)
	}
}

func TestUpdateCard_CompletionGrantsPoints(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   int
	}{
		{name: "card points", points: 40, want: 40},
		{name: "default points", points: 0, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			card := c("a", colDoing, 0)
			card.Points = tt.points
			f := newFixture(t, card)
			status := domain.CardStatusCompleted

			// Act
			updated, err := f.svc.UpdateCard(context.Background(), "u1", domain.CardPatch{ID: "a", Status: &status})

			// Assert
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if updated.Status != domain.CardStatusCompleted {
				t.Errorf("Expected completed, got %s", updated.Status)
			}
			if got := f.game.GrantedPoints(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("Expected one grant of %d, got %v", tt.want, got)
			}
		})
	}
}

func TestUpdateCard_Errors(t *testing.T) {
	f := newFixture(t, c("a", colBacklog, 0))
	title := "renamed"

	if _, err := f.svc.UpdateCard(context.Background(), "u1", domain.CardPatch{ID: "missing", Title: &title}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateCard(context.Background(), "u1", domain.CardPatch{ID: "a"}); err == nil {
		t.Error("Expected error for empty patch")
	}
	if len(f.game.GrantedPoints()) != 0 {
		t.Error("Expected no experience granted")
	}
}

func TestDeleteCard(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1))

	// Act
	err := f.svc.DeleteCard(context.Background(), "u1", "a")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	local := f.local(t)
	if len(local) != 1 || local[0].ID != "b" {
		t.Errorf("Expected only b to remain, got %v", local)
	}
	if err := f.svc.DeleteCard(context.Background(), "u1", "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteCard_KeepsColumnContiguous(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1), c("c", colBacklog, 2), c("x", colDoing, 0))

	// Act
	if err := f.svc.DeleteCard(context.Background(), "u1", "a"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	created, err := f.svc.CreateCard(context.Background(), "u1", domain.CardDraft{ColumnID: colBacklog, Title: "nova"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.Position != 2 {
		t.Errorf("Expected new card at position 2, got %d", created.Position)
	}
	want := []string{"b", "c", created.ID}
	if ids := order(f.local(t), colBacklog); len(ids) != 3 || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
		t.Errorf("Expected backlog %v, got %v", want, ids)
	}
	for i, card := range columnCards(f.local(t), colBacklog) {
		if card.Position != i {
			t.Errorf("Expected position %d for %s, got %d", i, card.ID, card.Position)
		}
	}
	if f.cards.Cards["b"].Position != 0 || f.cards.Cards["c"].Position != 1 {
		t.Errorf("Expected stored siblings re-ranked, got b=%d c=%d", f.cards.Cards["b"].Position, f.cards.Cards["c"].Position)
	}
	if len(f.cards.UpsertCalls) != 1 || len(f.cards.UpsertCalls[0]) != 2 {
		t.Errorf("Expected one re-rank write of 2 cards, got %v", f.cards.UpsertCalls)
	}
}

func TestDeleteCard_ReRankFailureResyncs(t *testing.T) {
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1))
	f.cards.UpsertManyFunc = func(ctx context.Context, cards []domain.Card) error {
		return errors.New("timeout")
	}

	err := f.svc.DeleteCard(context.Background(), "u1", "a")

	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	local := f.local(t)
	if len(local) != 1 || local[0].ID != "b" {
		t.Errorf("Expected local board resynced to the stored rows, got %v", local)
	}
}

func TestMoveCard_NoChangesIsNoop(t *testing.T) {
	f := newFixture(t, c("a", colBacklog, 0))
	board, _ := f.svc.Load(context.Background(), "u1")

	err := f.svc.MoveCard(context.Background(), "u1", board.Cards, board.Cards)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.cards.UpsertCalls) != 0 {
		t.Errorf("Expected no write, got %d", len(f.cards.UpsertCalls))
	}
}

func TestMoveCard_RollsBackOnFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1), c("x", colDoing, 0))
	f.cards.UpsertManyFunc = func(ctx context.Context, cards []domain.Card) error {
		return errors.New("timeout")
	}
	board, _ := f.svc.Load(context.Background(), "u1")
	oldList := board.Cards
	newList := ApplyDrag(oldList, domain.DragGesture{ActiveCardID: "a", OverTargetID: colDone, OverTargetKind: domain.OverColumn})

	// Act
	err := f.svc.MoveCard(context.Background(), "u1", newList, oldList)

	// Assert
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	local := f.local(t)
	if len(local) != len(oldList) {
		t.Fatalf("Expected %d cards after rollback, got %d", len(oldList), len(local))
	}
	for i := range oldList {
		if local[i] != oldList[i] {
			t.Errorf("Card %d: expected %+v, got %+v", i, oldList[i], local[i])
		}
	}
	if len(f.game.GrantedPoints()) != 0 {
		t.Error("Expected no experience on failed move")
	}
	kinds := f.notifier.Kinds()
	if len(kinds) != 1 || kinds[0] != domain.NotifyMoveFailed {
		t.Errorf("Expected move_failed notification, got %v", kinds)
	}
}

func TestMoveCard_IntoDoneGrantsOnce(t *testing.T) {
	// Arrange
	moving := c("p1", colDoing, 0)
	moving.Points = 25
	f := newFixture(t, moving, c("p2", colDoing, 1), c("d1", colDone, 0))
	board, _ := f.svc.Load(context.Background(), "u1")
	newList := ApplyDrag(board.Cards, domain.DragGesture{ActiveCardID: "p1", OverTargetID: "d1", OverTargetKind: domain.OverCard})

	// Act
	err := f.svc.MoveCard(context.Background(), "u1", newList, board.Cards)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.cards.UpsertCalls) != 1 || len(f.cards.UpsertCalls[0]) != 3 {
		t.Fatalf("Expected one batch of 3 changed cards, got %v", f.cards.UpsertCalls)
	}
	for _, w := range f.cards.UpsertCalls[0] {
		want := domain.CardStatusInProgress
		if w.ColumnID == colDone {
			want = domain.CardStatusCompleted
		}
		if w.Status != want {
			t.Errorf("Card %s: expected status %s, got %s", w.ID, want, w.Status)
		}
	}
	if got := f.game.GrantedPoints(); len(got) != 1 || got[0] != 25 {
		t.Errorf("Expected exactly one grant of 25, got %v", got)
	}
}

func TestMoveCard_WithinDoneGrantsNothing(t *testing.T) {
	f := newFixture(t, c("d1", colDone, 0), c("d2", colDone, 1))
	board, _ := f.svc.Load(context.Background(), "u1")
	newList := ApplyDrag(board.Cards, domain.DragGesture{ActiveCardID: "d1", OverTargetID: "d2", OverTargetKind: domain.OverCard})

	if err := f.svc.MoveCard(context.Background(), "u1", newList, board.Cards); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := f.game.GrantedPoints(); len(got) != 0 {
		t.Errorf("Expected no grants, got %v", got)
	}
}

func TestMoveCard_RejectsForeignCards(t *testing.T) {
	f := newFixture(t, c("a", colBacklog, 0))
	board, _ := f.svc.Load(context.Background(), "u1")
	newList := append(append([]domain.Card(nil), board.Cards...), c("intruder", colBacklog, 1))

	err := f.svc.MoveCard(context.Background(), "u1", newList, board.Cards)

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestMoveCard_SerializedPerUser(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1))
	var inflight, overlaps int32
	f.cards.UpsertManyFunc = func(ctx context.Context, cards []domain.Card) error {
		if atomic.AddInt32(&inflight, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return nil
	}
	swap := domain.DragGesture{ActiveCardID: "a", OverTargetID: "b", OverTargetKind: domain.OverCard}

	// Act
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.svc.Drag(context.Background(), "u1", swap)
		}()
	}
	wg.Wait()

	// Assert
	if n := atomic.LoadInt32(&overlaps); n != 0 {
		t.Errorf("Expected serialized writes, got %d overlaps", n)
	}
	if len(f.cards.UpsertCalls) != 4 {
		t.Errorf("Expected every drag to write, got %d writes", len(f.cards.UpsertCalls))
	}
}

func TestMoveCard_RejectsForgedHistory(t *testing.T) {
	// Arrange
	done := c("d1", colDone, 0)
	done.Points = 5
	f := newFixture(t, c("a", colBacklog, 0), done)
	board, _ := f.svc.Load(context.Background(), "u1")

	forgedOld := []domain.Card{c("a", colBacklog, 0), c("d1", colBacklog, 1)}
	forgedNew := []domain.Card{c("a", colBacklog, 0), c("d1", colDone, 0)}
	forgedNew[1].Points = 1000000

	// Act
	var errs []error
	for i := 0; i < 3; i++ {
		errs = append(errs, f.svc.MoveCard(context.Background(), "u1", forgedNew, forgedOld))
	}

	// Assert
	for i, err := range errs {
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Call %d: expected ValidationError, got %v", i, err)
		}
	}
	if got := f.game.GrantedPoints(); len(got) != 0 {
		t.Errorf("Expected no grants, got %v", got)
	}
	if len(f.cards.UpsertCalls) != 0 {
		t.Errorf("Expected no writes, got %d", len(f.cards.UpsertCalls))
	}
	for i, card := range f.local(t) {
		if card != board.Cards[i] {
			t.Errorf("Card %d changed: expected %+v, got %+v", i, board.Cards[i], card)
		}
	}
}

func TestMoveCard_TakesOnlyPlacementFromClient(t *testing.T) {
	// Arrange
	moving := c("p1", colDoing, 0)
	moving.Points = 25
	f := newFixture(t, moving)
	board, _ := f.svc.Load(context.Background(), "u1")

	newList := ApplyDrag(board.Cards, domain.DragGesture{ActiveCardID: "p1", OverTargetID: colDone, OverTargetKind: domain.OverColumn})
	newList[0].Points = 1000000
	newList[0].Title = "forged"

	// Act
	err := f.svc.MoveCard(context.Background(), "u1", newList, board.Cards)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := f.game.GrantedPoints(); len(got) != 1 || got[0] != 25 {
		t.Errorf("Expected one grant of the stored 25 points, got %v", got)
	}
	local := f.local(t)
	if local[0].Points != 25 || local[0].Title != "card p1" || local[0].ColumnID != colDone {
		t.Errorf("Expected stored fields with new placement, got %+v", local[0])
	}
}

func TestMoveCard_RejectsStaleOrBrokenLists(t *testing.T) {
	f := newFixture(t, c("a", colBacklog, 0), c("b", colBacklog, 1))
	board, _ := f.svc.Load(context.Background(), "u1")

	gapped := []domain.Card{c("a", colBacklog, 0), c("b", colDoing, 3)}
	stale := []domain.Card{c("b", colBacklog, 0), c("a", colBacklog, 1)}
	partial := []domain.Card{c("a", colDoing, 0)}

	tests := []struct {
		name    string
		newList []domain.Card
		oldList []domain.Card
	}{
		{name: "stale old list", newList: board.Cards, oldList: stale},
		{name: "gap in positions", newList: gapped, oldList: board.Cards},
		{name: "missing card", newList: partial, oldList: board.Cards},
		{name: "duplicate card", newList: []domain.Card{c("a", colBacklog, 0), c("a", colBacklog, 1)}, oldList: board.Cards},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.MoveCard(context.Background(), "u1", tt.newList, tt.oldList)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
	if len(f.cards.UpsertCalls) != 0 {
		t.Errorf("Expected no writes, got %d", len(f.cards.UpsertCalls))
	}
}

func TestMoveCard_PublishesOnlySettledState(t *testing.T) {
	// Arrange
	f := newFixture(t, c("a", colBacklog, 0))
	f.cards.UpsertManyFunc = func(ctx context.Context, cards []domain.Card) error {
		return errors.New("timeout")
	}
	board, _ := f.svc.Load(context.Background(), "u1")
	published := len(f.publisher.Events)
	newList := ApplyDrag(board.Cards, domain.DragGesture{ActiveCardID: "a", OverTargetID: colDoing, OverTargetKind: domain.OverColumn})

	// Act
	f.svc.MoveCard(context.Background(), "u1", newList, board.Cards)

	// Assert
	events := f.publisher.Events[published:]
	if len(events) != 1 {
		t.Fatalf("Expected a single event, got %d", len(events))
	}
	if events[0].Reason != string(ActionMoveRolledBack) || events[0].Board.Cards[0].ColumnID != colBacklog {
		t.Errorf("Expected rolled back board, got %+v", events[0])
	}
}

func TestDrag_OntoColumn(t *testing.T) {
	// Arrange
	f := newFixture(t, c("x", colBacklog, 0), c("y", colDoing, 0))

	// Act
	board, err := f.svc.Drag(context.Background(), "u1", domain.DragGesture{ActiveCardID: "x", OverTargetID: colDoing, OverTargetKind: domain.OverColumn})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ids := order(board.Cards, colDoing); len(ids) != 2 || ids[1] != "x" {
		t.Errorf("Expected x last in doing, got %v", ids)
	}
	if ids := order(board.Cards, colBacklog); len(ids) != 0 {
		t.Errorf("Expected backlog empty, got %v", ids)
	}
	stored := f.cards.Cards["x"]
	if stored.ColumnID != colDoing || stored.Position != 1 || stored.Status != domain.CardStatusInProgress {
		t.Errorf("Unexpected stored card: %+v", stored)
	}
}

func TestDrag_UnknownColumnIsNoop(t *testing.T) {
	f := newFixture(t, c("x", colBacklog, 0))

	_, err := f.svc.Drag(context.Background(), "u1", domain.DragGesture{ActiveCardID: "x", OverTargetID: "nowhere", OverTargetKind: domain.OverColumn})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.cards.UpsertCalls) != 0 {
		t.Error("Expected no write")
	}
}

func TestGenerateProjectPlan_ReplacesBoard(t *testing.T) {
	// Arrange
	f := newFixture(t, c("old1", colDoing, 0), c("old2", colDone, 0))
	tasks := []domain.PlanTask{{Title: "taskA", Points: 50}, {Title: "taskB"}}

	// Act
	err := f.svc.GenerateProjectPlan(context.Background(), "u1", tasks)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cols, _ := f.columns.ListByUser(context.Background(), "u1")
	if len(cols) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(cols))
	}
	for i, name := range []string{domain.BacklogColumnName, domain.InProgressColumnName, domain.DoneColumnName} {
		if cols[i].Name != name || cols[i].Position != i {
			t.Errorf("Column %d: expected %s, got %+v", i, name, cols[i])
		}
	}
	stored, _ := f.cards.ListByUser(context.Background(), "u1")
	if len(stored) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(stored))
	}
	for i, title := range []string{"taskA", "taskB"} {
		if stored[i].Title != title || stored[i].Position != i || stored[i].ColumnID != cols[0].ID {
			t.Errorf("Card %d: unexpected %+v", i, stored[i])
		}
	}
	if kinds := f.notifier.Kinds(); kinds[len(kinds)-1] != domain.NotifyPlanGenerated {
		t.Errorf("Expected plan_generated notification, got %v", kinds)
	}
}

func TestGenerateProjectPlan_PartialFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, c("old", colDoing, 0))
	f.columns.CreateManyFunc = func(ctx context.Context, columns []domain.Column) error {
		return errors.New("disk full")
	}

	// Act
	err := f.svc.GenerateProjectPlan(context.Background(), "u1", []domain.PlanTask{{Title: "t"}})

	// Assert
	var pmErr *domain.PartialMigrationError
	if !errors.As(err, &pmErr) {
		t.Fatalf("Expected PartialMigrationError, got %v", err)
	}
	if pmErr.Step != "create_columns" {
		t.Errorf("Expected step create_columns, got %s", pmErr.Step)
	}
	if len(pmErr.Completed) != 2 {
		t.Errorf("Expected 2 completed steps, got %v", pmErr.Completed)
	}
	if _, ok := f.cards.Cards["old"]; ok {
		t.Error("Expected completed deletion to stay applied")
	}
}

func TestGenerateProjectPlan_InvalidTask(t *testing.T) {
	f := newFixture(t, c("old", colDoing, 0))

	err := f.svc.GenerateProjectPlan(context.Background(), "u1", []domain.PlanTask{{Title: ""}})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if _, ok := f.cards.Cards["old"]; !ok {
		t.Error("Expected board untouched")
	}
}

func TestSearch_Fuzzy(t *testing.T) {
	a, b := c("a", colBacklog, 0), c("b", colBacklog, 1)
	a.Title = "Definir Marca"
	b.Title = "Abrir Loja"
	f := newFixture(t, a, b)

	got, err := f.svc.Search(context.Background(), "u1", "marca")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Expected only a, got %v", got)
	}
}

func TestPublisher_ReceivesCommittedState(t *testing.T) {
	f := newFixture(t, c("a", colBacklog, 0))

	f.svc.CreateCard(context.Background(), "u1", domain.CardDraft{ColumnID: colBacklog, Title: "x"})

	if len(f.publisher.Events) < 2 {
		t.Fatalf("Expected load and add events, got %d", len(f.publisher.Events))
	}
	last := f.publisher.Events[len(f.publisher.Events)-1]
	if last.UserID != "u1" || last.Reason != string(ActionCardAdded) || len(last.Board.Cards) != 2 {
		t.Errorf("Unexpected event %+v", last)
	}
}
