package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/observability/telemetry"
	"github.com/seu-repo/quest-board/internal/ports"
)

type Options struct {
	DoneColumnName    string
	DefaultCardPoints int
	RegistrySize      int
}

type Service struct {
	cards     ports.CardRepository
	columns   *ColumnStore
	game      ports.GamificationService
	notifier  ports.Notifier
	publisher ports.BoardPublisher
	registry  *Registry
	opts      Options
	log       *zap.Logger
}

func NewService(
	cards ports.CardRepository,
	columns ports.ColumnRepository,
	game ports.GamificationService,
	notifier ports.Notifier,
	publisher ports.BoardPublisher,
	opts Options,
	log *zap.Logger,
) (ports.BoardService, error) {
	if opts.DoneColumnName == "" {
		opts.DoneColumnName = domain.DoneColumnName
	}
	if opts.DefaultCardPoints <= 0 {
		opts.DefaultCardPoints = 10
	}

	s := &Service{
		cards:     cards,
		columns:   NewColumnStore(columns, log),
		game:      game,
		notifier:  notifier,
		publisher: publisher,
		opts:      opts,
		log:       log,
	}

	registry, err := NewRegistry(opts.RegistrySize, s.watch)
	if err != nil {
		return nil, err
	}
	s.registry = registry
	return s, nil
}

// watch forwards committed and rolled-back state of a store to live
// subscribers. Staged moves are not published.
func (s *Service) watch(store *Store) {
	if s.publisher == nil {
		return
	}
	store.Subscribe(func(state domain.Board, a Action) {
		if a.Kind == ActionCardsStaged {
			return
		}
		s.publisher.PublishBoard(context.Background(), domain.BoardEvent{
			UserID:    state.UserID,
			Reason:    string(a.Kind),
			Board:     state,
			CreatedAt: time.Now(),
		})
	})
}

func (s *Service) Load(ctx context.Context, userID string) (*domain.Board, error) {
	store, release := s.registry.Acquire(userID)
	defer release()
	var board domain.Board
	err := store.exclusive(func() error {
		if err := s.reload(ctx, store, userID); err != nil {
			return err
		}
		board = store.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Service) Columns(ctx context.Context, userID string) ([]domain.Column, error) {
	store, release := s.registry.Acquire(userID)
	defer release()
	var cols []domain.Column
	err := store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		cols = store.Snapshot().Columns
		return nil
	})
	return cols, err
}

func (s *Service) CreateCard(ctx context.Context, userID string, draft domain.CardDraft) (*domain.Card, error) {
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	store, release := s.registry.Acquire(userID)
	defer release()
	var created domain.Card
	err := store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		state := store.Snapshot()
		if !hasColumn(state.Columns, draft.ColumnID) {
			return &domain.ValidationError{Field: "column_id", Message: "does not belong to this board"}
		}

		position := 0
		for _, c := range state.Cards {
			if c.ColumnID == draft.ColumnID {
				position++
			}
		}

		now := time.Now()
		card := domain.Card{
			ID:             uuid.New().String(),
			UserID:         userID,
			ColumnID:       draft.ColumnID,
			Title:          strings.TrimSpace(draft.Title),
			Description:    draft.Description,
			Priority:       draft.Priority,
			DueDate:        draft.DueDate,
			Points:         draft.Points,
			Position:       position,
			ServiceType:    draft.ServiceType,
			EstimatedValue: draft.EstimatedValue,
			Status:         domain.CardStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := s.cards.Create(ctx, &card); err != nil {
			return s.persistenceFailure(ctx, userID, "create card", "Erro ao criar tarefa", err)
		}

		store.Dispatch(Action{Kind: ActionCardAdded, Card: &card})
		created = card
		return nil
	})
	if err != nil {
		telemetry.CardOperationsTotal.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	telemetry.CardOperationsTotal.WithLabelValues("create", "ok").Inc()
	s.notify(ctx, domain.Notification{
		UserID: userID,
		Kind:   domain.NotifyCardCreated,
		Title:  "Tarefa criada com sucesso!",
		Data:   created,
	})
	return &created, nil
}

func (s *Service) UpdateCard(ctx context.Context, userID string, patch domain.CardPatch) (*domain.Card, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updates := patch.Updates()
	if len(updates) == 0 {
		return nil, &domain.ValidationError{Message: "nothing to update"}
	}

	store, release := s.registry.Acquire(userID)
	defer release()
	var updated domain.Card
	err := store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		current, ok := findCard(store.Snapshot().Cards, patch.ID)
		if !ok {
			return domain.ErrNotFound
		}

		updates["updated_at"] = time.Now()
		if err := s.cards.Update(ctx, userID, patch.ID, updates); err != nil {
			return s.persistenceFailure(ctx, userID, "update card", "Erro ao atualizar tarefa", err)
		}

		patch.Apply(&current)
		current.UpdatedAt = updates["updated_at"].(time.Time)
		store.Dispatch(Action{Kind: ActionCardUpdated, Card: &current})
		updated = current
		return nil
	})
	if err != nil {
		telemetry.CardOperationsTotal.WithLabelValues("update", "error").Inc()
		return nil, err
	}
	telemetry.CardOperationsTotal.WithLabelValues("update", "ok").Inc()

	if patch.Completes() {
		s.reward(ctx, userID, updated)
	}
	return &updated, nil
}

func (s *Service) DeleteCard(ctx context.Context, userID, cardID string) error {
	if cardID == "" {
		return &domain.ValidationError{Field: "id", Message: "is required"}
	}

	store, release := s.registry.Acquire(userID)
	defer release()
	err := store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		state := store.Snapshot()
		if err := s.cards.Delete(ctx, userID, cardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return s.persistenceFailure(ctx, userID, "delete card", "Erro ao remover tarefa", err)
		}

		shifted := closeGap(state.Cards, cardID)
		if len(shifted) > 0 {
			if err := s.cards.UpsertMany(ctx, shifted); err != nil {
				// The row is gone but its column was not re-ranked; resync from the store.
				if rerr := s.reload(ctx, store, userID); rerr != nil {
					s.log.Warn("Resync after delete failed", zap.String("user_id", userID), zap.Error(rerr))
				}
				return s.persistenceFailure(ctx, userID, "re-rank column", "Erro ao reordenar a coluna", err)
			}
		}
		store.Dispatch(Action{Kind: ActionCardRemoved, CardID: cardID, Cards: shifted})
		return nil
	})
	if err != nil {
		telemetry.CardOperationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}

	telemetry.CardOperationsTotal.WithLabelValues("delete", "ok").Inc()
	s.notify(ctx, domain.Notification{
		UserID: userID,
		Kind:   domain.NotifyCardDeleted,
		Title:  "Tarefa removida",
		Data:   map[string]string{"id": cardID},
	})
	return nil
}

func (s *Service) MoveCard(ctx context.Context, userID string, newList, oldList []domain.Card) error {
	store, release := s.registry.Acquire(userID)
	defer release()
	return store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		return s.move(ctx, store, userID, newList, oldList)
	})
}

func (s *Service) Drag(ctx context.Context, userID string, gesture domain.DragGesture) (*domain.Board, error) {
	store, release := s.registry.Acquire(userID)
	defer release()
	var board domain.Board
	err := store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		state := store.Snapshot()
		if gesture.OverTargetKind == domain.OverColumn && !hasColumn(state.Columns, gesture.OverTargetID) {
			board = state
			return nil
		}

		next := ApplyDrag(state.Cards, gesture)
		if err := s.move(ctx, store, userID, next, state.Cards); err != nil {
			return err
		}
		board = store.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// move persists the placement changes from oldList to newList. oldList must
// match the stored board; only column and position are taken from newList,
// every other field comes from the stored cards. The local state is staged
// before the write and settled afterwards. Callers hold the store's
// operation lock.
func (s *Service) move(ctx context.Context, store *Store, userID string, newList, oldList []domain.Card) error {
	state := store.Snapshot()
	if err := matchPlacement(state.Cards, oldList); err != nil {
		return err
	}
	next, err := applyPlacement(state, newList)
	if err != nil {
		return err
	}

	changed := ChangedCards(next, state.Cards)
	if len(changed) == 0 {
		return nil
	}
	if err := checkContiguous(next, changed, state.Cards); err != nil {
		return err
	}

	ctx, span := otel.Tracer("quest-board/board").Start(ctx, "board.MoveCard")
	defer span.End()
	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("changed", len(changed)),
	)

	doneID := columnIDByName(state.Columns, s.opts.DoneColumnName)
	now := time.Now()
	writes := make([]domain.Card, len(changed))
	for i, c := range changed {
		c.UpdatedAt = now
		if c.ColumnID == doneID {
			c.Status = domain.CardStatusCompleted
		} else {
			c.Status = domain.CardStatusInProgress
		}
		writes[i] = c
	}

	store.Dispatch(Action{Kind: ActionCardsStaged, Cards: next})
	telemetry.MoveBatchSize.Observe(float64(len(writes)))

	writeErr := s.cards.UpsertMany(ctx, writes)
	final, kind := settle(state.Cards, overlay(next, writes), writeErr)
	store.Dispatch(Action{Kind: kind, Cards: final})

	if writeErr != nil {
		span.RecordError(writeErr)
		telemetry.MoveRollbacksTotal.Inc()
		telemetry.CardOperationsTotal.WithLabelValues("move", "error").Inc()
		s.log.Warn("Move failed, local board rolled back",
			zap.String("user_id", userID),
			zap.Int("changed", len(writes)),
			zap.Error(writeErr),
		)
		s.notify(ctx, domain.Notification{
			UserID:  userID,
			Kind:    domain.NotifyMoveFailed,
			Title:   "Erro ao mover as tarefas. Revertendo alterações.",
			Variant: "destructive",
		})
		return &domain.PersistenceError{Op: "move cards", Err: writeErr}
	}
	telemetry.CardOperationsTotal.WithLabelValues("move", "ok").Inc()

	if doneID == "" {
		return nil
	}
	before := make(map[string]domain.Card, len(state.Cards))
	for _, c := range state.Cards {
		before[c.ID] = c
	}
	for _, c := range writes {
		if c.ColumnID == doneID && before[c.ID].ColumnID != doneID {
			s.reward(ctx, userID, c)
		}
	}
	return nil
}

// matchPlacement reports a stale or forged view: claimed must hold exactly
// the stored cards, each in its stored column and position.
func matchPlacement(stored, claimed []domain.Card) error {
	if len(claimed) != len(stored) {
		return &domain.ValidationError{Field: "old_list", Message: "does not match the current board, reload and retry"}
	}
	byID := make(map[string]domain.Card, len(stored))
	for _, c := range stored {
		byID[c.ID] = c
	}
	for _, c := range claimed {
		cur, ok := byID[c.ID]
		if !ok || cur.ColumnID != c.ColumnID || cur.Position != c.Position {
			return &domain.ValidationError{Field: "old_list", Message: "does not match the current board, reload and retry"}
		}
		delete(byID, c.ID)
	}
	return nil
}

// applyPlacement returns the stored cards with the column and position
// requested in newList. newList must name every stored card once and only
// board columns.
func applyPlacement(state domain.Board, newList []domain.Card) ([]domain.Card, error) {
	stored := make(map[string]struct{}, len(state.Cards))
	for _, c := range state.Cards {
		stored[c.ID] = struct{}{}
	}
	placed := make(map[string]domain.Card, len(newList))
	for _, c := range newList {
		if _, ok := stored[c.ID]; !ok {
			return nil, &domain.ValidationError{Field: "cards", Message: fmt.Sprintf("unknown card %s", c.ID)}
		}
		if _, dup := placed[c.ID]; dup {
			return nil, &domain.ValidationError{Field: "new_list", Message: fmt.Sprintf("card %s listed twice", c.ID)}
		}
		if !hasColumn(state.Columns, c.ColumnID) {
			return nil, &domain.ValidationError{Field: "column_id", Message: fmt.Sprintf("unknown column %s", c.ColumnID)}
		}
		placed[c.ID] = c
	}
	if len(placed) != len(state.Cards) {
		return nil, &domain.ValidationError{Field: "new_list", Message: "must list every card of the board"}
	}

	next := make([]domain.Card, len(state.Cards))
	for i, c := range state.Cards {
		p := placed[c.ID]
		c.ColumnID = p.ColumnID
		c.Position = p.Position
		next[i] = c
	}
	return next, nil
}

// checkContiguous requires every column touched by changed to be ranked
// 0..n-1 in next.
func checkContiguous(next, changed, prev []domain.Card) error {
	touched := make(map[string]struct{})
	before := make(map[string]string, len(prev))
	for _, c := range prev {
		before[c.ID] = c.ColumnID
	}
	for _, c := range changed {
		touched[c.ColumnID] = struct{}{}
		touched[before[c.ID]] = struct{}{}
	}
	for col := range touched {
		for i, c := range columnCards(next, col) {
			if c.Position != i {
				return &domain.ValidationError{Field: "position", Message: fmt.Sprintf("column %s is not ranked contiguously", col)}
			}
		}
	}
	return nil
}

// GenerateProjectPlan replaces the whole board with the default columns and
// the given tasks in the backlog. A failure part way leaves the completed
// steps in place.
func (s *Service) GenerateProjectPlan(ctx context.Context, userID string, tasks []domain.PlanTask) error {
	for i := range tasks {
		if err := validateTask(&tasks[i]); err != nil {
			return err
		}
	}

	ctx, span := otel.Tracer("quest-board/board").Start(ctx, "board.GenerateProjectPlan")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID), attribute.Int("tasks", len(tasks)))

	store, release := s.registry.Acquire(userID)
	defer release()
	err := store.exclusive(func() error {
		var completed []string
		fail := func(step string, err error) error {
			span.RecordError(err)
			s.log.Error("Project plan generation aborted",
				zap.String("user_id", userID),
				zap.String("step", step),
				zap.Strings("completed", completed),
				zap.Error(err),
			)
			if rerr := s.reload(ctx, store, userID); rerr != nil {
				s.log.Warn("Failed to resync board after aborted plan", zap.Error(rerr))
			}
			return &domain.PartialMigrationError{Step: step, Completed: completed, Err: err}
		}

		if err := s.cards.DeleteAllByUser(ctx, userID); err != nil {
			return fail("delete_cards", err)
		}
		completed = append(completed, "delete_cards")

		if err := s.columns.DeleteAll(ctx, userID); err != nil {
			return fail("delete_columns", err)
		}
		completed = append(completed, "delete_columns")

		cols, err := s.columns.CreateDefaults(ctx, userID)
		if err != nil {
			return fail("create_columns", err)
		}
		completed = append(completed, "create_columns")

		backlog := columnIDByName(cols, domain.BacklogColumnName)
		now := time.Now()
		cards := make([]domain.Card, len(tasks))
		for i, t := range tasks {
			cards[i] = domain.Card{
				ID:             uuid.New().String(),
				UserID:         userID,
				ColumnID:       backlog,
				Title:          t.Title,
				Description:    t.Description,
				Priority:       t.Priority,
				Progress:       t.Progress,
				Points:         t.Points,
				Position:       i,
				ServiceType:    t.ServiceType,
				EstimatedValue: t.EstimatedValue,
				Status:         domain.CardStatusPending,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
		}
		if len(cards) > 0 {
			if err := s.cards.CreateMany(ctx, cards); err != nil {
				return fail("insert_cards", err)
			}
		}

		store.Dispatch(Action{Kind: ActionLoaded, Board: &domain.Board{Columns: cols, Cards: cards}})
		return nil
	})
	if err != nil {
		telemetry.CardOperationsTotal.WithLabelValues("plan", "error").Inc()
		s.notify(ctx, domain.Notification{
			UserID:  userID,
			Kind:    domain.NotifyError,
			Title:   "Erro ao gerar plano de projeto.",
			Variant: "destructive",
		})
		return err
	}

	telemetry.CardOperationsTotal.WithLabelValues("plan", "ok").Inc()
	s.log.Info("Project plan generated", zap.String("user_id", userID), zap.Int("tasks", len(tasks)))
	s.notify(ctx, domain.Notification{
		UserID: userID,
		Kind:   domain.NotifyPlanGenerated,
		Title:  "Plano de projeto gerado com sucesso!",
	})
	return nil
}

// Search returns the user's cards whose title fuzzily matches query, best
// match first. An empty query returns every card.
func (s *Service) Search(ctx context.Context, userID, query string) ([]domain.Card, error) {
	store, release := s.registry.Acquire(userID)
	defer release()
	var cards []domain.Card
	err := store.exclusive(func() error {
		if err := s.ensureLoaded(ctx, store, userID); err != nil {
			return err
		}
		cards = store.Snapshot().Cards
		return nil
	})
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cards, nil
	}

	matches := fuzzy.FindFrom(query, titleSource(cards))
	out := make([]domain.Card, len(matches))
	for i, m := range matches {
		out[i] = cards[m.Index]
	}
	return out, nil
}

type titleSource []domain.Card

func (t titleSource) String(i int) string { return strings.ToLower(t[i].Title) }
func (t titleSource) Len() int            { return len(t) }

func (s *Service) ensureLoaded(ctx context.Context, store *Store, userID string) error {
	if store.Loaded() {
		return nil
	}
	return s.reload(ctx, store, userID)
}

// reload fetches columns and cards in parallel and replaces the local state.
func (s *Service) reload(ctx context.Context, store *Store, userID string) error {
	var (
		cols  []domain.Column
		cards []domain.Card
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cols, err = s.columns.EnsureDefaults(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.cards.ListByUser(gctx, userID)
		if err != nil {
			return &domain.PersistenceError{Op: "list cards", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load board", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	store.Dispatch(Action{Kind: ActionLoaded, Board: &domain.Board{Columns: cols, Cards: cards}})
	return nil
}

// reward grants the completion experience of card. Gamification failures
// are logged and do not fail the card operation.
func (s *Service) reward(ctx context.Context, userID string, card domain.Card) {
	points := card.RewardPoints(s.opts.DefaultCardPoints)
	if _, err := s.game.AddExperience(ctx, userID, points); err != nil {
		s.log.Error("Failed to grant experience",
			zap.String("user_id", userID),
			zap.String("card_id", card.ID),
			zap.Int("points", points),
			zap.Error(err),
		)
		return
	}
	s.notify(ctx, domain.Notification{
		UserID: userID,
		Kind:   domain.NotifyCardCompleted,
		Title:  fmt.Sprintf("🎉 Tarefa concluída! +%d XP", points),
		Data:   card,
	})
}

func (s *Service) persistenceFailure(ctx context.Context, userID, op, title string, err error) error {
	s.log.Error("Card store write failed", zap.String("user_id", userID), zap.String("op", op), zap.Error(err))
	s.notify(ctx, domain.Notification{
		UserID:  userID,
		Kind:    domain.NotifyError,
		Title:   title,
		Variant: "destructive",
	})
	return &domain.PersistenceError{Op: op, Err: err}
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

// overlay replaces the cards of list that appear in writes.
func overlay(list, writes []domain.Card) []domain.Card {
	byID := make(map[string]domain.Card, len(writes))
	for _, c := range writes {
		byID[c.ID] = c
	}
	out := make([]domain.Card, len(list))
	for i, c := range list {
		if w, ok := byID[c.ID]; ok {
			c = w
		}
		out[i] = c
	}
	return out
}

func validateDraft(d *domain.CardDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &domain.ValidationError{Field: "title", Message: "is required"}
	}
	if d.ColumnID == "" {
		return &domain.ValidationError{Field: "column_id", Message: "is required"}
	}
	if d.Priority == "" {
		d.Priority = domain.PriorityMedium
	} else if !d.Priority.IsValid() {
		return &domain.ValidationError{Field: "priority", Message: "unknown priority " + string(d.Priority)}
	}
	if d.ServiceType == "" {
		d.ServiceType = domain.ServiceBoth
	} else if !d.ServiceType.IsValid() {
		return &domain.ValidationError{Field: "service_type", Message: "unknown service type " + string(d.ServiceType)}
	}
	if d.Points < 0 {
		return &domain.ValidationError{Field: "points", Message: "must not be negative"}
	}
	if d.EstimatedValue < 0 {
		return &domain.ValidationError{Field: "estimated_value", Message: "must not be negative"}
	}
	return nil
}

func validateTask(t *domain.PlanTask) error {
	if strings.TrimSpace(t.Title) == "" {
		return &domain.ValidationError{Field: "title", Message: "is required"}
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	} else if !t.Priority.IsValid() {
		return &domain.ValidationError{Field: "priority", Message: "unknown priority " + string(t.Priority)}
	}
	if t.ServiceType == "" {
		t.ServiceType = domain.ServiceBoth
	} else if !t.ServiceType.IsValid() {
		return &domain.ValidationError{Field: "service_type", Message: "unknown service type " + string(t.ServiceType)}
	}
	if t.Points < 0 || t.Progress < 0 || t.Progress > 100 || t.EstimatedValue < 0 {
		return &domain.ValidationError{Field: "task", Message: fmt.Sprintf("%q has out of range values", t.Title)}
	}
	return nil
}
