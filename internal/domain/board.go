package domain

import (
	"time"
)

// Board is the full state of one user's board.
type Board struct {
	UserID  string   `json:"user_id"`
	Columns []Column `json:"columns"`
	Cards   []Card   `json:"cards"`
}

// Clone returns a deep copy so snapshots can be compared after mutation.
func (b Board) Clone() Board {
	out := Board{UserID: b.UserID}
	if b.Columns != nil {
		out.Columns = append([]Column(nil), b.Columns...)
	}
	if b.Cards != nil {
		out.Cards = append([]Card(nil), b.Cards...)
	}
	return out
}

type OverKind string

const (
	OverCard   OverKind = "card"
	OverColumn OverKind = "column"
)

// DragGesture describes a drop: the dragged card and what it was released
// over.
type DragGesture struct {
	ActiveCardID   string   `json:"active_card_id"`
	OverTargetID   string   `json:"over_target_id"`
	OverTargetKind OverKind `json:"over_target_kind"`
}

type NotificationKind string

const (
	NotifyCardCreated       NotificationKind = "card_created"
	NotifyCardDeleted       NotificationKind = "card_deleted"
	NotifyCardCompleted     NotificationKind = "card_completed"
	NotifyMoveFailed        NotificationKind = "move_failed"
	NotifyPlanGenerated     NotificationKind = "plan_generated"
	NotifyLevelUp           NotificationKind = "level_up"
	NotifyAchievementEarned NotificationKind = "achievement_earned"
	NotifyError             NotificationKind = "error"
)

// Notification is a user-facing message. Variant is "default" or
// "destructive".
type Notification struct {
	UserID      string           `json:"user_id"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Variant     string           `json:"variant"`
	Data        interface{}      `json:"data,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// BoardEvent is published whenever a user's committed board state changes.
type BoardEvent struct {
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Board     Board     `json:"board"`
	CreatedAt time.Time `json:"created_at"`
}
