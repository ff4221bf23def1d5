package domain

import (
	"time"
)

// Column names of the default board. DoneColumnName is the sentinel that
// marks cards as completed when they land in it.
const (
	BacklogColumnName    = "Backlog"
	InProgressColumnName = "Em andamento"
	DoneColumnName       = "Concluído"
)

type Column struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type ColumnTemplate struct {
	Name  string
	Color string
}

// DefaultColumns returns the columns seeded for every new board, in order.
func DefaultColumns() []ColumnTemplate {
	return []ColumnTemplate{
		{Name: BacklogColumnName, Color: "#FF6B6B"},
		{Name: InProgressColumnName, Color: "#FFD166"},
		{Name: DoneColumnName, Color: "#06D6A0"},
	}
}
