package domain

import (
	"time"
)

type ConnectionCondition string

const (
	ConnectionAutomatic   ConnectionCondition = "automatic"
	ConnectionManual      ConnectionCondition = "manual"
	ConnectionConditional ConnectionCondition = "conditional"
)

// CardConnection is a directed edge between two cards. Cycles are allowed.
type CardConnection struct {
	ID             string              `json:"id" gorm:"primaryKey"`
	SourceCardID   string              `json:"source_card_id" gorm:"index;not null"`
	TargetCardID   string              `json:"target_card_id" gorm:"index;not null"`
	ConditionType  ConnectionCondition `json:"condition_type" gorm:"default:manual"`
	ConditionValue string              `json:"condition_value,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ConnectedCards groups the neighbours of a card in the connection graph.
type ConnectedCards struct {
	Targets []Card `json:"targets"`
	Sources []Card `json:"sources"`
}
