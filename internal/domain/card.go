package domain

import (
	"time"
)

type CardPriority string

const (
	PriorityLow    CardPriority = "low"
	PriorityMedium CardPriority = "medium"
	PriorityHigh   CardPriority = "high"
	PriorityUrgent CardPriority = "urgent"
)

func (p CardPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type ServiceType string

const (
	ServicePhysical ServiceType = "physical"
	ServiceDigital  ServiceType = "digital"
	ServiceBoth     ServiceType = "both"
)

func (s ServiceType) IsValid() bool {
	switch s {
	case ServicePhysical, ServiceDigital, ServiceBoth:
		return true
	}
	return false
}

type CardStatus string

const (
	CardStatusPending    CardStatus = "pending"
	CardStatusInProgress CardStatus = "in_progress"
	CardStatusCompleted  CardStatus = "completed"
	CardStatusBlocked    CardStatus = "blocked"
)

func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusPending, CardStatusInProgress, CardStatusCompleted, CardStatusBlocked:
		return true
	}
	return false
}

// Card is a unit of work placed in exactly one column of its owner's board.
// Position is the 0-based rank inside that column.
type Card struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	UserID         string       `json:"user_id" gorm:"index;not null"`
	ColumnID       string       `json:"column_id" gorm:"index;not null"`
	Title          string       `json:"title" gorm:"not null"`
	Description    string       `json:"description,omitempty"`
	Priority       CardPriority `json:"priority" gorm:"default:medium"`
	Progress       int          `json:"progress"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	Points         int          `json:"points"`
	Position       int          `json:"position"`
	ServiceType    ServiceType  `json:"service_type" gorm:"default:both"`
	EstimatedValue float64      `json:"estimated_value"`
	Status         CardStatus   `json:"status" gorm:"default:pending;index"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// RewardPoints is the experience granted when the card is completed.
func (c *Card) RewardPoints(fallback int) int {
	if c.Points > 0 {
		return c.Points
	}
	return fallback
}

// CardDraft carries the caller-supplied fields of a new card.
type CardDraft struct {
	ColumnID       string       `json:"column_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Priority       CardPriority `json:"priority,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	Points         int          `json:"points,omitempty"`
	ServiceType    ServiceType  `json:"service_type,omitempty"`
	EstimatedValue float64      `json:"estimated_value,omitempty"`
}

// CardPatch is a partial update; nil fields are left untouched. Placement
// (column and position) only changes through a move.
type CardPatch struct {
	ID             string        `json:"id"`
	Title          *string       `json:"title,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Priority       *CardPriority `json:"priority,omitempty"`
	Progress       *int          `json:"progress,omitempty"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	Points         *int          `json:"points,omitempty"`
	ServiceType    *ServiceType  `json:"service_type,omitempty"`
	EstimatedValue *float64      `json:"estimated_value,omitempty"`
	Status         *CardStatus   `json:"status,omitempty"`
}

// Completes reports whether applying the patch marks the card completed.
func (p *CardPatch) Completes() bool {
	return p.Status != nil && *p.Status == CardStatusCompleted
}

// Apply copies the set fields of the patch onto c.
func (p *CardPatch) Apply(c *Card) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Progress != nil {
		c.Progress = *p.Progress
	}
	if p.DueDate != nil {
		c.DueDate = p.DueDate
	}
	if p.Points != nil {
		c.Points = *p.Points
	}
	if p.ServiceType != nil {
		c.ServiceType = *p.ServiceType
	}
	if p.EstimatedValue != nil {
		c.EstimatedValue = *p.EstimatedValue
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

// Updates returns the column map used for a partial row update.
func (p *CardPatch) Updates() map[string]interface{} {
	u := make(map[string]interface{})
	if p.Title != nil {
		u["title"] = *p.Title
	}
	if p.Description != nil {
		u["description"] = *p.Description
	}
	if p.Priority != nil {
		u["priority"] = *p.Priority
	}
	if p.Progress != nil {
		u["progress"] = *p.Progress
	}
	if p.DueDate != nil {
		u["due_date"] = *p.DueDate
	}
	if p.Points != nil {
		u["points"] = *p.Points
	}
	if p.ServiceType != nil {
		u["service_type"] = *p.ServiceType
	}
	if p.EstimatedValue != nil {
		u["estimated_value"] = *p.EstimatedValue
	}
	if p.Status != nil {
		u["status"] = *p.Status
	}
	return u
}

// Validate checks enum membership and numeric ranges of the set fields.
func (p *CardPatch) Validate() error {
	if p.ID == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if p.Title != nil && *p.Title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return &ValidationError{Field: "priority", Message: "unknown priority " + string(*p.Priority)}
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return &ValidationError{Field: "progress", Message: "must be between 0 and 100"}
	}
	if p.Points != nil && *p.Points < 0 {
		return &ValidationError{Field: "points", Message: "must not be negative"}
	}
	if p.ServiceType != nil && !p.ServiceType.IsValid() {
		return &ValidationError{Field: "service_type", Message: "unknown service type " + string(*p.ServiceType)}
	}
	if p.EstimatedValue != nil && *p.EstimatedValue < 0 {
		return &ValidationError{Field: "estimated_value", Message: "must not be negative"}
	}
	if p.Status != nil && !p.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(*p.Status)}
	}
	return nil
}

// PlanTask is one entry of a generated project plan.
type PlanTask struct {
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Priority       CardPriority `json:"priority"`
	Points         int          `json:"points"`
	ServiceType    ServiceType  `json:"service_type"`
	Progress       int          `json:"progress"`
	EstimatedValue float64      `json:"estimated_value"`
}
