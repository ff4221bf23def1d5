package domain

import (
	"time"
)

type ConditionType string

const (
	ConditionCardsCompleted ConditionType = "cards_completed"
	ConditionPointsEarned   ConditionType = "points_earned"
	ConditionStreakDays     ConditionType = "streak_days"
	ConditionServiceType    ConditionType = "service_type"
)

type Achievement struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	Name           string        `json:"name" gorm:"uniqueIndex;not null"`
	Description    string        `json:"description"`
	Icon           string        `json:"icon"`
	Points         int           `json:"points"`
	ConditionType  ConditionType `json:"condition_type"`
	ConditionValue int           `json:"condition_value"`
}

// UserAchievement records that a user earned an achievement. The pair
// (user_id, achievement_id) is unique.
type UserAchievement struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	UserID        string       `json:"user_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievementID string       `json:"achievement_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	Achievement   *Achievement `json:"achievement,omitempty" gorm:"foreignKey:AchievementID"`
	EarnedAt      time.Time    `json:"earned_at"`
}

// UserStats is the snapshot the achievement rules are evaluated against.
type UserStats struct {
	CompletedCards     int
	CompletedByService map[ServiceType]int
	TotalPoints        int
	Experience         int
	Level              int
}

// DefaultAchievements is the catalog seeded on migration.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "7d3c8f4e-0b1a-4c55-9a0e-1f2d3c4b5a01", Name: "Primeiro Passo", Description: "Conclua seu primeiro card", Icon: "🚀", Points: 50, ConditionType: ConditionCardsCompleted, ConditionValue: 1},
		{ID: "7d3c8f4e-0b1a-4c55-9a0e-1f2d3c4b5a02", Name: "Produtivo", Description: "Conclua 10 cards", Icon: "⚡", Points: 200, ConditionType: ConditionCardsCompleted, ConditionValue: 10},
		{ID: "7d3c8f4e-0b1a-4c55-9a0e-1f2d3c4b5a03", Name: "Colecionador de Pontos", Description: "Acumule 1000 pontos", Icon: "💎", Points: 100, ConditionType: ConditionPointsEarned, ConditionValue: 1000},
		{ID: "7d3c8f4e-0b1a-4c55-9a0e-1f2d3c4b5a04", Name: "Mestre Físico", Description: "Conclua 5 serviços físicos", Icon: "🔧", Points: 150, ConditionType: ConditionServiceType, ConditionValue: 5},
		{ID: "7d3c8f4e-0b1a-4c55-9a0e-1f2d3c4b5a05", Name: "Mestre Digital", Description: "Conclua 5 serviços digitais", Icon: "💻", Points: 150, ConditionType: ConditionServiceType, ConditionValue: 5},
		// streak_days has no tracked input yet and never unlocks.
		{ID: "7d3c8f4e-0b1a-4c55-9a0e-1f2d3c4b5a06", Name: "Constante", Description: "Conclua cards por 7 dias seguidos", Icon: "🔥", Points: 300, ConditionType: ConditionStreakDays, ConditionValue: 7},
	}
}
