package domain

import (
	"math"
	"time"
)

const DefaultLevelSize = 1000

type Profile struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Level       int       `json:"level" gorm:"default:1"`
	Experience  int       `json:"experience"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LevelFor derives the level from accumulated experience.
func LevelFor(experience, levelSize int) int {
	if levelSize <= 0 {
		levelSize = DefaultLevelSize
	}
	if experience < 0 {
		experience = 0
	}
	return experience/levelSize + 1
}

// NextLevelProgress is the rounded percentage of the current level band
// already covered.
func NextLevelProgress(p *Profile, levelSize int) int {
	if p == nil {
		return 0
	}
	if levelSize <= 0 {
		levelSize = DefaultLevelSize
	}
	inBand := p.Experience - (p.Level-1)*levelSize
	return int(math.Round(float64(inBand) / float64(levelSize) * 100))
}
