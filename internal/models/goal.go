package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is a numeric target for a person (e.g. "read 20 books"). Conditions
// only ever see the derived achieved/percentage signal.
type Goal struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID  uuid.UUID      `json:"householdId" gorm:"type:uuid;index;not null"`
	PersonID     uuid.UUID      `json:"personId" gorm:"type:uuid;index;not null"`
	Title        string         `json:"title" gorm:"not null"`
	TargetValue  float64        `json:"targetValue" gorm:"not null"`
	CurrentValue float64        `json:"currentValue" gorm:"default:0"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *Goal) Achieved() bool {
	return g.TargetValue > 0 && g.CurrentValue >= g.TargetValue
}

func (g *Goal) Percentage() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	pct := g.CurrentValue / g.TargetValue * 100
	if pct > 100 {
		return 100
	}
	return pct
}

type CreateGoalRequest struct {
	PersonID    uuid.UUID `json:"personId" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	TargetValue float64   `json:"targetValue" validate:"required"`
}

type UpdateGoalRequest struct {
	Title        *string  `json:"title"`
	TargetValue  *float64 `json:"targetValue"`
	CurrentValue *float64 `json:"currentValue"`
}
