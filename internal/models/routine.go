package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Routine types
const (
	RoutineStandard = "STANDARD"
	RoutineSmart    = "SMART"
)

// Recurrence periods, the reset window for completion accounting.
const (
	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
)

type Routine struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID uuid.UUID      `json:"householdId" gorm:"type:uuid;index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description *string        `json:"description"`
	Type        string         `json:"type" gorm:"not null;default:'STANDARD'"` // STANDARD, SMART
	Period      string         `json:"period" gorm:"not null;default:'DAILY'"`  // DAILY, WEEKLY, MONTHLY
	AnchorDay   *int           `json:"anchorDay"`                               // weekday 0-6 for WEEKLY, day-of-month 1-31 for MONTHLY
	Status      string         `json:"status" gorm:"not null;default:'ACTIVE'"` // ACTIVE, ARCHIVED
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Tasks       []Task         `json:"tasks,omitempty" gorm:"foreignKey:RoutineID"`
	Conditions  []Condition    `json:"conditions,omitempty" gorm:"foreignKey:RoutineID"`
}

func (r *Routine) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateRoutineRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Type        string  `json:"type"`
	Period      string  `json:"period"`
	AnchorDay   *int    `json:"anchorDay"`
}

type UpdateRoutineRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Period      *string `json:"period"`
	AnchorDay   *int    `json:"anchorDay"`
	Status      *string `json:"status"`
}
