package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task types
const (
	TaskSimple          = "SIMPLE"
	TaskMultipleCheckin = "MULTIPLE_CHECKIN"
	TaskProgress        = "PROGRESS"
	TaskSmart           = "SMART"
)

// Task statuses
const (
	TaskActive   = "ACTIVE"
	TaskArchived = "ARCHIVED"
)

type Task struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RoutineID   uuid.UUID      `json:"routineId" gorm:"type:uuid;index;not null"`
	Position    int            `json:"position" gorm:"not null"`
	Title       string         `json:"title" gorm:"not null"`
	Icon        *string        `json:"icon"`
	Type        string         `json:"type" gorm:"not null;default:'SIMPLE'"`   // SIMPLE, MULTIPLE_CHECKIN, PROGRESS, SMART
	Status      string         `json:"status" gorm:"not null;default:'ACTIVE'"` // ACTIVE, ARCHIVED
	TargetValue *float64       `json:"targetValue"`                             // PROGRESS tasks
	ConditionID *uuid.UUID     `json:"conditionId" gorm:"type:uuid"`            // SMART tasks: visibility condition
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type CreateTaskRequest struct {
	Title       string   `json:"title" validate:"required"`
	Icon        *string  `json:"icon"`
	Type        string   `json:"type"`
	Position    *int     `json:"position"`
	TargetValue *float64 `json:"targetValue"`
}

type UpdateTaskRequest struct {
	Title       *string  `json:"title"`
	Icon        *string  `json:"icon"`
	Type        *string  `json:"type"`
	Position    *int     `json:"position"`
	Status      *string  `json:"status"`
	TargetValue *float64 `json:"targetValue"`
}
