package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskCompletion is one check-in of a task by a person. Append-only: the
// evaluation engine filters these by reset period but never mutates them.
type TaskCompletion struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID      uuid.UUID      `json:"taskId" gorm:"type:uuid;index;not null"`
	PersonID    uuid.UUID      `json:"personId" gorm:"type:uuid;index;not null"`
	CompletedAt time.Time      `json:"completedAt" gorm:"index;not null"`
	Value       *float64       `json:"value"` // PROGRESS tasks
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (tc *TaskCompletion) BeforeCreate(tx *gorm.DB) error {
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	return nil
}

type CompleteTaskRequest struct {
	PersonID uuid.UUID `json:"personId" validate:"required"`
	Value    *float64  `json:"value"`
}
