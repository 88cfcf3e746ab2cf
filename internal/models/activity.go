package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID uuid.UUID      `json:"householdId" gorm:"type:uuid;index;not null"`
	ActorID     uuid.UUID      `json:"actorId" gorm:"type:uuid;not null"`   // user or person id
	ActionType  string         `json:"actionType" gorm:"not null"`          // task_completed, member_joined, member_left, condition_updated
	TargetID    *uuid.UUID     `json:"targetId" gorm:"type:uuid"`           // task/routine/condition id depending on action
	Metadata    *string        `json:"metadata"`                            // JSON string for extra context
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
