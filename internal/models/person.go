package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person is a profile inside a household, such as a kid or a student. Persons don't
// log in; routines are completed on their behalf or from a shared device.
type Person struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID uuid.UUID      `json:"householdId" gorm:"type:uuid;index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	AvatarURL   string         `json:"avatarUrl"`
	Color       string         `json:"color"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type CreatePersonRequest struct {
	Name      string `json:"name" validate:"required"`
	AvatarURL string `json:"avatarUrl"`
	Color     string `json:"color"`
}

type UpdatePersonRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	Color     *string `json:"color"`
}
