package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Household is the sharing boundary: a family or a classroom. The owner is the
// user who created it; co-caregivers join via invite codes.
type Household struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID      `json:"ownerId" gorm:"type:uuid;index;not null"`
	Name      string         `json:"name" gorm:"not null"`
	Kind      string         `json:"kind" gorm:"default:family"` // family, classroom
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Persons   []Person       `json:"persons,omitempty" gorm:"foreignKey:HouseholdID"`
	Routines  []Routine      `json:"routines,omitempty" gorm:"foreignKey:HouseholdID"`
}

func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HouseholdMember links an additional caregiver account to a household.
type HouseholdMember struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID uuid.UUID      `json:"householdId" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Role        string         `json:"role" gorm:"default:caregiver"` // caregiver
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *HouseholdMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type CreateHouseholdRequest struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind"`
}

type MemberInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	Role        string    `json:"role"`
}
