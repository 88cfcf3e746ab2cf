package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HouseholdInvite struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID uuid.UUID      `json:"householdId" gorm:"type:uuid;index;not null"`
	InviterID   uuid.UUID      `json:"inviterId" gorm:"type:uuid;not null"`
	InviteCode  string         `json:"inviteCode" gorm:"uniqueIndex;not null"`
	ExpiresAt   *time.Time     `json:"expiresAt"`
	MaxUses     int            `json:"maxUses" gorm:"default:0"` // 0 = unlimited
	UsedCount   int            `json:"usedCount" gorm:"default:0"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (hi *HouseholdInvite) BeforeCreate(tx *gorm.DB) error {
	if hi.ID == uuid.Nil {
		hi.ID = uuid.New()
	}
	if hi.InviteCode == "" {
		hi.InviteCode = generateInviteCode()
	}
	return nil
}

// IsValid checks if the invite is still usable
func (hi *HouseholdInvite) IsValid() bool {
	if hi.ExpiresAt != nil && time.Now().After(*hi.ExpiresAt) {
		return false
	}
	if hi.MaxUses > 0 && hi.UsedCount >= hi.MaxUses {
		return false
	}
	return true
}

func generateInviteCode() string {
	b := make([]byte, 6) // 12 hex chars
	rand.Read(b)
	return hex.EncodeToString(b)
}

type CreateInviteRequest struct {
	MaxUses   int `json:"maxUses"`   // 0 = unlimited
	ExpiresIn int `json:"expiresIn"` // hours, 0 = never
}
