package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

// CreateInvite generates an invite code for a household (owner only)
func CreateInvite(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	// Verify user is the household owner
	var household models.Household
	if err := database.DB.Where("id = ? AND owner_id = ?", householdID, userID).First(&household).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found or you are not the owner",
		})
	}

	var req models.CreateInviteRequest
	c.BodyParser(&req) // optional body

	invite := models.HouseholdInvite{
		HouseholdID: householdID,
		InviterID:   userID,
		MaxUses:     req.MaxUses,
	}

	if req.ExpiresIn > 0 {
		exp := time.Now().Add(time.Duration(req.ExpiresIn) * time.Hour)
		invite.ExpiresAt = &exp
	}

	if err := database.DB.Create(&invite).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create invite",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(invite)
}

// JoinHousehold joins a household via invite code
func JoinHousehold(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	code := c.Params("code")

	// Find the invite
	var invite models.HouseholdInvite
	if err := database.DB.Where("invite_code = ?", code).First(&invite).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invalid invite code",
		})
	}

	if !invite.IsValid() {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error": "This invite has expired or reached its usage limit",
		})
	}

	// Check the household exists
	var household models.Household
	if err := database.DB.First(&household, invite.HouseholdID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household no longer exists",
		})
	}

	// Owner doesn't need a membership row
	if household.OwnerID == userID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already own this household",
		})
	}

	// Check if already a member
	var existing models.HouseholdMember
	if err := database.DB.Where("household_id = ? AND user_id = ?", invite.HouseholdID, userID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You are already a member of this household",
		})
	}

	// Create membership
	member := models.HouseholdMember{
		HouseholdID: invite.HouseholdID,
		UserID:      userID,
		Role:        "caregiver",
	}
	if err := database.DB.Create(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to join household",
		})
	}

	// Increment invite usage
	database.DB.Model(&invite).Update("used_count", invite.UsedCount+1)

	LogActivity(invite.HouseholdID, userID, "member_joined", nil, nil)

	// Broadcast member joined via WebSocket
	WS.Broadcast(invite.HouseholdID, userID, WSEvent{
		Type:        EventMemberJoined,
		HouseholdID: invite.HouseholdID.String(),
		ActorID:     userID.String(),
	})

	return c.JSON(fiber.Map{
		"message":     "Successfully joined household",
		"householdId": invite.HouseholdID,
	})
}

// GetMembers lists all caregiver accounts of a household
func GetMembers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	if !isHouseholdMember(householdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found",
		})
	}

	var household models.Household
	database.DB.First(&household, householdID)

	var members []models.HouseholdMember
	database.DB.Where("household_id = ?", householdID).
		Preload("User").
		Find(&members)

	result := []models.MemberInfo{}
	var owner models.User
	if err := database.DB.First(&owner, household.OwnerID).Error; err == nil {
		result = append(result, models.MemberInfo{
			ID:          owner.ID,
			Name:        owner.Name,
			DisplayName: owner.DisplayName,
			AvatarURL:   owner.AvatarURL,
			Role:        "owner",
		})
	}
	for _, m := range members {
		result = append(result, models.MemberInfo{
			ID:          m.UserID,
			Name:        m.User.Name,
			DisplayName: m.User.DisplayName,
			AvatarURL:   m.User.AvatarURL,
			Role:        m.Role,
		})
	}

	return c.JSON(result)
}

// RemoveMember removes a caregiver from a household (owner only)
func RemoveMember(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	targetUserID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	// Verify caller is the household owner
	var household models.Household
	if err := database.DB.Where("id = ? AND owner_id = ?", householdID, userID).First(&household).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the household owner can remove members",
		})
	}

	if targetUserID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner cannot be removed. Delete the household instead.",
		})
	}

	result := database.DB.Where("household_id = ? AND user_id = ?", householdID, targetUserID).Delete(&models.HouseholdMember{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	LogActivity(householdID, targetUserID, "member_left", nil, nil)

	return c.SendStatus(fiber.StatusNoContent)
}

// LeaveHousehold allows a caregiver to leave a household (not the owner)
func LeaveHousehold(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	var household models.Household
	if err := database.DB.First(&household, householdID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found",
		})
	}

	if household.OwnerID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner cannot leave the household. Delete it instead.",
		})
	}

	result := database.DB.Where("household_id = ? AND user_id = ?", householdID, userID).Delete(&models.HouseholdMember{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "You are not a member of this household",
		})
	}

	LogActivity(householdID, userID, "member_left", nil, nil)

	return c.SendStatus(fiber.StatusNoContent)
}
