package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

// LogActivity records an entry in the household activity feed. Failures are
// ignored; the feed is best-effort and must not fail the triggering action.
func LogActivity(householdID, actorID uuid.UUID, actionType string, targetID *uuid.UUID, metadata map[string]interface{}) {
	activity := models.Activity{
		HouseholdID: householdID,
		ActorID:     actorID,
		ActionType:  actionType,
		TargetID:    targetID,
	}

	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			s := string(raw)
			activity.Metadata = &s
		}
	}

	database.DB.Create(&activity)
}

// GetHouseholdActivity returns the most recent activity for a household
func GetHouseholdActivity(c *fiber.Ctx) error {
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

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var activities []models.Activity
	database.DB.Where("household_id = ?", householdID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities)

	return c.JSON(activities)
}
