package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

func CreateGoal(c *fiber.Ctx) error {
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

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" || req.TargetValue <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and a positive target value are required",
		})
	}
	if !personInHousehold(req.PersonID, householdID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Person not found in this household",
		})
	}

	goal := models.Goal{
		HouseholdID: householdID,
		PersonID:    req.PersonID,
		Title:       req.Title,
		TargetValue: req.TargetValue,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoals(c *fiber.Ctx) error {
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

	query := database.DB.Where("household_id = ?", householdID)
	if personID, err := uuid.Parse(c.Query("personId")); err == nil {
		query = query.Where("person_id = ?", personID)
	}

	var goals []models.Goal
	query.Order("created_at ASC").Find(&goals)

	// Attach the derived progress signal
	type goalWithProgress struct {
		models.Goal
		Achieved   bool    `json:"achieved"`
		Percentage float64 `json:"percentage"`
	}
	result := make([]goalWithProgress, len(goals))
	for i, g := range goals {
		result[i] = goalWithProgress{Goal: g, Achieved: g.Achieved(), Percentage: g.Percentage()}
	}

	return c.JSON(result)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.First(&goal, goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}
	if !isHouseholdMember(goal.HouseholdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.TargetValue != nil && *req.TargetValue > 0 {
		goal.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}

	if err := database.DB.Save(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	return c.JSON(fiber.Map{
		"goal":       goal,
		"achieved":   goal.Achieved(),
		"percentage": goal.Percentage(),
	})
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.First(&goal, goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}
	if !isHouseholdMember(goal.HouseholdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	database.DB.Delete(&goal)
	return c.SendStatus(fiber.StatusNoContent)
}
