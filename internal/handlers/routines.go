package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

func validPeriod(p string) bool {
	return p == models.PeriodDaily || p == models.PeriodWeekly || p == models.PeriodMonthly
}

func CreateRoutine(c *fiber.Ctx) error {
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

	var req models.CreateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	routine := models.Routine{
		HouseholdID: householdID,
		Title:       req.Title,
		Description: req.Description,
		Type:        models.RoutineStandard,
		Period:      models.PeriodDaily,
		AnchorDay:   req.AnchorDay,
		Status:      "ACTIVE",
	}
	if req.Type == models.RoutineSmart {
		routine.Type = models.RoutineSmart
	}
	if validPeriod(req.Period) {
		routine.Period = req.Period
	}

	if err := database.DB.Create(&routine).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create routine",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(routine)
}

func GetRoutines(c *fiber.Ctx) error {
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

	var routines []models.Routine
	database.DB.Where("household_id = ?", householdID).Order("created_at ASC").Find(&routines)

	return c.JSON(routines)
}

func GetRoutine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	routineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid routine ID",
		})
	}

	routine := routineForUser(routineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Routine not found",
		})
	}

	var full models.Routine
	if err := database.DB.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("tasks.position ASC")
	}).Preload("Conditions.Checks").First(&full, routineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Routine not found",
		})
	}

	return c.JSON(full)
}

func UpdateRoutine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	routineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid routine ID",
		})
	}

	routine := routineForUser(routineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Routine not found",
		})
	}

	var req models.UpdateRoutineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		routine.Title = *req.Title
	}
	if req.Description != nil {
		routine.Description = req.Description
	}
	if req.Type != nil && (*req.Type == models.RoutineStandard || *req.Type == models.RoutineSmart) {
		routine.Type = *req.Type
	}
	if req.Period != nil && validPeriod(*req.Period) {
		routine.Period = *req.Period
	}
	if req.AnchorDay != nil {
		routine.AnchorDay = req.AnchorDay
	}
	if req.Status != nil && (*req.Status == "ACTIVE" || *req.Status == "ARCHIVED") {
		routine.Status = *req.Status
	}

	if err := database.DB.Save(routine).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update routine",
		})
	}

	WS.Broadcast(routine.HouseholdID, userID, WSEvent{
		Type:        EventRoutineUpdated,
		HouseholdID: routine.HouseholdID.String(),
		ActorID:     userID.String(),
		Data:        routine,
	})

	return c.JSON(routine)
}

func DeleteRoutine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	routineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid routine ID",
		})
	}

	routine := routineForUser(routineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Routine not found",
		})
	}

	// Cascade: conditions and their checks, then tasks
	var conditionIDs []uuid.UUID
	database.DB.Model(&models.Condition{}).Where("routine_id = ?", routineID).Pluck("id", &conditionIDs)
	if len(conditionIDs) > 0 {
		database.DB.Where("condition_id IN ?", conditionIDs).Delete(&models.Check{})
		database.DB.Where("id IN ?", conditionIDs).Delete(&models.Condition{})
	}
	database.DB.Where("routine_id = ?", routineID).Delete(&models.Task{})
	database.DB.Delete(routine)

	return c.SendStatus(fiber.StatusNoContent)
}
