package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
	"github.com/mara/routinely-api/internal/period"
)

var errAlreadyCompleted = errors.New("task already completed this period")

func validTaskType(t string) bool {
	switch t {
	case models.TaskSimple, models.TaskMultipleCheckin, models.TaskProgress, models.TaskSmart:
		return true
	}
	return false
}

func CreateTask(c *fiber.Ctx) error {
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

	var req models.CreateTaskRequest
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

	task := models.Task{
		RoutineID:   routineID,
		Title:       req.Title,
		Icon:        req.Icon,
		Type:        models.TaskSimple,
		Status:      models.TaskActive,
		TargetValue: req.TargetValue,
	}
	if validTaskType(req.Type) {
		task.Type = req.Type
	}

	if req.Position != nil {
		task.Position = *req.Position
	} else {
		// Append at the end of the routine
		var max int64
		database.DB.Model(&models.Task{}).Where("routine_id = ?", routineID).Count(&max)
		task.Position = int(max)
	}

	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func UpdateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	routine := routineForUser(task.RoutineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Icon != nil {
		task.Icon = req.Icon
	}
	if req.Type != nil && validTaskType(*req.Type) {
		task.Type = *req.Type
		if task.Type != models.TaskSmart {
			task.ConditionID = nil
		}
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	if req.Status != nil && (*req.Status == models.TaskActive || *req.Status == models.TaskArchived) {
		task.Status = *req.Status
	}
	if req.TargetValue != nil {
		task.TargetValue = req.TargetValue
	}

	if err := database.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	return c.JSON(task)
}

func DeleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	if routineForUser(task.RoutineID, userID) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	database.DB.Where("task_id = ?", taskID).Delete(&models.TaskCompletion{})
	database.DB.Delete(&task)

	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteTask records a completion of a task by a person. SIMPLE tasks can
// only be completed once per reset period; PROGRESS tasks require a value.
func CompleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	routine := routineForUser(task.RoutineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var req models.CompleteTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !personInHousehold(req.PersonID, routine.HouseholdID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Person not found in this household",
		})
	}
	if task.Type == models.TaskProgress && req.Value == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A value is required for progress tasks",
		})
	}

	now := time.Now()
	completion := models.TaskCompletion{
		TaskID:      taskID,
		PersonID:    req.PersonID,
		CompletedAt: now,
		Value:       req.Value,
	}

	// The once-per-period guard and the insert share a transaction so two
	// concurrent taps cannot both pass the count.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if task.Type == models.TaskSimple {
			since := period.Start(routine.Period, routine.AnchorDay, now)
			var count int64
			if err := tx.Model(&models.TaskCompletion{}).
				Where("task_id = ? AND person_id = ? AND completed_at >= ?", taskID, req.PersonID, since).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errAlreadyCompleted
			}
		}
		return tx.Create(&completion).Error
	})
	if errors.Is(err, errAlreadyCompleted) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Task already completed this period",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record completion",
		})
	}

	LogActivity(routine.HouseholdID, req.PersonID, "task_completed", &taskID, map[string]interface{}{
		"taskTitle": task.Title,
	})

	WS.Broadcast(routine.HouseholdID, userID, WSEvent{
		Type:        EventTaskCompleted,
		HouseholdID: routine.HouseholdID.String(),
		ActorID:     req.PersonID.String(),
		Data:        completion,
	})

	return c.Status(fiber.StatusCreated).JSON(completion)
}

// GetCompletions lists a task's completions in the current reset period,
// optionally filtered by person.
func GetCompletions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	routine := routineForUser(task.RoutineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	since := period.Start(routine.Period, routine.AnchorDay, time.Now())
	query := database.DB.Where("task_id = ? AND completed_at >= ?", taskID, since)
	if personID, err := uuid.Parse(c.Query("personId")); err == nil {
		query = query.Where("person_id = ?", personID)
	}

	var completions []models.TaskCompletion
	query.Order("completed_at DESC").Find(&completions)

	return c.JSON(completions)
}

// UndoCompletion deletes a completion (wrong tap on the kiosk)
func UndoCompletion(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	completionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid completion ID",
		})
	}

	var completion models.TaskCompletion
	if err := database.DB.First(&completion, completionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Completion not found",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, completion.TaskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	if routineForUser(task.RoutineID, userID) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Completion not found",
		})
	}

	database.DB.Delete(&completion)
	return c.SendStatus(fiber.StatusNoContent)
}
