package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/engine"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
	"github.com/mara/routinely-api/internal/store"
)

var errCycle = errors.New("condition would create a dependency cycle")

var knownOperators = map[string]bool{
	models.OpTaskCompleted:    true,
	models.OpTaskNotCompleted: true,

	models.OpTaskCountEquals: true,
	models.OpTaskCountGT:     true,
	models.OpTaskCountLT:     true,

	models.OpTaskValueEquals: true,
	models.OpTaskValueGT:     true,
	models.OpTaskValueLT:     true,

	models.OpRoutinePercentEquals: true,
	models.OpRoutinePercentGT:     true,
	models.OpRoutinePercentLT:     true,

	models.OpGoalAchieved:    true,
	models.OpGoalNotAchieved: true,

	models.OpTimeOfDay: true,
	models.OpDayOfWeek: true,
}

// validateCheck enforces the shape rules: a recognized operator, at most one
// target reference, and targets only where the operator category allows one.
func validateCheck(req *models.CheckRequest) string {
	if !knownOperators[req.Operator] {
		return "Unknown operator " + req.Operator
	}

	targets := 0
	if req.TargetTaskID != nil {
		targets++
	}
	if req.TargetRoutineID != nil {
		targets++
	}
	if req.TargetGoalID != nil {
		targets++
	}
	if targets > 1 {
		return "A check may reference at most one target"
	}

	switch req.Operator {
	case models.OpTimeOfDay:
		if targets != 0 {
			return "Time-of-day checks reference no target"
		}
		if req.TimeOperator == nil || req.Value == nil {
			return "Time-of-day checks need a time operator and a value"
		}
		if *req.TimeOperator == models.TimeBetween && req.Value2 == nil {
			return "BETWEEN checks need an end bound"
		}
	case models.OpDayOfWeek:
		if targets != 0 {
			return "Day-of-week checks reference no target"
		}
	case models.OpGoalAchieved, models.OpGoalNotAchieved:
		if req.TargetGoalID == nil {
			return "Goal checks need a target goal"
		}
	case models.OpRoutinePercentEquals, models.OpRoutinePercentGT, models.OpRoutinePercentLT:
		if req.TargetRoutineID == nil {
			return "Routine checks need a target routine"
		}
	default:
		if req.TargetTaskID == nil {
			return "Task checks need a target task"
		}
	}
	return ""
}

func buildChecks(conditionID uuid.UUID, reqs []models.CheckRequest) []models.Check {
	checks := make([]models.Check, len(reqs))
	for i, r := range reqs {
		checks[i] = models.Check{
			ConditionID:     conditionID,
			Operator:        r.Operator,
			Negate:          r.Negate,
			Value:           r.Value,
			Value2:          r.Value2,
			TimeOperator:    r.TimeOperator,
			DaysOfWeek:      r.DaysOfWeek,
			TargetTaskID:    r.TargetTaskID,
			TargetRoutineID: r.TargetRoutineID,
			TargetGoalID:    r.TargetGoalID,
		}
	}
	return checks
}

// rejectCycles validates every routine-targeting check of a condition owned
// by ownerRoutineID against the controls graph, using the transaction's view
// of the data so a concurrent writer cannot slip an edge past us.
func rejectCycles(tx *gorm.DB, ownerRoutineID uuid.UUID, reqs []models.CheckRequest) error {
	detector := engine.NewCycleDetector(store.New(tx))
	for i := range reqs {
		if reqs[i].TargetRoutineID == nil {
			continue
		}
		cycle, err := detector.WouldCreateCycle(ownerRoutineID, *reqs[i].TargetRoutineID)
		if err != nil {
			return err
		}
		if cycle {
			return errCycle
		}
	}
	return nil
}

func CreateCondition(c *fiber.Ctx) error {
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

	var req models.ConditionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Logic != models.LogicAnd && req.Logic != models.LogicOr {
		req.Logic = models.LogicAnd
	}
	for i := range req.Checks {
		if msg := validateCheck(&req.Checks[i]); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": msg,
			})
		}
	}

	// A task-level condition must name a SMART task inside this routine.
	var task models.Task
	if !req.ControlsRoutine {
		if req.TaskID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "A task-level condition needs a taskId",
			})
		}
		if err := database.DB.Where("id = ? AND routine_id = ?", req.TaskID, routineID).First(&task).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found in this routine",
			})
		}
		if task.Type != models.TaskSmart {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Only SMART tasks can have a condition",
			})
		}
	}

	condition := models.Condition{
		RoutineID:       routineID,
		ControlsRoutine: req.ControlsRoutine,
		Logic:           req.Logic,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := rejectCycles(tx, routineID, req.Checks); err != nil {
			return err
		}
		if err := tx.Create(&condition).Error; err != nil {
			return err
		}
		checks := buildChecks(condition.ID, req.Checks)
		if len(checks) > 0 {
			if err := tx.Create(&checks).Error; err != nil {
				return err
			}
			condition.Checks = checks
		}
		if !req.ControlsRoutine {
			if err := tx.Model(&task).Update("condition_id", condition.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errCycle) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": errCycle.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create condition",
		})
	}

	WS.Broadcast(routine.HouseholdID, userID, WSEvent{
		Type:        EventConditionUpdated,
		HouseholdID: routine.HouseholdID.String(),
		ActorID:     userID.String(),
		Data:        condition,
	})

	return c.Status(fiber.StatusCreated).JSON(condition)
}

// UpdateCondition fully replaces a condition's logic and checks. Checks are
// deleted and recreated, never patched individually.
func UpdateCondition(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	conditionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid condition ID",
		})
	}

	var condition models.Condition
	if err := database.DB.First(&condition, conditionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}
	routine := routineForUser(condition.RoutineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}

	var req models.ConditionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Logic != models.LogicAnd && req.Logic != models.LogicOr {
		req.Logic = models.LogicAnd
	}
	for i := range req.Checks {
		if msg := validateCheck(&req.Checks[i]); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": msg,
			})
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := rejectCycles(tx, condition.RoutineID, req.Checks); err != nil {
			return err
		}
		if err := tx.Where("condition_id = ?", condition.ID).Delete(&models.Check{}).Error; err != nil {
			return err
		}
		condition.Logic = req.Logic
		if err := tx.Save(&condition).Error; err != nil {
			return err
		}
		checks := buildChecks(condition.ID, req.Checks)
		if len(checks) > 0 {
			if err := tx.Create(&checks).Error; err != nil {
				return err
			}
		}
		condition.Checks = checks
		return nil
	})
	if errors.Is(err, errCycle) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": errCycle.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update condition",
		})
	}

	WS.Broadcast(routine.HouseholdID, userID, WSEvent{
		Type:        EventConditionUpdated,
		HouseholdID: routine.HouseholdID.String(),
		ActorID:     userID.String(),
		Data:        condition,
	})

	return c.JSON(condition)
}

func GetCondition(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	conditionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid condition ID",
		})
	}

	var condition models.Condition
	if err := database.DB.Preload("Checks").First(&condition, conditionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}
	if routineForUser(condition.RoutineID, userID) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}

	return c.JSON(condition)
}

// DeleteCondition removes a condition and cascades its checks. Tasks gated
// by it fall back to always-visible.
func DeleteCondition(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	conditionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid condition ID",
		})
	}

	var condition models.Condition
	if err := database.DB.First(&condition, conditionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}
	if routineForUser(condition.RoutineID, userID) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("condition_id = ?", conditionID).Update("condition_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("condition_id = ?", conditionID).Delete(&models.Check{}).Error; err != nil {
			return err
		}
		return tx.Delete(&condition).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete condition",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// EvaluateConditionDebug runs one condition for a person and returns the
// per-check breakdown, so an author can see why a smart task is hidden.
// ?at= and ?day= freeze the evaluation context.
func EvaluateConditionDebug(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	conditionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid condition ID",
		})
	}

	var condition models.Condition
	if err := database.DB.First(&condition, conditionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}
	routine := routineForUser(condition.RoutineID, userID)
	if routine == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Condition not found",
		})
	}

	personID, err := uuid.Parse(c.Query("personId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A personId query parameter is required",
		})
	}
	if !personInHousehold(personID, routine.HouseholdID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Person not found in this household",
		})
	}

	evalCtx, err := parseEvalContext(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := evaluator().EvaluateCondition(conditionID, personID, evalCtx)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Condition not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to evaluate condition",
		})
	}

	return c.JSON(result)
}
