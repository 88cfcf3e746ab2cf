package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/engine"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

// GetVisibleTasks returns the tasks of a routine a person should see right
// now, with smart tasks filtered through their conditions.
func GetVisibleTasks(c *fiber.Ctx) error {
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

	tasks, err := evaluator().VisibleTasks(routineID, personID, evalCtx)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Routine not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve visible tasks",
		})
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return c.JSON(tasks)
}

// GetRoutineVisibility reports whether a routine as a whole is visible to a
// person, which is the AND of all its controlling conditions.
func GetRoutineVisibility(c *fiber.Ctx) error {
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

	visible, err := evaluator().IsRoutineVisible(routineID, personID, evalCtx)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Routine not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve routine visibility",
		})
	}

	return c.JSON(fiber.Map{
		"routineId": routineID,
		"personId":  personID,
		"visible":   visible,
	})
}

type dashboardRoutine struct {
	models.Routine
	Tasks []models.Task `json:"tasks"`
}

// GetPersonDashboard assembles everything a person should see across their
// household: every visible routine with its visible tasks.
func GetPersonDashboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	personID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	var person models.Person
	if err := database.DB.First(&person, personID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}
	if !isHouseholdMember(person.HouseholdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	var routines []models.Routine
	if err := database.DB.Where("household_id = ?", person.HouseholdID).
		Order("created_at ASC").Find(&routines).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch routines",
		})
	}

	routineIDs := make([]uuid.UUID, len(routines))
	byID := make(map[uuid.UUID]models.Routine, len(routines))
	for i, r := range routines {
		routineIDs[i] = r.ID
		byID[r.ID] = r
	}

	evalCtx, err := parseEvalContext(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	eval := evaluator()
	visibleIDs, err := eval.VisibleRoutines(routineIDs, personID, evalCtx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve visible routines",
		})
	}

	dashboard := make([]dashboardRoutine, 0, len(visibleIDs))
	for _, id := range visibleIDs {
		tasks, err := eval.VisibleTasks(id, personID, evalCtx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to resolve visible tasks",
			})
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		dashboard = append(dashboard, dashboardRoutine{
			Routine: byID[id],
			Tasks:   tasks,
		})
	}

	return c.JSON(fiber.Map{
		"personId": personID,
		"routines": dashboard,
	})
}
