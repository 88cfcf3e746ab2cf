package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/engine"
	"github.com/mara/routinely-api/internal/models"
	"github.com/mara/routinely-api/internal/store"
)

// evaluator builds a fresh condition evaluator over the live database. The
// engine itself is stateless, so this is cheap.
func evaluator() *engine.Evaluator {
	return engine.NewEvaluator(store.New(database.DB))
}

// isHouseholdMember checks if a user owns or belongs to a household
func isHouseholdMember(householdID, userID uuid.UUID) bool {
	// Check ownership first
	var household models.Household
	if err := database.DB.Where("id = ? AND owner_id = ?", householdID, userID).First(&household).Error; err == nil {
		return true
	}
	// Check membership
	var member models.HouseholdMember
	return database.DB.Where("household_id = ? AND user_id = ?", householdID, userID).First(&member).Error == nil
}

// routineForUser loads a routine and verifies the caller can access its
// household. Returns nil when either fails; the caller answers 404.
func routineForUser(routineID, userID uuid.UUID) *models.Routine {
	var routine models.Routine
	if err := database.DB.First(&routine, routineID).Error; err != nil {
		return nil
	}
	if !isHouseholdMember(routine.HouseholdID, userID) {
		return nil
	}
	return &routine
}

// personInHousehold verifies a person profile belongs to the given household.
func personInHousehold(personID, householdID uuid.UUID) bool {
	var person models.Person
	return database.DB.Where("id = ? AND household_id = ?", personID, householdID).First(&person).Error == nil
}

// parseEvalContext reads the optional ?at= (RFC3339) and ?day= (0-6) query
// params into an evaluation context; nil means wall clock. A malformed ?at=
// is an error, so an author debugging a condition sees the typo instead of a
// silent wall-clock evaluation.
func parseEvalContext(c *fiber.Ctx) (*engine.Context, error) {
	return evalContextFrom(c.Query("at"), c.QueryInt("day", -1))
}

func evalContextFrom(at string, day int) (*engine.Context, error) {
	ctx := &engine.Context{}
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("invalid at timestamp %q, expected RFC3339", at)
		}
		ctx.CurrentTime = &parsed
	}
	if day >= 0 && day <= 6 {
		ctx.DayOfWeek = &day
	}
	if ctx.CurrentTime == nil && ctx.DayOfWeek == nil {
		return nil, nil
	}
	return ctx, nil
}
