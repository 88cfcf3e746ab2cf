package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mara/routinely-api/internal/models"
)

func strPtr(s string) *string { return &s }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestValidateCheckUnknownOperator(t *testing.T) {
	msg := validateCheck(&models.CheckRequest{Operator: "TASK_EXPLODED"})
	assert.Contains(t, msg, "Unknown operator")
}

func TestValidateCheckRejectsMultipleTargets(t *testing.T) {
	msg := validateCheck(&models.CheckRequest{
		Operator:        models.OpTaskCompleted,
		TargetTaskID:    idPtr(uuid.New()),
		TargetRoutineID: idPtr(uuid.New()),
	})
	assert.Contains(t, msg, "at most one target")
}

func TestValidateCheckTargetRequiredPerCategory(t *testing.T) {
	assert.NotEmpty(t, validateCheck(&models.CheckRequest{Operator: models.OpTaskCompleted}))
	assert.NotEmpty(t, validateCheck(&models.CheckRequest{Operator: models.OpRoutinePercentGT}))
	assert.NotEmpty(t, validateCheck(&models.CheckRequest{Operator: models.OpGoalAchieved}))

	assert.Empty(t, validateCheck(&models.CheckRequest{
		Operator:     models.OpTaskCompleted,
		TargetTaskID: idPtr(uuid.New()),
	}))
	assert.Empty(t, validateCheck(&models.CheckRequest{
		Operator:        models.OpRoutinePercentGT,
		TargetRoutineID: idPtr(uuid.New()),
		Value:           strPtr("50"),
	}))
	assert.Empty(t, validateCheck(&models.CheckRequest{
		Operator:     models.OpGoalAchieved,
		TargetGoalID: idPtr(uuid.New()),
	}))
}

func TestValidateCheckTimeOfDayShape(t *testing.T) {
	// Needs a time operator and a value.
	assert.NotEmpty(t, validateCheck(&models.CheckRequest{Operator: models.OpTimeOfDay}))

	before := models.TimeBefore
	assert.Empty(t, validateCheck(&models.CheckRequest{
		Operator:     models.OpTimeOfDay,
		TimeOperator: &before,
		Value:        strPtr("08:00"),
	}))

	// BETWEEN also needs the end bound.
	between := models.TimeBetween
	assert.NotEmpty(t, validateCheck(&models.CheckRequest{
		Operator:     models.OpTimeOfDay,
		TimeOperator: &between,
		Value:        strPtr("08:00"),
	}))
	assert.Empty(t, validateCheck(&models.CheckRequest{
		Operator:     models.OpTimeOfDay,
		TimeOperator: &between,
		Value:        strPtr("08:00"),
		Value2:       strPtr("10:00"),
	}))

	// Calendar checks reference no target.
	assert.NotEmpty(t, validateCheck(&models.CheckRequest{
		Operator:     models.OpTimeOfDay,
		TimeOperator: &before,
		Value:        strPtr("08:00"),
		TargetTaskID: idPtr(uuid.New()),
	}))
}

func TestBuildChecksCarriesAllFields(t *testing.T) {
	conditionID := uuid.New()
	taskID := uuid.New()
	between := models.TimeBetween

	checks := buildChecks(conditionID, []models.CheckRequest{
		{
			Operator:     models.OpTaskCountGT,
			Negate:       true,
			Value:        strPtr("2"),
			TargetTaskID: idPtr(taskID),
		},
		{
			Operator:     models.OpTimeOfDay,
			TimeOperator: &between,
			Value:        strPtr("08:00"),
			Value2:       strPtr("10:00"),
		},
	})

	assert.Len(t, checks, 2)
	assert.Equal(t, conditionID, checks[0].ConditionID)
	assert.True(t, checks[0].Negate)
	assert.Equal(t, "2", *checks[0].Value)
	assert.Equal(t, taskID, *checks[0].TargetTaskID)
	assert.Equal(t, conditionID, checks[1].ConditionID)
	assert.Equal(t, models.TimeBetween, *checks[1].TimeOperator)
	assert.Equal(t, "10:00", *checks[1].Value2)
}
