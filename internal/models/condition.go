package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Condition logic modes
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Check operators, the closed set the evaluation engine dispatches on.
const (
	OpTaskCompleted    = "TASK_COMPLETED"
	OpTaskNotCompleted = "TASK_NOT_COMPLETED"

	OpTaskCountEquals = "TASK_COUNT_EQUALS"
	OpTaskCountGT     = "TASK_COUNT_GT"
	OpTaskCountLT     = "TASK_COUNT_LT"

	OpTaskValueEquals = "TASK_VALUE_EQUALS"
	OpTaskValueGT     = "TASK_VALUE_GT"
	OpTaskValueLT     = "TASK_VALUE_LT"

	OpRoutinePercentEquals = "ROUTINE_PERCENT_EQUALS"
	OpRoutinePercentGT     = "ROUTINE_PERCENT_GT"
	OpRoutinePercentLT     = "ROUTINE_PERCENT_LT"

	OpGoalAchieved    = "GOAL_ACHIEVED"
	OpGoalNotAchieved = "GOAL_NOT_ACHIEVED"

	OpTimeOfDay = "TIME_OF_DAY"
	OpDayOfWeek = "DAY_OF_WEEK"
)

// Time operators for TIME_OF_DAY checks
const (
	TimeBefore  = "BEFORE"
	TimeAfter   = "AFTER"
	TimeBetween = "BETWEEN"
)

// Condition is a boolean expression over checks, attached to a routine. It
// either controls the routine's own visibility (ControlsRoutine) or the
// visibility of a single SMART task that references it.
type Condition struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RoutineID       uuid.UUID      `json:"routineId" gorm:"type:uuid;index;not null"`
	ControlsRoutine bool           `json:"controlsRoutine" gorm:"default:false"`
	Logic           string         `json:"logic" gorm:"not null;default:'AND'"` // AND, OR
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	Checks          []Check        `json:"checks,omitempty" gorm:"foreignKey:ConditionID"`
}

func (c *Condition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Check is one atomic predicate inside a condition. At most one of the three
// target references is set; TIME_OF_DAY and DAY_OF_WEEK checks reference none.
type Check struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ConditionID     uuid.UUID      `json:"conditionId" gorm:"type:uuid;index;not null"`
	Operator        string         `json:"operator" gorm:"not null"`
	Negate          bool           `json:"negate" gorm:"default:false"`
	Value           *string        `json:"value"`        // number or "HH:MM" depending on operator
	Value2          *string        `json:"value2"`       // BETWEEN end bound
	TimeOperator    *string        `json:"timeOperator"` // BEFORE, AFTER, BETWEEN
	DaysOfWeek      *string        `json:"daysOfWeek"`   // comma-separated 0=Sunday..6=Saturday
	TargetTaskID    *uuid.UUID     `json:"targetTaskId" gorm:"type:uuid"`
	TargetRoutineID *uuid.UUID     `json:"targetRoutineId" gorm:"type:uuid"`
	TargetGoalID    *uuid.UUID     `json:"targetGoalId" gorm:"type:uuid"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ch *Check) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return nil
}

// DaySet parses the DaysOfWeek field into weekday indices. Unparsable or
// out-of-range entries are skipped.
func (ch *Check) DaySet() []int {
	if ch.DaysOfWeek == nil {
		return nil
	}
	var days []int
	for _, part := range strings.Split(*ch.DaysOfWeek, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Condition DTOs. Updates are full replacements: the checks of an existing
// condition are deleted and recreated, never patched one by one.
type CheckRequest struct {
	Operator        string     `json:"operator" validate:"required"`
	Negate          bool       `json:"negate"`
	Value           *string    `json:"value"`
	Value2          *string    `json:"value2"`
	TimeOperator    *string    `json:"timeOperator"`
	DaysOfWeek      *string    `json:"daysOfWeek"`
	TargetTaskID    *uuid.UUID `json:"targetTaskId"`
	TargetRoutineID *uuid.UUID `json:"targetRoutineId"`
	TargetGoalID    *uuid.UUID `json:"targetGoalId"`
}

type ConditionRequest struct {
	ControlsRoutine bool           `json:"controlsRoutine"`
	TaskID          *uuid.UUID     `json:"taskId"` // required when controlsRoutine is false
	Logic           string         `json:"logic"`
	Checks          []CheckRequest `json:"checks" validate:"required"`
}
