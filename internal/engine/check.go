package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/models"
	"github.com/mara/routinely-api/internal/period"
)

// percentTolerance guards ROUTINE_PERCENT_EQUALS against floating-point
// false negatives: 33.33 and 33.333333 compare equal.
const percentTolerance = 0.01

// evaluateCheck computes a single check's raw result, before negation.
// A non-empty note marks a degraded outcome (unknown operator) that still
// resolves to false without failing the condition; an error marks a real
// evaluation failure the orchestrator absorbs at its boundary.
func (e *Evaluator) evaluateCheck(check *models.Check, personID uuid.UUID, ctx *Context) (raw bool, note string, err error) {
	switch check.Operator {
	case models.OpTaskCompleted:
		count, err := e.inPeriodCompletionCount(check, personID, ctx)
		if err != nil {
			return false, "", err
		}
		return count > 0, "", nil

	case models.OpTaskNotCompleted:
		count, err := e.inPeriodCompletionCount(check, personID, ctx)
		if err != nil {
			return false, "", err
		}
		return count == 0, "", nil

	case models.OpTaskCountEquals, models.OpTaskCountGT, models.OpTaskCountLT:
		count, err := e.inPeriodCompletionCount(check, personID, ctx)
		if err != nil {
			return false, "", err
		}
		want := parseInt(check.Value)
		switch check.Operator {
		case models.OpTaskCountGT:
			return count > int64(want), "", nil
		case models.OpTaskCountLT:
			return count < int64(want), "", nil
		default:
			return count == int64(want), "", nil
		}

	case models.OpTaskValueEquals, models.OpTaskValueGT, models.OpTaskValueLT:
		latest, err := e.latestInPeriodCompletion(check, personID, ctx)
		if err != nil {
			return false, "", err
		}
		if latest == nil {
			return false, "", nil // no completion this period
		}
		var got float64
		if latest.Value != nil {
			got = *latest.Value
		}
		want := parseFloat(check.Value)
		switch check.Operator {
		case models.OpTaskValueGT:
			return got > want, "", nil
		case models.OpTaskValueLT:
			return got < want, "", nil
		default:
			return got == want, "", nil
		}

	case models.OpRoutinePercentEquals, models.OpRoutinePercentGT, models.OpRoutinePercentLT:
		return e.evaluateRoutinePercent(check, personID, ctx)

	case models.OpGoalAchieved, models.OpGoalNotAchieved:
		if check.TargetGoalID == nil {
			return false, "", fmt.Errorf("check %s: no target goal", check.ID)
		}
		progress, err := e.repo.GoalProgress(*check.TargetGoalID)
		if err != nil {
			return false, "", fmt.Errorf("goal %s: %w", check.TargetGoalID, err)
		}
		if check.Operator == models.OpGoalNotAchieved {
			return !progress.Achieved, "", nil
		}
		return progress.Achieved, "", nil

	case models.OpTimeOfDay:
		return evaluateTimeOfDay(check, ctx)

	case models.OpDayOfWeek:
		days := check.DaySet()
		if len(days) == 0 {
			return false, "", nil // empty day set never matches
		}
		today := ctx.dayOfWeek()
		for _, d := range days {
			if d == today {
				return true, "", nil
			}
		}
		return false, "", nil

	default:
		// Conditions are user-authored configuration: an operator we don't
		// recognize degrades to "not met" instead of crashing a dashboard.
		return false, "unknown operator " + check.Operator, nil
	}
}

// inPeriodCompletionCount counts completions of the target task by the person
// within the current reset period of the task's owning routine.
func (e *Evaluator) inPeriodCompletionCount(check *models.Check, personID uuid.UUID, ctx *Context) (int64, error) {
	since, err := e.taskPeriodStart(check, ctx)
	if err != nil {
		return 0, err
	}
	return e.repo.CompletionCount(*check.TargetTaskID, personID, since)
}

func (e *Evaluator) latestInPeriodCompletion(check *models.Check, personID uuid.UUID, ctx *Context) (*models.TaskCompletion, error) {
	since, err := e.taskPeriodStart(check, ctx)
	if err != nil {
		return nil, err
	}
	return e.repo.LatestCompletion(*check.TargetTaskID, personID, since)
}

// taskPeriodStart resolves the target task's owning routine and computes the
// start of its current reset period. Always recomputed from "now", never a
// boundary captured when the condition was authored.
func (e *Evaluator) taskPeriodStart(check *models.Check, ctx *Context) (time.Time, error) {
	if check.TargetTaskID == nil {
		return time.Time{}, fmt.Errorf("check %s: no target task", check.ID)
	}
	task, err := e.repo.Task(*check.TargetTaskID)
	if err != nil {
		return time.Time{}, fmt.Errorf("task %s: %w", check.TargetTaskID, err)
	}
	routine, err := e.repo.Routine(task.RoutineID)
	if err != nil {
		return time.Time{}, fmt.Errorf("routine %s: %w", task.RoutineID, err)
	}
	return period.Start(routine.Period, routine.AnchorDay, ctx.now()), nil
}

// evaluateRoutinePercent compares the person's completion percentage over the
// target routine's active tasks. A routine with zero active tasks evaluates
// to false regardless of operator, never vacuously true.
func (e *Evaluator) evaluateRoutinePercent(check *models.Check, personID uuid.UUID, ctx *Context) (bool, string, error) {
	if check.TargetRoutineID == nil {
		return false, "", fmt.Errorf("check %s: no target routine", check.ID)
	}
	routine, err := e.repo.Routine(*check.TargetRoutineID)
	if err != nil {
		return false, "", fmt.Errorf("routine %s: %w", check.TargetRoutineID, err)
	}
	tasks, err := e.repo.ActiveTasks(routine.ID)
	if err != nil {
		return false, "", err
	}
	if len(tasks) == 0 {
		return false, "", nil
	}

	since := period.Start(routine.Period, routine.AnchorDay, ctx.now())
	completed := 0
	for i := range tasks {
		count, err := e.repo.CompletionCount(tasks[i].ID, personID, since)
		if err != nil {
			return false, "", err
		}
		if count > 0 {
			completed++
		}
	}
	pct := float64(completed) / float64(len(tasks)) * 100
	want := parseFloat(check.Value)

	switch check.Operator {
	case models.OpRoutinePercentGT:
		return pct > want, "", nil
	case models.OpRoutinePercentLT:
		return pct < want, "", nil
	default:
		return math.Abs(pct-want) < percentTolerance, "", nil
	}
}

// evaluateTimeOfDay compares "now" against the check's clock bounds in
// minutes since midnight. BETWEEN is inclusive at both ends and does not
// wrap: an end before the start (e.g. 22:00-02:00) is an authoring error.
func evaluateTimeOfDay(check *models.Check, ctx *Context) (bool, string, error) {
	if check.TimeOperator == nil {
		return false, "", fmt.Errorf("check %s: no time operator", check.ID)
	}
	bound, err := parseClock(check.Value)
	if err != nil {
		return false, "", fmt.Errorf("check %s: %w", check.ID, err)
	}
	now := ctx.now()
	minutes := now.Hour()*60 + now.Minute()

	switch *check.TimeOperator {
	case models.TimeBefore:
		return minutes < bound, "", nil
	case models.TimeAfter:
		return minutes > bound, "", nil
	case models.TimeBetween:
		end, err := parseClock(check.Value2)
		if err != nil {
			return false, "", fmt.Errorf("check %s: missing end bound: %w", check.ID, err)
		}
		if end < bound {
			return false, "", fmt.Errorf("check %s: time range spans midnight (%d > %d)", check.ID, bound, end)
		}
		return minutes >= bound && minutes <= end, "", nil
	default:
		return false, "unknown time operator " + *check.TimeOperator, nil
	}
}

// parseInt reads a string-encoded operand, defaulting to 0 when missing or
// unparsable.
func parseInt(s *string) int {
	if s == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s *string) float64 {
	if s == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s *string) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("no time value")
	}
	parts := strings.Split(strings.TrimSpace(*s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", *s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q", *s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q", *s)
	}
	return hour*60 + minute, nil
}
