// Package engine decides whether smart tasks and routines are visible. It
// evaluates user-authored conditions (boolean expressions over completion
// history, goal achievement and calendar context) and guards the condition
// graph against cycles at write time. The engine holds no state of its own:
// everything it reads comes through the Repository it is constructed with.
package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/models"
)

// ErrNotFound is returned when a referenced condition, task, routine or goal
// does not exist. Unlike per-check evaluation failures it is surfaced to the
// caller: a dangling reference is a data-integrity problem upstream.
var ErrNotFound = errors.New("not found")

// Repository is the read-only data access the engine needs. Implementations
// must not cache completion data across calls: every evaluation is expected
// to see the current state.
type Repository interface {
	Condition(id uuid.UUID) (*models.Condition, error)
	// ControllingConditions returns the conditions of a routine that control
	// the routine's own visibility, checks included.
	ControllingConditions(routineID uuid.UUID) ([]models.Condition, error)
	Task(id uuid.UUID) (*models.Task, error)
	Routine(id uuid.UUID) (*models.Routine, error)
	// ActiveTasks returns a routine's ACTIVE tasks in position order.
	ActiveTasks(routineID uuid.UUID) ([]models.Task, error)
	CompletionCount(taskID, personID uuid.UUID, since time.Time) (int64, error)
	// LatestCompletion returns the most recent completion at or after since,
	// or nil if there is none.
	LatestCompletion(taskID, personID uuid.UUID, since time.Time) (*models.TaskCompletion, error)
	GoalProgress(goalID uuid.UUID) (*GoalProgress, error)
}

// GoalProgress is the only goal signal the engine consumes; how it is
// computed belongs to the goal subsystem.
type GoalProgress struct {
	Achieved   bool    `json:"achieved"`
	Percentage float64 `json:"percentage"`
}

// Context makes time-based checks deterministic. A nil Context or nil field
// falls back to the wall clock.
type Context struct {
	CurrentTime *time.Time
	DayOfWeek   *int // 0=Sunday..6=Saturday
}

func (c *Context) now() time.Time {
	if c != nil && c.CurrentTime != nil {
		return *c.CurrentTime
	}
	return time.Now()
}

func (c *Context) dayOfWeek() int {
	if c != nil && c.DayOfWeek != nil {
		return *c.DayOfWeek
	}
	return int(c.now().Weekday())
}

// CheckResult is the per-check breakdown of a condition evaluation. Raw is
// the operator result before negation, Final after.
type CheckResult struct {
	CheckID  uuid.UUID `json:"checkId"`
	Operator string    `json:"operator"`
	Raw      bool      `json:"raw"`
	Negate   bool      `json:"negate"`
	Final    bool      `json:"final"`
	Reason   string    `json:"reason,omitempty"`
}

// Result is the outcome of evaluating one condition for one person. The
// breakdown is always populated; it is the only way to audit why a smart
// task or routine was hidden.
type Result struct {
	ConditionID uuid.UUID     `json:"conditionId"`
	Logic       string        `json:"logic"`
	Met         bool          `json:"met"`
	Reason      string        `json:"reason,omitempty"`
	Checks      []CheckResult `json:"checks"`
}

// Evaluator evaluates conditions and resolves visibility.
type Evaluator struct {
	repo Repository
}

func NewEvaluator(repo Repository) *Evaluator {
	return &Evaluator{repo: repo}
}
