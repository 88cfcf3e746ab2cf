package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/models"
)

// IsTaskVisible reports whether a task should be shown to a person. Non-SMART
// tasks are always visible; a SMART task is visible iff its controlling
// condition evaluates true.
func (e *Evaluator) IsTaskVisible(taskID, personID uuid.UUID, ctx *Context) (bool, error) {
	task, err := e.repo.Task(taskID)
	if err != nil {
		return false, fmt.Errorf("task %s: %w", taskID, err)
	}
	return e.taskVisible(task, personID, ctx)
}

func (e *Evaluator) taskVisible(task *models.Task, personID uuid.UUID, ctx *Context) (bool, error) {
	if task.Type != models.TaskSmart {
		return true, nil
	}
	if task.ConditionID == nil {
		// A smart task that hasn't been given a condition yet degrades open.
		return true, nil
	}
	result, err := e.EvaluateCondition(*task.ConditionID, personID, ctx)
	if err != nil {
		return false, err
	}
	return result.Met, nil
}

// IsRoutineVisible reports whether a routine should be shown to a person.
// A SMART routine with controlling conditions is visible only when every one
// of them is met: an implicit AND across conditions, on top of each
// condition's own AND/OR logic. Zero controlling conditions means always show.
func (e *Evaluator) IsRoutineVisible(routineID, personID uuid.UUID, ctx *Context) (bool, error) {
	routine, err := e.repo.Routine(routineID)
	if err != nil {
		return false, fmt.Errorf("routine %s: %w", routineID, err)
	}
	if routine.Type != models.RoutineSmart {
		return true, nil
	}
	conditions, err := e.repo.ControllingConditions(routineID)
	if err != nil {
		return false, err
	}
	for i := range conditions {
		if !e.evaluateLoaded(&conditions[i], personID, ctx).Met {
			return false, nil
		}
	}
	return true, nil
}

// VisibleTasks filters a routine's active tasks down to those visible to the
// person, preserving the routine's declared task order.
func (e *Evaluator) VisibleTasks(routineID, personID uuid.UUID, ctx *Context) ([]models.Task, error) {
	tasks, err := e.repo.ActiveTasks(routineID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		ok, err := e.taskVisible(&tasks[i], personID, ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, tasks[i])
		}
	}
	return visible, nil
}

// VisibleRoutines evaluates visibility for a batch of routines concurrently
// and returns the visible ones in input order. Evaluations share no mutable
// state, so the fan-out needs no coordination beyond the gather.
func (e *Evaluator) VisibleRoutines(routineIDs []uuid.UUID, personID uuid.UUID, ctx *Context) ([]uuid.UUID, error) {
	visible := make([]bool, len(routineIDs))
	errs := make([]error, len(routineIDs))

	var wg sync.WaitGroup
	for i, id := range routineIDs {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			visible[i], errs[i] = e.IsRoutineVisible(id, personID, ctx)
		}(i, id)
	}
	wg.Wait()

	result := make([]uuid.UUID, 0, len(routineIDs))
	for i, id := range routineIDs {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if visible[i] {
			result = append(result, id)
		}
	}
	return result, nil
}
