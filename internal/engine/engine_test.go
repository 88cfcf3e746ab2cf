package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/models"
)

// fakeRepo is an in-memory Repository for tests.
type fakeRepo struct {
	conditions  map[uuid.UUID]*models.Condition
	controlling map[uuid.UUID][]models.Condition
	tasks       map[uuid.UUID]*models.Task
	routines    map[uuid.UUID]*models.Routine
	activeTasks map[uuid.UUID][]models.Task
	completions map[uuid.UUID][]models.TaskCompletion
	goals       map[uuid.UUID]*GoalProgress
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		conditions:  make(map[uuid.UUID]*models.Condition),
		controlling: make(map[uuid.UUID][]models.Condition),
		tasks:       make(map[uuid.UUID]*models.Task),
		routines:    make(map[uuid.UUID]*models.Routine),
		activeTasks: make(map[uuid.UUID][]models.Task),
		completions: make(map[uuid.UUID][]models.TaskCompletion),
		goals:       make(map[uuid.UUID]*GoalProgress),
	}
}

func (f *fakeRepo) Condition(id uuid.UUID) (*models.Condition, error) {
	if c, ok := f.conditions[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ControllingConditions(routineID uuid.UUID) ([]models.Condition, error) {
	return f.controlling[routineID], nil
}

func (f *fakeRepo) Task(id uuid.UUID) (*models.Task, error) {
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Routine(id uuid.UUID) (*models.Routine, error) {
	if r, ok := f.routines[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ActiveTasks(routineID uuid.UUID) ([]models.Task, error) {
	return f.activeTasks[routineID], nil
}

func (f *fakeRepo) CompletionCount(taskID, personID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, c := range f.completions[taskID] {
		if c.PersonID == personID && !c.CompletedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) LatestCompletion(taskID, personID uuid.UUID, since time.Time) (*models.TaskCompletion, error) {
	var latest *models.TaskCompletion
	for i := range f.completions[taskID] {
		c := &f.completions[taskID][i]
		if c.PersonID != personID || c.CompletedAt.Before(since) {
			continue
		}
		if latest == nil || c.CompletedAt.After(latest.CompletedAt) {
			latest = c
		}
	}
	return latest, nil
}

func (f *fakeRepo) GoalProgress(goalID uuid.UUID) (*GoalProgress, error) {
	if g, ok := f.goals[goalID]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

// test fixture helpers

func (f *fakeRepo) addRoutine(routineType, periodType string) *models.Routine {
	r := &models.Routine{ID: uuid.New(), Type: routineType, Period: periodType}
	f.routines[r.ID] = r
	return r
}

func (f *fakeRepo) addTask(routineID uuid.UUID, taskType string) *models.Task {
	t := &models.Task{
		ID:        uuid.New(),
		RoutineID: routineID,
		Position:  len(f.activeTasks[routineID]),
		Type:      taskType,
		Status:    models.TaskActive,
	}
	f.tasks[t.ID] = t
	f.activeTasks[routineID] = append(f.activeTasks[routineID], *t)
	return t
}

func (f *fakeRepo) addCompletion(taskID, personID uuid.UUID, at time.Time, value *float64) {
	f.completions[taskID] = append(f.completions[taskID], models.TaskCompletion{
		ID:          uuid.New(),
		TaskID:      taskID,
		PersonID:    personID,
		CompletedAt: at,
		Value:       value,
	})
}

func (f *fakeRepo) addCondition(routineID uuid.UUID, controlsRoutine bool, logic string, checks ...models.Check) *models.Condition {
	c := &models.Condition{
		ID:              uuid.New(),
		RoutineID:       routineID,
		ControlsRoutine: controlsRoutine,
		Logic:           logic,
	}
	for i := range checks {
		checks[i].ID = uuid.New()
		checks[i].ConditionID = c.ID
	}
	c.Checks = checks
	f.conditions[c.ID] = c
	if controlsRoutine {
		f.controlling[routineID] = append(f.controlling[routineID], *c)
	}
	return c
}

func strPtr(s string) *string        { return &s }
func floatPtr(v float64) *float64    { return &v }
func intPtr(i int) *int              { return &i }
func timePtr(t time.Time) *time.Time { return &t }

// frozen evaluation instant for deterministic tests: Wednesday 09:00
var testNow = time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)

func testCtx() *Context {
	return &Context{CurrentTime: timePtr(testNow)}
}
