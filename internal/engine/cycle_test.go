package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mara/routinely-api/internal/models"
)

// controlsEdge wires routine -> target into the controls graph: a controlling
// condition on routine with a check targeting target.
func controlsEdge(repo *fakeRepo, routine, target uuid.UUID) {
	repo.addCondition(routine, true, models.LogicAnd, models.Check{
		Operator:        models.OpRoutinePercentGT,
		TargetRoutineID: &target,
		Value:           strPtr("50"),
	})
}

func TestSelfReferenceIsACycle(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)

	cycle, err := NewCycleDetector(repo).WouldCreateCycle(a.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestDirectCycle(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	b := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)

	// B already depends on A; adding A -> B closes the loop.
	controlsEdge(repo, b.ID, a.ID)

	cycle, err := NewCycleDetector(repo).WouldCreateCycle(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestTransitiveCycle(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	b := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	c := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)

	// B -> C -> A exists; adding A -> B closes a three-hop loop.
	controlsEdge(repo, b.ID, c.ID)
	controlsEdge(repo, c.ID, a.ID)

	cycle, err := NewCycleDetector(repo).WouldCreateCycle(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestAcyclicEdgeIsAllowed(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	b := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	c := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)

	controlsEdge(repo, b.ID, c.ID)

	cycle, err := NewCycleDetector(repo).WouldCreateCycle(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, cycle)
}

func TestNonControllingConditionsAreNotEdges(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	b := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)

	// A task-level condition on B targeting A does not gate B's visibility,
	// so it is not part of the controls graph.
	repo.addCondition(b.ID, false, models.LogicAnd, models.Check{
		Operator:        models.OpRoutinePercentGT,
		TargetRoutineID: &a.ID,
		Value:           strPtr("50"),
	})

	cycle, err := NewCycleDetector(repo).WouldCreateCycle(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, cycle)
}

func TestDiamondGraphTerminates(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	b := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	c := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)
	d := repo.addRoutine(models.RoutineSmart, models.PeriodDaily)

	// b -> c, b -> d, c -> d: shared sink, no cycle.
	controlsEdge(repo, b.ID, c.ID)
	controlsEdge(repo, b.ID, d.ID)
	controlsEdge(repo, c.ID, d.ID)

	cycle, err := NewCycleDetector(repo).WouldCreateCycle(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, cycle)
}
