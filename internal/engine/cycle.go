package engine

import (
	"github.com/google/uuid"
)

// CycleDetector validates condition writes against the controls graph: the
// directed graph from a routine to the routines targeted by its controlling
// conditions' checks. It runs at write time only; read-time evaluation
// assumes the graph is already acyclic.
type CycleDetector struct {
	repo Repository
}

func NewCycleDetector(repo Repository) *CycleDetector {
	return &CycleDetector{repo: repo}
}

// WouldCreateCycle reports whether adding a check on a condition owned by
// sourceRoutineID that targets targetRoutineID would make sourceRoutineID
// transitively depend on its own visibility. The traversal is an iterative
// DFS with an explicit stack and visited set, so a pathological graph cannot
// blow the call stack. A self-referencing check is trivially a cycle: the
// target itself is visited before expansion.
func (d *CycleDetector) WouldCreateCycle(sourceRoutineID, targetRoutineID uuid.UUID) (bool, error) {
	stack := []uuid.UUID{targetRoutineID}
	visited := make(map[uuid.UUID]bool)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == sourceRoutineID {
			return true, nil
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		conditions, err := d.repo.ControllingConditions(id)
		if err != nil {
			return false, err
		}
		for i := range conditions {
			for j := range conditions[i].Checks {
				target := conditions[i].Checks[j].TargetRoutineID
				if target != nil && !visited[*target] {
					stack = append(stack, *target)
				}
			}
		}
	}
	return false, nil
}
