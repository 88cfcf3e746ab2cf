package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/models"
)

// EvaluateCondition loads a condition with its checks and evaluates it for a
// person. A missing condition is an error; any failure inside a single check
// is absorbed here and reported as a not-met result with a diagnostic reason,
// so a broken condition hides content instead of crashing the caller.
func (e *Evaluator) EvaluateCondition(conditionID, personID uuid.UUID, ctx *Context) (*Result, error) {
	condition, err := e.repo.Condition(conditionID)
	if err != nil {
		return nil, fmt.Errorf("condition %s: %w", conditionID, err)
	}
	return e.evaluateLoaded(condition, personID, ctx), nil
}

func (e *Evaluator) evaluateLoaded(condition *models.Condition, personID uuid.UUID, ctx *Context) *Result {
	result := &Result{
		ConditionID: condition.ID,
		Logic:       condition.Logic,
		Checks:      make([]CheckResult, 0, len(condition.Checks)),
	}

	failed := false
	for i := range condition.Checks {
		check := &condition.Checks[i]
		raw, note, err := e.evaluateCheck(check, personID, ctx)
		cr := CheckResult{
			CheckID:  check.ID,
			Operator: check.Operator,
			Raw:      raw,
			Negate:   check.Negate,
			Final:    raw != check.Negate,
			Reason:   note,
		}
		if err != nil {
			// The check could not be evaluated at all. Keep going so the
			// breakdown stays complete, but the condition cannot be met.
			cr.Raw, cr.Final = false, false
			cr.Reason = err.Error()
			failed = true
			if result.Reason == "" {
				result.Reason = err.Error()
			}
		}
		result.Checks = append(result.Checks, cr)
	}

	if failed {
		result.Met = false
		return result
	}

	result.Met = combine(condition.Logic, result.Checks)
	return result
}

// combine folds per-check final results under the condition's logic mode.
// A condition with zero checks follows the boolean identities: AND of
// nothing is true, OR of nothing is false.
func combine(logic string, checks []CheckResult) bool {
	if logic == models.LogicOr {
		for i := range checks {
			if checks[i].Final {
				return true
			}
		}
		return false
	}
	// AND
	for i := range checks {
		if !checks[i].Final {
			return false
		}
	}
	return true
}
