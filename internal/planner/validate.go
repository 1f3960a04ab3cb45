package planner

import (
	"fmt"
	"strings"
)

// ValidatePlan checks plan structure. A plan that declines tools is valid
// regardless of its steps.
func ValidatePlan(plan *StepPlan, maxSteps int) Validation {
	if plan == nil || plan.NeedsTools == nil {
		return Validation{Reason: "missing needs_tools field"}
	}
	if !*plan.NeedsTools {
		return Validation{Valid: true}
	}
	if len(plan.Steps) == 0 {
		return Validation{Reason: "needs_tools=true but no steps"}
	}
	if len(plan.Steps) > maxSteps {
		return Validation{Reason: fmt.Sprintf("too many steps: %d > %d", len(plan.Steps), maxSteps)}
	}
	for i, step := range plan.Steps {
		if strings.TrimSpace(step.Description) == "" {
			return Validation{Reason: fmt.Sprintf("step %d has empty description", step.StepNumber)}
		}
		if i > 0 && step.StepNumber <= plan.Steps[i-1].StepNumber {
			return Validation{Reason: fmt.Sprintf("step numbers must be strictly increasing: %d after %d", step.StepNumber, plan.Steps[i-1].StepNumber)}
		}
	}
	return Validation{Valid: true}
}
