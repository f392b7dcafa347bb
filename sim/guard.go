package sim

import "fmt"

// DeterminismError reports a system invoked without one of its deterministic
// inputs. It is raised with panic: falling back to wall-clock time or an
// unseeded source would silently break replayability, so the step must stop.
type DeterminismError struct {
	Caller  string
	Missing string
}

func (e *DeterminismError) Error() string {
	return fmt.Sprintf("sim: %s called without %s", e.Caller, e.Missing)
}

// Require panics with a *DeterminismError unless step and all of its
// generators are present. It returns step for chaining.
func Require(step *StepContext, caller string) *StepContext {
	if step == nil {
		panic(&DeterminismError{Caller: caller, Missing: "StepContext"})
	}
	RequireRNG(step, caller)
	RequireIds(step, caller)
	return step
}

// RequireRNG panics unless step carries a seeded RNG.
func RequireRNG(step *StepContext, caller string) *RNG {
	if step == nil {
		panic(&DeterminismError{Caller: caller, Missing: "StepContext"})
	}
	if step.RNG == nil {
		panic(&DeterminismError{Caller: caller, Missing: "seeded rng"})
	}
	return step.RNG
}

// RequireIds panics unless step carries an id factory.
func RequireIds(step *StepContext, caller string) *IdFactory {
	if step == nil {
		panic(&DeterminismError{Caller: caller, Missing: "StepContext"})
	}
	if step.Ids == nil {
		panic(&DeterminismError{Caller: caller, Missing: "id factory"})
	}
	return step.Ids
}
