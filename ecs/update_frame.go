package ecs

import "github.com/plus3/botarena/sim"

// UpdateFrame is handed to every system for one logical step.
type UpdateFrame struct {
	// Step carries the deterministic inputs of this step. Systems must take
	// time and randomness from here only.
	Step      *sim.StepContext
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

// NewUpdateFrame builds a frame outside of a Scheduler, for driving single
// systems directly.
func NewUpdateFrame(step *sim.StepContext, storage *Storage) *UpdateFrame {
	frame := &UpdateFrame{
		Step:     step,
		Commands: newCommands(),
		Storage:  storage,
	}
	if step != nil {
		frame.DeltaTime = step.Step
	}
	return frame
}
