package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/sim"
)

// PhysicsStepSystem integrates the sphere world by one fixed step. It runs
// last so bodies move with the velocities handed over by PhysicsSyncSystem.
type PhysicsStepSystem struct {
	World *physics.SphereWorld
}

func (s *PhysicsStepSystem) Name() string { return "physics-step" }

func (s *PhysicsStepSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.PhysicsStepSystem")
	if s.World != nil {
		s.World.Step(step.Step)
	}
}
