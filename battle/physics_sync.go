package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
)

type teleporter interface {
	SetTranslation(vmath.Vec3)
}

// PhysicsSyncSystem moves robots. A robot with a rigid body hands its velocity
// to the body and takes its position from it; any other robot is integrated
// kinematically. Robots are kept inside the arena. Every moved entity is
// announced to change listeners once the step's structural changes are in.
type PhysicsSyncSystem struct {
	Robots ecs.Query[struct {
		ecs.EntityId
		*Position
		*Velocity
		*Robot
		Body *Body `ecs:"optional"`
	}]
	Projectiles ecs.Query[struct {
		ecs.EntityId
		*Projectile
	}]
	Rules ecs.Singleton[Rules]
}

func (s *PhysicsSyncSystem) Name() string { return "physics-sync" }

func (s *PhysicsSyncSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.PhysicsSyncSystem")
	storage := frame.Storage
	rules := s.Rules.Get()
	var moved []ecs.EntityId

	for id, r := range s.Robots.Iter() {
		if r.Body != nil && r.Body.Handle != nil {
			r.Body.Handle.SetLinvel(r.Velocity.Vec3)
			r.Position.Vec3 = r.Body.Handle.Translation()
			if rules != nil && !rules.InArena(r.Position.Vec3) {
				r.Position.Vec3 = rules.ClampToArena(r.Position.Vec3)
				if t, ok := r.Body.Handle.(teleporter); ok {
					t.SetTranslation(r.Position.Vec3)
				}
			}
		} else if !r.Velocity.IsZero() {
			next := r.Position.Add(r.Velocity.Scale(step.Step))
			if rules != nil {
				next = rules.ClampToArena(next)
			}
			r.Position.Vec3 = next
		}
		moved = append(moved, id)
	}

	for id := range s.Projectiles.Iter() {
		moved = append(moved, id)
	}

	frame.Commands.Defer(func() {
		for _, id := range moved {
			if storage.Exists(id) {
				storage.Notify(id)
			}
		}
	})
}
