package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// DamageSystem applies the step's damage events in order. Events for missing,
// dead or invulnerable targets are dropped. A lethal hit stops the victim and
// emits a DeathEvent naming the killer's team, taken from the killer entity
// when it still exists and from the event otherwise.
type DamageSystem struct {
	Events ecs.Singleton[Events]
	Log    *zap.SugaredLogger
}

func (s *DamageSystem) Name() string { return "damage" }

func (s *DamageSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.DamageSystem")
	storage := frame.Storage
	events := s.Events.Get()

	for _, ev := range events.Damage {
		health := ecs.ReadComponent[Health](storage, ev.TargetId)
		if health == nil {
			logger(s.Log).Debugw("damage target missing", "target", ev.TargetId, "frame", step.FrameCount)
			continue
		}
		if inv := ecs.ReadComponent[Invulnerable](storage, ev.TargetId); inv != nil && step.SimNowMs < inv.Until {
			continue
		}
		if !health.Apply(ev.Damage) {
			continue
		}

		if vel := ecs.ReadComponent[Velocity](storage, ev.TargetId); vel != nil {
			vel.Vec3 = vmath.Vec3{}
		}
		if body := ecs.ReadComponent[Body](storage, ev.TargetId); body != nil && body.Handle != nil {
			body.Handle.SetLinvel(vmath.Vec3{})
		}

		death := DeathEvent{EntityId: ev.TargetId, KillerId: ev.SourceId, KillerTeam: ev.SourceTeam}
		if pos := ecs.ReadComponent[Position](storage, ev.TargetId); pos != nil {
			death.Position = pos.Vec3
		}
		if tag := ecs.ReadComponent[TeamTag](storage, ev.TargetId); tag != nil {
			death.Team = tag.Team
		}
		if killer := ecs.ReadComponent[TeamTag](storage, ev.SourceId); killer != nil {
			death.KillerTeam = killer.Team
		}
		events.Death = append(events.Death, death)
		logger(s.Log).Debugw("robot destroyed", "entity", ev.TargetId, "killer", ev.SourceId, "frame", step.FrameCount)
	}
}
