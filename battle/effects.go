package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
)

const (
	ImpactTTL    = 300.0
	ExplosionTTL = 800.0
)

var teamColors = map[Team]string{
	Red:  "#e5484d",
	Blue: "#3e63dd",
}

// TeamColor is the "#rrggbb" colour renderers use for team.
func TeamColor(team Team) string {
	if c, ok := teamColors[team]; ok {
		return c
	}
	return "#ffffff"
}

// EffectsSystem ages visual effects and spawns new ones for the step's
// impacts and deaths. Effects are spawned through deferred commands, after
// every gameplay system has run.
type EffectsSystem struct {
	Effects ecs.Query[struct {
		ecs.EntityId
		*Fx
	}]
	Events ecs.Singleton[Events]
}

func (s *EffectsSystem) Name() string { return "effects" }

func (s *EffectsSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.EffectsSystem")
	events := s.Events.Get()

	for id, e := range s.Effects.Iter() {
		e.Fx.Age += step.Step * 1000
		if e.Fx.Age >= e.Fx.TTL {
			frame.Commands.Delete(id)
		}
	}

	for _, impact := range events.Impact {
		frame.Commands.Spawn(
			Fx{Type: FxImpact, TTL: ImpactTTL, Color: "#ffd166", Size: 0.4},
			Position{impact.Position},
			Key{Value: step.Ids.Next("fx")},
		)
	}
	for _, death := range events.Death {
		frame.Commands.Spawn(
			Fx{Type: FxExplosion, TTL: ExplosionTTL, Color: teamColors[death.Team], Size: 2},
			Position{death.Position},
			Key{Value: step.Ids.Next("fx")},
		)
	}
}
