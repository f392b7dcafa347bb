package battle

import (
	"context"

	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// AISystem runs perception and Decide for every living robot, then applies
// the decision: state change through the robot's machine, target, fire intent
// and velocity. The machine owns the state; a State written from outside must
// be a legal edge from the machine's state or it is reverted.
type AISystem struct {
	Agents ecs.Query[struct {
		ecs.EntityId
		*Position
		*Velocity
		*TeamTag
		*Health
		*AI
		*Robot
		Weapon      *Weapon      `ecs:"optional"`
		WeaponState *WeaponState `ecs:"optional"`
	}]
	Targets ecs.Query[hittable]

	Physics physics.Queries
	Wander  *ai.Wander
	Log     *zap.SugaredLogger
}

func (s *AISystem) Name() string { return "ai" }

func (s *AISystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.AISystem")
	all := living(&s.Targets)

	occluders := make([]ai.Occluder, len(all))
	for i, c := range all {
		occluders[i] = ai.Occluder{Id: uint64(c.id), Position: c.pos}
	}

	for id, a := range s.Agents.Iter() {
		if !a.Health.Alive {
			continue
		}
		if a.AI.Machine == nil {
			a.AI.Machine = ai.NewMachine(a.AI.State)
		}
		s.reconcile(id, a.AI, step)

		self := a.Position.Vec3
		target, hasTarget := findCombatant(all, a.AI.TargetId)
		if !hasTarget || target.team == a.TeamTag.Team {
			target, hasTarget = nearestEnemy(all, id, a.TeamTag.Team, self)
		}

		hasLOS := false
		if hasTarget {
			hasLOS = ai.LineOfSight(s.Physics, self, target.pos, uint64(id), uint64(target.id), a.Robot.Radius, occluders)
		}

		weaponRange := 0.0
		if a.Weapon != nil {
			weaponRange = a.Weapon.Range
		}

		rng := streamFor(step, aiStream, id, "battle.AISystem")
		d := ai.Decide(ai.Context{
			Id:          uint64(id),
			Team:        string(a.TeamTag.Team),
			Position:    self,
			Health:      a.Health.Current,
			MaxHealth:   a.Health.Max,
			State:       a.AI.State,
			NowMs:       step.SimNowMs,
			WeaponRange: weaponRange,
			Speed:       a.Robot.Speed,
			Heading:     s.heading(id, step.SimNowMs),
		}, hasTarget, hasLOS, ai.Target{
			Id:       uint64(target.id),
			Team:     string(target.team),
			Position: target.pos,
			Alive:    hasTarget,
		}, a.AI.StateSince, rng.Float64)

		if d.NextState != "" && d.NextState != a.AI.State {
			if err := a.AI.Machine.Transition(context.Background(), d.NextState); err != nil {
				logger(s.Log).Debugw("ai transition rejected", "entity", id, "frame", step.FrameCount, "error", err)
			} else {
				a.AI.State = d.NextState
				a.AI.StateSince = step.SimNowMs
			}
		}
		if d.SetTarget {
			a.AI.TargetId = ecs.EntityId(d.TargetId)
		}
		if a.WeaponState != nil {
			a.WeaponState.Firing = d.ShouldFire
		}
		if d.Velocity != nil {
			a.Velocity.Vec3 = *d.Velocity
		}
	}
}

// reconcile brings an out-of-band State edit through the machine.
func (s *AISystem) reconcile(id ecs.EntityId, agent *AI, step *sim.StepContext) {
	current := agent.Machine.Current()
	if agent.State == current {
		return
	}
	if err := agent.Machine.Transition(context.Background(), agent.State); err != nil {
		logger(s.Log).Warnw("ai state edit rejected", "entity", id, "frame", step.FrameCount, "state", agent.State, "error", err)
		agent.State = current
		return
	}
	agent.StateSince = step.SimNowMs
}

func (s *AISystem) heading(id ecs.EntityId, nowMs float64) vmath.Vec3 {
	if s.Wander == nil {
		return vmath.Vec3{}
	}
	return s.Wander.Heading(uint64(id), nowMs)
}
