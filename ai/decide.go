// Package ai holds the behaviour rules of a robot. Decide is a pure function:
// it reads a snapshot of the agent and its target and returns what should
// change, leaving every mutation to the caller.
package ai

import (
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
)

type State string

const (
	Idle   State = "idle"
	Patrol State = "patrol"
	Engage State = "engage"
	Flee   State = "flee"
)

const (
	// FleeBelow is the health fraction under which any agent flees.
	FleeBelow = 0.25
	// RecoverAbove is the health fraction over which a fleeing agent calms down.
	RecoverAbove = 0.5
	// PatrolTimeoutMs returns a patrolling agent to idle.
	PatrolTimeoutMs = 3000.0
	// IdleRestMs is the minimum time spent idle before patrolling.
	IdleRestMs = 500.0
	// PatrolChance is the per-step probability of leaving a rested idle.
	PatrolChance = 0.1
)

// Context is the agent's view of itself for one decision.
type Context struct {
	Id          uint64
	Team        string
	Position    vmath.Vec3
	Health      float64
	MaxHealth   float64
	State       State
	NowMs       float64
	WeaponRange float64
	Speed       float64
	// Heading is the unit patrol direction for this step.
	Heading vmath.Vec3
}

// Target is the candidate the perception step picked.
type Target struct {
	Id       uint64
	Team     string
	Position vmath.Vec3
	Alive    bool
}

// Decision lists the changes Decide wants applied. Zero values mean "leave
// as is" except where noted.
type Decision struct {
	// NextState is empty when the state does not change.
	NextState State
	// TargetId is written when SetTarget is true; 0 clears the target.
	TargetId   uint64
	SetTarget  bool
	ShouldFire bool
	// Velocity is nil when the agent's velocity is left alone.
	Velocity *vmath.Vec3
}

func velocity(v vmath.Vec3) *vmath.Vec3 {
	return &v
}

func (d Decision) clearTarget() Decision {
	d.TargetId = 0
	d.SetTarget = true
	return d
}

// Decide applies the behaviour rules. rng must be the step's seeded source;
// it is consulted only when an idle agent considers patrolling.
func Decide(ctx Context, hasTarget, hasLOS bool, target Target, stateSince float64, rng func() float64) Decision {
	ratio := 1.0
	if ctx.MaxHealth > 0 {
		ratio = ctx.Health / ctx.MaxHealth
	}

	if ratio < FleeBelow || ctx.State == Flee {
		return decideFlee(ctx, ratio, hasTarget, target)
	}

	elapsed := ctx.NowMs - stateSince
	canEngage := hasTarget && hasLOS && target.Alive && target.Team != ctx.Team &&
		ctx.Position.Dist(target.Position) <= ctx.WeaponRange

	switch ctx.State {
	case Engage:
		return decideEngage(ctx, hasTarget, hasLOS, target)

	case Patrol:
		if canEngage {
			return engage(target)
		}
		if elapsed >= PatrolTimeoutMs {
			return Decision{NextState: Idle, Velocity: velocity(vmath.Vec3{})}
		}
		return Decision{Velocity: velocity(ctx.Heading.Scale(ctx.Speed))}

	default:
		if canEngage {
			return engage(target)
		}
		if elapsed >= IdleRestMs {
			if rng == nil {
				panic(&sim.DeterminismError{Caller: "ai.Decide", Missing: "seeded rng"})
			}
			if rng() < PatrolChance {
				return Decision{NextState: Patrol, Velocity: velocity(ctx.Heading.Scale(ctx.Speed))}
			}
		}
		return Decision{Velocity: velocity(vmath.Vec3{})}
	}
}

func engage(target Target) Decision {
	return Decision{
		NextState:  Engage,
		TargetId:   target.Id,
		SetTarget:  true,
		ShouldFire: true,
		Velocity:   velocity(vmath.Vec3{}),
	}
}

func decideFlee(ctx Context, ratio float64, hasTarget bool, target Target) Decision {
	if ctx.State == Flee && ratio > RecoverAbove {
		return Decision{NextState: Idle, Velocity: velocity(vmath.Vec3{})}.clearTarget()
	}

	d := Decision{Velocity: velocity(vmath.Vec3{})}.clearTarget()
	if ctx.State != Flee {
		d.NextState = Flee
	}
	if hasTarget && target.Alive {
		away := ctx.Position.Sub(target.Position)
		away.Y = 0
		d.Velocity = velocity(away.Normalize().Scale(ctx.Speed))
	}
	return d
}

func decideEngage(ctx Context, hasTarget, hasLOS bool, target Target) Decision {
	if !hasTarget || !target.Alive || target.Team == ctx.Team {
		return Decision{NextState: Idle, Velocity: velocity(vmath.Vec3{})}.clearTarget()
	}

	dist := ctx.Position.Dist(target.Position)
	if dist > ctx.WeaponRange {
		return Decision{NextState: Idle, Velocity: velocity(vmath.Vec3{})}.clearTarget()
	}
	if !hasLOS {
		return Decision{Velocity: velocity(vmath.Vec3{})}.clearTarget()
	}

	d := Decision{TargetId: target.Id, SetTarget: true, ShouldFire: true, Velocity: velocity(vmath.Vec3{})}
	if dist < ctx.WeaponRange/2 {
		away := ctx.Position.Sub(target.Position)
		away.Y = 0
		d.Velocity = velocity(away.Normalize().Scale(ctx.Speed))
	}
	return d
}
