package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// Stream keys separate the per-entity random streams derived from a step RNG.
const (
	aiStream uint64 = 0xa1 + iota
	spreadStream
	homingStream
	respawnStream
)

func streamFor(step *sim.StepContext, stream uint64, id ecs.EntityId, caller string) *sim.RNG {
	return sim.RequireRNG(step, caller).Derive(sim.Mix(stream, uint64(id)))
}

// hittable is the view of anything that can take damage.
type hittable struct {
	ecs.EntityId
	*Position
	*TeamTag
	*Health
	Robot *Robot `ecs:"optional"`
}

func (h hittable) radius() float64 {
	if h.Robot != nil && h.Robot.Radius > 0 {
		return h.Robot.Radius
	}
	return DefaultRadius
}

type combatant struct {
	id     ecs.EntityId
	pos    vmath.Vec3
	team   Team
	radius float64
}

// living snapshots the living hittables of q in ascending id order.
func living(q *ecs.Query[hittable]) []combatant {
	out := make([]combatant, 0, q.Len())
	for id, h := range q.Iter() {
		if !h.Health.Alive {
			continue
		}
		out = append(out, combatant{id: id, pos: h.Position.Vec3, team: h.TeamTag.Team, radius: h.radius()})
	}
	return out
}

// canHarm applies the team filter shared by every damage source.
func canHarm(source, target Team, friendlyFire bool) bool {
	return friendlyFire || source != target
}

// nearestEnemy returns the closest living combatant not on team. Ties go to
// the lower id.
func nearestEnemy(all []combatant, self ecs.EntityId, team Team, from vmath.Vec3) (combatant, bool) {
	var best combatant
	bestDist := -1.0
	for _, c := range all {
		if c.id == self || c.team == team {
			continue
		}
		d := c.pos.Sub(from).LenSq()
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func findCombatant(all []combatant, id ecs.EntityId) (combatant, bool) {
	for _, c := range all {
		if c.id == id {
			return c, true
		}
	}
	return combatant{}, false
}

var nopLogger = zap.NewNop().Sugar()

func logger(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return nopLogger
	}
	return log
}
