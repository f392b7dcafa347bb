package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// HitscanSystem resolves gun shots instantly: the aim is perturbed by a yaw
// drawn from the weapon's own stream, then the closest living, team-filtered
// entity within range along the ray is hit. The ray is asked of the physics
// backend when it can list intersections, and tested against the living
// hittables' spheres otherwise.
type HitscanSystem struct {
	Targets ecs.Query[hittable]
	Events  ecs.Singleton[Events]

	Physics physics.Queries
	Log     *zap.SugaredLogger
}

func (s *HitscanSystem) Name() string { return "hitscan" }

// Yaw is the angular error applied to a shot for a uniform draw u in [0, 1).
func Yaw(u, spread, accuracy float64) float64 {
	return (2*u - 1) * spread * (1 - accuracy)
}

func (s *HitscanSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.HitscanSystem")
	events := s.Events.Get()
	var all []combatant

	for _, fired := range events.WeaponFired {
		if fired.Type != Gun {
			continue
		}
		weapon := ecs.ReadComponent[Weapon](frame.Storage, fired.WeaponId)
		if weapon == nil {
			logger(s.Log).Debugw("hitscan weapon missing", "weapon", fired.WeaponId, "frame", step.FrameCount)
			continue
		}
		if all == nil {
			all = living(&s.Targets)
		}

		u := streamFor(step, spreadStream, fired.WeaponId, "battle.HitscanSystem").Float64()
		dir := fired.Direction.RotateY(Yaw(u, weapon.Spread, weapon.Accuracy)).Normalize()

		target, toi, ok := s.trace(all, fired.Origin, dir, weapon.Range, fired.OwnerId, weapon.Team, step.FriendlyFire)
		if !ok {
			continue
		}

		point := fired.Origin.Add(dir.Scale(toi))
		normal := point.Sub(target.pos).Normalize()
		if normal.IsZero() {
			normal = dir.Scale(-1)
		}
		events.Damage = append(events.Damage, DamageEvent{
			SourceId:    fired.OwnerId,
			SourceTeam:  weapon.Team,
			WeaponId:    fired.WeaponId,
			TargetId:    target.id,
			Position:    point,
			HasPosition: true,
			Damage:      weapon.Power,
		})
		events.Impact = append(events.Impact, ImpactEvent{Position: point, Normal: normal, TargetId: target.id})
	}
}

// trace resolves one shot through the physics backend, falling back to
// firstAlongRay when the backend cannot list intersections.
func (s *HitscanSystem) trace(all []combatant, origin, dir vmath.Vec3, maxDist float64, owner ecs.EntityId, team Team, friendlyFire bool) (combatant, float64, bool) {
	if s.Physics == nil || !s.Physics.Available() {
		return firstAlongRay(all, origin, dir, maxDist, owner, team, friendlyFire)
	}
	hits := s.Physics.IntersectionsWithRay(origin, dir, maxDist, nil)
	if hits == nil {
		return firstAlongRay(all, origin, dir, maxDist, owner, team, friendlyFire)
	}
	for _, h := range hits {
		c, ok := findCombatant(all, ecs.EntityId(h.Entity))
		if !ok || c.id == owner || !canHarm(team, c.team, friendlyFire) {
			continue
		}
		toi := h.Toi
		if !h.HasToi {
			toi = c.pos.Sub(origin).Len()
		}
		return c, toi, true
	}
	return combatant{}, 0, false
}

// firstAlongRay returns the combatant whose sphere the ray enters first within
// maxDist. Ties go to the lower id.
func firstAlongRay(all []combatant, origin, dir vmath.Vec3, maxDist float64, owner ecs.EntityId, team Team, friendlyFire bool) (combatant, float64, bool) {
	var best combatant
	bestToi := -1.0
	for _, c := range all {
		if c.id == owner || !canHarm(team, c.team, friendlyFire) {
			continue
		}
		toi, ok := vmath.RaySphere(origin, dir, c.pos, c.radius)
		if !ok || toi > maxDist {
			continue
		}
		if bestToi < 0 || toi < bestToi {
			best, bestToi = c, toi
		}
	}
	return best, bestToi, bestToi >= 0
}
