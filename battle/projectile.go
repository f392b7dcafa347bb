package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// ProjectileRadius is the collision radius of a rocket.
const ProjectileRadius = 0.25

// ProjectileSystem owns rockets: it spawns one per rocket shot, steers homing
// rockets, moves them, and explodes them on contact. Collisions are asked of
// the physics backend first and fall back to a proximity test against the
// living hittables. Rockets past their lifespan or outside the arena are
// removed without exploding.
type ProjectileSystem struct {
	Projectiles ecs.Query[struct {
		ecs.EntityId
		*Projectile
		*Position
		*Velocity
		Body *Body `ecs:"optional"`
	}]
	Targets ecs.Query[hittable]
	Events  ecs.Singleton[Events]
	Rules   ecs.Singleton[Rules]

	Physics physics.Queries
	Log     *zap.SugaredLogger
}

func (s *ProjectileSystem) Name() string { return "projectile" }

func (s *ProjectileSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.ProjectileSystem")
	storage := frame.Storage
	events := s.Events.Get()
	rules := s.Rules.Get()
	all := living(&s.Targets)
	now := step.SimNowMs

	for id, p := range s.Projectiles.Iter() {
		proj := p.Projectile
		if now-proj.SpawnTime >= proj.LifespanMs {
			storage.Delete(id)
			continue
		}

		if proj.Homing != nil {
			s.steer(step, id, proj, p.Position.Vec3, &p.Velocity.Vec3, all)
		}

		if p.Body != nil && p.Body.Handle != nil {
			p.Body.Handle.SetLinvel(p.Velocity.Vec3)
			p.Position.Vec3 = p.Body.Handle.Translation()
		} else {
			p.Position.Vec3 = p.Position.Add(p.Velocity.Scale(step.Step))
		}

		if rules != nil && !rules.InArena(p.Position.Vec3) {
			storage.Delete(id)
			continue
		}

		target, ok := s.collide(proj, p.Position.Vec3, all, step.FriendlyFire)
		if !ok {
			continue
		}
		s.explode(events, proj, p.Position.Vec3, p.Velocity.Vec3, target, all, step.FriendlyFire)
		storage.Delete(id)
	}

	for _, fired := range events.WeaponFired {
		if fired.Type != Rocket {
			continue
		}
		weapon := ecs.ReadComponent[Weapon](storage, fired.WeaponId)
		if weapon == nil {
			logger(s.Log).Debugw("rocket weapon missing", "weapon", fired.WeaponId, "frame", step.FrameCount)
			continue
		}
		proj := Projectile{
			SourceWeaponId: fired.WeaponId,
			OwnerId:        fired.OwnerId,
			Damage:         weapon.Power,
			Team:           weapon.Team,
			AoeRadius:      weapon.AoeRadius,
			LifespanMs:     weapon.Rocket.LifespanMs,
			SpawnTime:      now,
			Speed:          weapon.Rocket.Speed,
		}
		if weapon.Rocket.HomingTurnSpeed > 0 {
			proj.Homing = &Homing{TurnSpeed: weapon.Rocket.HomingTurnSpeed}
		}
		storage.Spawn(
			proj,
			Position{fired.Origin},
			Velocity{fired.Direction.Normalize().Scale(weapon.Rocket.Speed)},
			Key{Value: sim.RequireIds(step, "battle.ProjectileSystem").Next("rocket")},
		)
	}
}

// steer keeps a homing target and turns the velocity towards it by at most
// TurnSpeed*dt of the way, preserving speed.
func (s *ProjectileSystem) steer(step *sim.StepContext, id ecs.EntityId, proj *Projectile, pos vmath.Vec3, vel *vmath.Vec3, all []combatant) {
	target, ok := findCombatant(all, proj.Homing.TargetId)
	if !ok || target.team == proj.Team {
		candidates := make([]combatant, 0, len(all))
		for _, c := range all {
			if c.team != proj.Team {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			proj.Homing.TargetId = 0
			return
		}
		rng := streamFor(step, homingStream, id, "battle.ProjectileSystem")
		target = candidates[rng.Intn(len(candidates))]
		proj.Homing.TargetId = target.id
	}

	desired := target.pos.Sub(pos).Normalize().Scale(proj.Speed)
	if desired.IsZero() {
		return
	}
	t := min(max(proj.Homing.TurnSpeed*step.Step, 0), 1)
	turned := vel.Lerp(desired, t)
	if turned.IsZero() {
		turned = desired
	}
	*vel = turned.Normalize().Scale(proj.Speed)
}

func (s *ProjectileSystem) collide(proj *Projectile, pos vmath.Vec3, all []combatant, friendlyFire bool) (combatant, bool) {
	harmable := func(c combatant) bool {
		return c.id != proj.OwnerId && canHarm(proj.Team, c.team, friendlyFire)
	}

	if s.Physics != nil && s.Physics.Available() {
		for _, entity := range s.Physics.OverlapSphereEntities(pos, ProjectileRadius) {
			if c, ok := findCombatant(all, ecs.EntityId(entity)); ok && harmable(c) {
				return c, true
			}
		}
	}

	var best combatant
	bestDist := -1.0
	for _, c := range all {
		if !harmable(c) {
			continue
		}
		reach := c.radius + ProjectileRadius
		d := c.pos.Sub(pos).LenSq()
		if d > reach*reach {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

// explode applies a direct hit, or linear falloff damage to everything
// harmable within AoeRadius when the rocket has one.
func (s *ProjectileSystem) explode(events *Events, proj *Projectile, at, vel vmath.Vec3, hit combatant, all []combatant, friendlyFire bool) {
	normal := vel.Normalize().Scale(-1)
	events.Impact = append(events.Impact, ImpactEvent{Position: at, Normal: normal, TargetId: hit.id})

	if proj.AoeRadius <= 0 {
		events.Damage = append(events.Damage, s.damage(proj, hit.id, at, proj.Damage))
		return
	}
	for _, c := range all {
		if !canHarm(proj.Team, c.team, friendlyFire) {
			continue
		}
		if dmg := Falloff(proj.Damage, c.pos.Dist(at), proj.AoeRadius); dmg > 0 {
			events.Damage = append(events.Damage, s.damage(proj, c.id, at, dmg))
		}
	}
}

func (s *ProjectileSystem) damage(proj *Projectile, target ecs.EntityId, at vmath.Vec3, amount float64) DamageEvent {
	return DamageEvent{
		SourceId:    proj.OwnerId,
		SourceTeam:  proj.Team,
		WeaponId:    proj.SourceWeaponId,
		TargetId:    target,
		Position:    at,
		HasPosition: true,
		Damage:      amount,
	}
}

// Falloff is the explosion damage at distance from the centre: full power at
// the centre, zero at and beyond radius.
func Falloff(power, distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	return power * (1 - distance/radius)
}
