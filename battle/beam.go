package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// tickEpsilon keeps tick boundaries stable under float millisecond clocks.
const tickEpsilon = 1e-6

// BeamSystem owns beam entities. A laser shot spawns a beam, or refreshes the
// weapon's existing beam when the weapon is continuous. Each step a live beam
// is re-anchored on its weapon and, once per tick interval, damages every
// living, team-filtered entity within its width. Beams expire at ActiveUntil
// and vanish as soon as their weapon is gone.
type BeamSystem struct {
	Beams ecs.Query[struct {
		ecs.EntityId
		*Beam
		*Position
	}]
	Targets ecs.Query[hittable]
	Events  ecs.Singleton[Events]
	Log     *zap.SugaredLogger
}

func (s *BeamSystem) Name() string { return "beam" }

func (s *BeamSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.BeamSystem")
	storage := frame.Storage
	events := s.Events.Get()
	now := step.SimNowMs

	byWeapon := make(map[ecs.EntityId]*Beam)
	for id, b := range s.Beams.Iter() {
		if beamDone(storage, b.Beam, now) {
			frame.Commands.Delete(id)
			continue
		}
		byWeapon[b.Beam.SourceWeaponId] = b.Beam
	}

	for _, fired := range events.WeaponFired {
		if fired.Type != Laser {
			continue
		}
		weapon := ecs.ReadComponent[Weapon](storage, fired.WeaponId)
		if weapon == nil {
			logger(s.Log).Debugw("beam weapon missing", "weapon", fired.WeaponId, "frame", step.FrameCount)
			continue
		}
		if existing, ok := byWeapon[fired.WeaponId]; ok && weapon.Continuous {
			existing.ActiveUntil = now + weapon.Beam.DurationMs
			existing.Direction = fired.Direction
			continue
		}
		storage.Spawn(
			Beam{
				SourceWeaponId: fired.WeaponId,
				OwnerId:        fired.OwnerId,
				Team:           weapon.Team,
				Origin:         fired.Origin,
				Direction:      fired.Direction,
				Length:         weapon.Range,
				Width:          weapon.Beam.Width,
				ActiveUntil:    now + weapon.Beam.DurationMs,
				TickDamage:     weapon.Beam.TickDamage,
				TickInterval:   weapon.Beam.TickIntervalMs,
				LastTickAt:     now,
			},
			Position{fired.Origin},
			Key{Value: sim.RequireIds(step, "battle.BeamSystem").Next("beam")},
		)
	}

	var all []combatant
	for _, b := range s.Beams.Iter() {
		beam := b.Beam
		if beamDone(storage, beam, now) {
			continue
		}
		if owner := ecs.ReadComponent[Position](storage, beam.SourceWeaponId); owner != nil {
			beam.Origin = owner.Vec3
			b.Position.Vec3 = owner.Vec3
		}
		if now-beam.LastTickAt < beam.TickInterval-tickEpsilon {
			continue
		}
		beam.LastTickAt = now
		if all == nil {
			all = living(&s.Targets)
		}
		s.tick(events, beam, all, step.FriendlyFire)
	}
}

// beamDone reports whether a beam has run out or lost its weapon.
func beamDone(storage *ecs.Storage, beam *Beam, now float64) bool {
	return now >= beam.ActiveUntil || !storage.Exists(beam.SourceWeaponId)
}

func (s *BeamSystem) tick(events *Events, beam *Beam, all []combatant, friendlyFire bool) {
	dir := beam.Direction.Normalize()
	for _, c := range all {
		if c.id == beam.OwnerId || !canHarm(beam.Team, c.team, friendlyFire) {
			continue
		}
		t, distSq := vmath.ClosestOnSegment(beam.Origin, dir, beam.Length, c.pos)
		reach := beam.Width + c.radius
		if distSq > reach*reach {
			continue
		}
		point := beam.Origin.Add(dir.Scale(t))
		events.Damage = append(events.Damage, DamageEvent{
			SourceId:    beam.OwnerId,
			SourceTeam:  beam.Team,
			WeaponId:    beam.SourceWeaponId,
			TargetId:    c.id,
			Position:    point,
			HasPosition: true,
			Damage:      beam.TickDamage,
		})
		events.Impact = append(events.Impact, ImpactEvent{Position: point, Normal: dir.Scale(-1), TargetId: c.id})
	}
}
