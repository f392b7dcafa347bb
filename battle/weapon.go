package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
)

// cooldownEpsilon absorbs the rounding left after subtracting fixed steps.
const cooldownEpsilon = 1e-9

// WeaponSystem ticks cooldowns and reloads and emits a WeaponFiredEvent for
// every weapon that is firing, off cooldown and loaded. Shots are aimed at the
// nearest living enemy; resolving them is left to the hitscan, beam and
// projectile systems.
type WeaponSystem struct {
	Weapons ecs.Query[struct {
		ecs.EntityId
		*Position
		*TeamTag
		*Health
		*Weapon
		*WeaponState
	}]
	Targets ecs.Query[hittable]
	Events  ecs.Singleton[Events]
}

func (s *WeaponSystem) Name() string { return "weapon" }

func (s *WeaponSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.WeaponSystem")
	events := s.Events.Get()
	all := living(&s.Targets)

	for id, w := range s.Weapons.Iter() {
		if !w.Health.Alive {
			continue
		}
		ws := w.WeaponState

		ws.CooldownRemaining = max(0, ws.CooldownRemaining-step.Step)
		if ws.CooldownRemaining < cooldownEpsilon {
			ws.CooldownRemaining = 0
		}
		if ws.Reloading {
			w.Weapon.Clip = w.Weapon.ClipSize
			ws.Reloading = false
		}

		loaded := w.Weapon.ClipSize == 0 || w.Weapon.Clip > 0
		if !ws.Firing || ws.CooldownRemaining > 0 || !loaded {
			continue
		}

		origin := w.Position.Vec3
		dir := w.TeamTag.Team.Forward()
		if enemy, ok := nearestEnemy(all, id, w.TeamTag.Team, origin); ok {
			if d := enemy.pos.Sub(origin); !d.IsZero() {
				dir = d.Normalize()
			}
		}

		events.WeaponFired = append(events.WeaponFired, WeaponFiredEvent{
			WeaponId:  id,
			OwnerId:   w.Weapon.OwnerId,
			Type:      w.Weapon.Type,
			Origin:    origin,
			Direction: dir,
			Timestamp: step.SimNowMs,
		})

		ws.CooldownRemaining = w.Weapon.Cooldown
		w.Weapon.LastFiredAt = step.SimNowMs
		if w.Weapon.ClipSize > 0 {
			w.Weapon.Clip--
			if w.Weapon.Clip == 0 {
				ws.Reloading = true
			}
		}
		if !w.Weapon.Continuous {
			ws.Firing = false
		}
	}
}
