package battle

import (
	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/vmath"
)

type RobotDefaults struct {
	MaxHealth float64
	Speed     float64
	Radius    float64
}

type TeamRules struct {
	Count    int
	Spawn    vmath.Vec3
	Spacing  float64
	Loadouts []string
}

// Rules is the immutable tuning of a battle, stored as a singleton so systems
// never reach back into the configuration.
type Rules struct {
	ArenaMin          vmath.Vec3
	ArenaMax          vmath.Vec3
	MaxSpawnsPerStep  int
	RespawnDelayMs    float64
	InvulnerabilityMs float64
	Robot             RobotDefaults
	Teams             map[Team]TeamRules
	Weapons           map[string]Weapon
}

func vec(v config.Vec) vmath.Vec3 {
	return vmath.V3(v[0], v[1], v[2])
}

// WeaponFromConfig converts a tuning table into a weapon template. The owner
// and team are filled in when the weapon is mounted.
func WeaponFromConfig(w config.Weapon) Weapon {
	return Weapon{
		Type:       WeaponType(w.Type),
		Range:      w.Range,
		Cooldown:   w.Cooldown,
		Power:      w.Power,
		Accuracy:   w.Accuracy,
		Spread:     w.Spread,
		ClipSize:   w.ClipSize,
		Clip:       w.ClipSize,
		AoeRadius:  w.AoeRadius,
		Continuous: w.Continuous,
		Beam: BeamParams{
			DurationMs:     w.BeamDurationMs,
			TickIntervalMs: w.BeamTickIntervalMs,
			TickDamage:     w.BeamTickDamage,
			Width:          w.BeamWidth,
		},
		Rocket: RocketParams{
			Speed:           w.RocketSpeed,
			LifespanMs:      w.RocketLifespanMs,
			HomingTurnSpeed: w.HomingTurnSpeed,
		},
	}
}

func RulesFromConfig(cfg config.Battle) Rules {
	r := Rules{
		ArenaMin:          vec(cfg.Arena.Min),
		ArenaMax:          vec(cfg.Arena.Max),
		MaxSpawnsPerStep:  cfg.MaxSpawnsPerStep,
		RespawnDelayMs:    cfg.RespawnDelayMs,
		InvulnerabilityMs: cfg.InvulnerabilityMs,
		Robot: RobotDefaults{
			MaxHealth: cfg.Robot.MaxHealth,
			Speed:     cfg.Robot.Speed,
			Radius:    cfg.Robot.Radius,
		},
		Teams: map[Team]TeamRules{
			Red:  teamRules(cfg.Teams.Red),
			Blue: teamRules(cfg.Teams.Blue),
		},
		Weapons: make(map[string]Weapon, len(cfg.Weapons)),
	}
	for name, w := range cfg.Weapons {
		r.Weapons[name] = WeaponFromConfig(w)
	}
	return r
}

func teamRules(t config.Team) TeamRules {
	return TeamRules{
		Count:    t.Count,
		Spawn:    vec(t.Spawn),
		Spacing:  t.Spacing,
		Loadouts: append([]string(nil), t.Loadouts...),
	}
}

// Loadout picks the i-th loadout of team, round-robin. It returns "" when the
// team has none.
func (r *Rules) Loadout(team Team, i int) string {
	loadouts := r.Teams[team].Loadouts
	if len(loadouts) == 0 {
		return ""
	}
	return loadouts[i%len(loadouts)]
}

// RobotSpec builds the spawn description of a robot of team carrying the
// named loadout. An unknown loadout yields an unarmed robot.
func (r *Rules) RobotSpec(team Team, loadout string, at vmath.Vec3) RobotSpec {
	spec := RobotSpec{
		Team:      team,
		Position:  at,
		Loadout:   loadout,
		MaxHealth: r.Robot.MaxHealth,
		Speed:     r.Robot.Speed,
		Radius:    r.Robot.Radius,
	}
	if w, ok := r.Weapons[loadout]; ok {
		spec.Weapon = &w
	}
	return spec
}

// InArena reports whether p lies inside the arena bounds.
func (r *Rules) InArena(p vmath.Vec3) bool {
	return p.Within(r.ArenaMin, r.ArenaMax)
}

// ClampToArena moves p onto the nearest point inside the arena.
func (r *Rules) ClampToArena(p vmath.Vec3) vmath.Vec3 {
	return vmath.V3(
		min(max(p.X, r.ArenaMin.X), r.ArenaMax.X),
		min(max(p.Y, r.ArenaMin.Y), r.ArenaMax.Y),
		min(max(p.Z, r.ArenaMin.Z), r.ArenaMax.Z),
	)
}
