package battle

import (
	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/vmath"
)

// RobotSpec describes a robot to spawn. A nil Weapon spawns it unarmed.
type RobotSpec struct {
	Team      Team
	Position  vmath.Vec3
	Loadout   string
	Weapon    *Weapon
	MaxHealth float64
	Speed     float64
	Radius    float64
	// NowMs stamps the initial AI state.
	NowMs             float64
	InvulnerableUntil float64
	Key               string
}

// SpawnRobot creates a robot and mounts its weapon with the robot as owner.
func SpawnRobot(storage *ecs.Storage, spec RobotSpec) ecs.EntityId {
	id := storage.Spawn(spec.components()...)
	mountWeapon(storage, id)
	return id
}

func (spec RobotSpec) components() []any {
	radius := spec.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}

	components := []any{
		Position{spec.Position},
		Velocity{},
		TeamTag{Team: spec.Team},
		NewHealth(spec.MaxHealth),
		AI{State: ai.Idle, StateSince: spec.NowMs, Machine: ai.NewMachine(ai.Idle)},
		Robot{Speed: spec.Speed, Radius: radius, Loadout: spec.Loadout},
	}
	if spec.Weapon != nil {
		w := *spec.Weapon
		w.Team = spec.Team
		w.Clip = w.ClipSize
		components = append(components, w, WeaponState{})
	}
	if spec.InvulnerableUntil > 0 {
		components = append(components, Invulnerable{Until: spec.InvulnerableUntil})
	}
	if spec.Key != "" {
		components = append(components, Key{Value: spec.Key})
	}

	return components
}

// mountWeapon makes a freshly spawned robot the owner of its weapon.
func mountWeapon(storage *ecs.Storage, id ecs.EntityId) {
	if w := ecs.ReadComponent[Weapon](storage, id); w != nil {
		w.OwnerId = id
	}
}

// SpawnTeam lays out count robots of team in a line along Z centred on the
// team's spawn point, assigning loadouts round-robin.
func SpawnTeam(storage *ecs.Storage, rules *Rules, team Team, count int, nowMs float64) []ecs.EntityId {
	tr := rules.Teams[team]
	ids := make([]ecs.EntityId, 0, count)
	for i := range count {
		offset := (float64(i) - float64(count-1)/2) * tr.Spacing
		at := tr.Spawn.Add(vmath.V3(0, 0, offset))
		spec := rules.RobotSpec(team, rules.Loadout(team, i), at)
		spec.NowMs = nowMs
		ids = append(ids, SpawnRobot(storage, spec))
	}
	return ids
}
