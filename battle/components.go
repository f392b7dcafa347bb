// Package battle is the gameplay layer: components, per-step events and the
// systems that turn AI decisions into shots, hits, deaths and respawns. Every
// system reads time and randomness from the step context only.
package battle

import (
	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/vmath"
)

type Team string

const (
	Red  Team = "red"
	Blue Team = "blue"
)

// Forward is the default facing of a team when no enemy is visible.
func (t Team) Forward() vmath.Vec3 {
	if t == Blue {
		return vmath.V3(-1, 0, 0)
	}
	return vmath.V3(1, 0, 0)
}

func (t Team) Opponent() Team {
	if t == Red {
		return Blue
	}
	return Red
}

// DefaultRadius is used for hittable entities without a Robot component.
const DefaultRadius = 0.6

type Position struct {
	vmath.Vec3
}

type Velocity struct {
	vmath.Vec3
}

type TeamTag struct {
	Team Team
}

// Health keeps Alive == (Current > 0); mutate it through Apply.
type Health struct {
	Current float64
	Max     float64
	Alive   bool
}

func NewHealth(max float64) Health {
	return Health{Current: max, Max: max, Alive: max > 0}
}

// Apply subtracts damage, flooring at zero, and reports whether this call
// killed the entity.
func (h *Health) Apply(damage float64) bool {
	if !h.Alive || damage <= 0 {
		return false
	}
	h.Current = max(0, h.Current-damage)
	h.Alive = h.Current > 0
	return !h.Alive
}

type WeaponType string

const (
	Gun    WeaponType = "gun"
	Laser  WeaponType = "laser"
	Rocket WeaponType = "rocket"
)

type BeamParams struct {
	DurationMs     float64
	TickIntervalMs float64
	TickDamage     float64
	Width          float64
}

type RocketParams struct {
	Speed           float64
	LifespanMs      float64
	HomingTurnSpeed float64
}

// Weapon is mounted on the robot that carries it, so the weapon id in events
// is the carrier's entity id. ClipSize 0 disables the ammo model.
type Weapon struct {
	Type       WeaponType
	OwnerId    ecs.EntityId
	Team       Team
	Range      float64
	Cooldown   float64
	Power      float64
	Accuracy   float64
	Spread     float64
	ClipSize   int
	Clip       int
	AoeRadius  float64
	Beam       BeamParams
	Rocket     RocketParams
	Continuous bool

	LastFiredAt float64
}

// WeaponState is mutated every step by the weapon system.
type WeaponState struct {
	Firing            bool
	Reloading         bool
	CooldownRemaining float64
	ChargeStart       float64
}

type Homing struct {
	TurnSpeed float64
	TargetId  ecs.EntityId
}

type Projectile struct {
	SourceWeaponId ecs.EntityId
	OwnerId        ecs.EntityId
	Damage         float64
	Team           Team
	AoeRadius      float64
	LifespanMs     float64
	SpawnTime      float64
	Speed          float64
	Homing         *Homing
}

type Beam struct {
	SourceWeaponId ecs.EntityId
	OwnerId        ecs.EntityId
	Team           Team
	Origin         vmath.Vec3
	Direction      vmath.Vec3
	Length         float64
	Width          float64
	ActiveUntil    float64
	TickDamage     float64
	TickInterval   float64
	LastTickAt     float64
}

type FxType string

const (
	FxImpact    FxType = "impact"
	FxExplosion FxType = "explosion"
)

// Fx is purely for renderers; no gameplay system reads it.
type Fx struct {
	Type  FxType
	TTL   float64
	Age   float64
	Color string
	Size  float64
}

type AI struct {
	State      ai.State
	StateSince float64
	TargetId   ecs.EntityId
	Machine    *ai.Machine
}

// Robot marks a combatant and keeps what a respawn needs.
type Robot struct {
	Speed   float64
	Radius  float64
	Loadout string
}

type Invulnerable struct {
	Until float64
}

// Body links an entity to its rigid body in the physics engine.
type Body struct {
	Handle physics.RigidBody
}

// Key is a deterministic string id minted by the step's id factory.
type Key struct {
	Value string
}

// RegisterComponents registers every battle component with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[TeamTag](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Weapon](registry)
	ecs.RegisterComponent[WeaponState](registry)
	ecs.RegisterComponent[Projectile](registry)
	ecs.RegisterComponent[Beam](registry)
	ecs.RegisterComponent[Fx](registry)
	ecs.RegisterComponent[AI](registry)
	ecs.RegisterComponent[Robot](registry)
	ecs.RegisterComponent[Invulnerable](registry)
	ecs.RegisterComponent[Body](registry)
	ecs.RegisterComponent[Key](registry)
}
