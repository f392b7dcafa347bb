package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/vmath"
)

type WeaponFiredEvent struct {
	WeaponId  ecs.EntityId
	OwnerId   ecs.EntityId
	Type      WeaponType
	Origin    vmath.Vec3
	Direction vmath.Vec3
	Timestamp float64
}

// DamageEvent carries SourceTeam so a kill stays attributable after the
// source entity is gone.
type DamageEvent struct {
	SourceId    ecs.EntityId
	SourceTeam  Team
	WeaponId    ecs.EntityId
	TargetId    ecs.EntityId
	Position    vmath.Vec3
	HasPosition bool
	Damage      float64
}

type DeathEvent struct {
	EntityId   ecs.EntityId
	Position   vmath.Vec3
	Team       Team
	KillerId   ecs.EntityId
	KillerTeam Team
}

type ImpactEvent struct {
	Position vmath.Vec3
	Normal   vmath.Vec3
	TargetId ecs.EntityId
}

// Events is the per-step event bundle. It is cleared by the first system of
// every step, so after a step it still holds that step's events.
type Events struct {
	WeaponFired []WeaponFiredEvent
	Damage      []DamageEvent
	Death       []DeathEvent
	Impact      []ImpactEvent
}

func (e *Events) Clear() {
	e.WeaponFired = e.WeaponFired[:0]
	e.Damage = e.Damage[:0]
	e.Death = e.Death[:0]
	e.Impact = e.Impact[:0]
}

// ClearEventsSystem empties the bundle at the start of a step.
type ClearEventsSystem struct {
	Events ecs.Singleton[Events]
}

func (s *ClearEventsSystem) Execute(frame *ecs.UpdateFrame) {
	s.Events.Get().Clear()
}
