// Package physics is the narrow boundary between the simulation and a physics
// engine. The simulation never integrates rigid bodies itself: it asks
// questions through Queries and writes velocity commands through RigidBody.
package physics

import "github.com/plus3/botarena/vmath"

// RayHit is one ray intersection. Entity is 0 when the backend could not map
// the collider back to an entity.
type RayHit struct {
	Toi      float64
	HasToi   bool
	Point    vmath.Vec3
	Normal   vmath.Vec3
	Entity   uint64
	Collider int64
}

// Queries is the stable contract every gameplay system uses.
//
// Methods returning slices use nil to mean "the backend cannot answer" and an
// empty slice for "answered, nothing found".
type Queries interface {
	Available() bool
	Raycast(origin, dir vmath.Vec3, maxToi float64, filter *uint32) *RayHit
	OverlapSphere(center vmath.Vec3, radius float64) bool
	OverlapSphereEntities(center vmath.Vec3, radius float64) []uint64
	IntersectionsWithRay(origin, dir vmath.Vec3, maxToi float64, filter *uint32) []RayHit
}

// RigidBody is the raw handle a physics engine exposes for one body.
type RigidBody interface {
	Translation() vmath.Vec3
	Linvel() vmath.Vec3
	SetLinvel(v vmath.Vec3)
}

// SingleHitCaster is the world-level call shape: the world itself answers a
// single closest-hit ray cast.
type SingleHitCaster interface {
	CastRay(origin, dir vmath.Vec3, maxToi float64, solid bool, filter *uint32) (*RayHit, error)
}

// QueryPipeline is the object a pipeline based backend hands out for queries.
type QueryPipeline interface {
	CastRay(origin, dir vmath.Vec3, maxToi float64, solid bool, filter *uint32) (*RayHit, error)
	// IntersectionsWithRay reports every hit through fn in backend order until
	// fn returns false.
	IntersectionsWithRay(origin, dir vmath.Vec3, maxToi float64, solid bool, filter *uint32, fn func(RayHit) bool) error
	IntersectionsWithSphere(center vmath.Vec3, radius float64, fn func(entity uint64) bool) error
}

// PipelineProvider is the pipeline call shape.
type PipelineProvider interface {
	QueryPipeline() QueryPipeline
}

// RawHandleCaster is the lowest level call shape: the cast returns a bare
// collider handle that has to be resolved to an entity separately.
type RawHandleCaster interface {
	CastRayRaw(origin, dir vmath.Vec3, maxToi float64, filter *uint32) (collider int64, toi float64, hit bool, err error)
	ColliderEntity(collider int64) (uint64, bool)
}

// SphereOverlapper answers sphere overlap queries directly.
type SphereOverlapper interface {
	OverlapSphere(center vmath.Vec3, radius float64) ([]uint64, error)
}
