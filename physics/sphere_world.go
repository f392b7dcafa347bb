package physics

import (
	"slices"

	"github.com/plus3/botarena/vmath"
)

// SphereWorld is a minimal physics backend: dynamic spheres integrated with
// explicit Euler steps. It implements the pipeline call shape and hands out
// its bodies as RigidBody handles.
type SphereWorld struct {
	bodies     []*SphereBody
	nextHandle int64
}

// SphereBody is one body of a SphereWorld.
type SphereBody struct {
	handle      int64
	entity      uint64
	translation vmath.Vec3
	linvel      vmath.Vec3
	radius      float64
	groups      uint32
}

var _ RigidBody = (*SphereBody)(nil)

func (b *SphereBody) Translation() vmath.Vec3 { return b.translation }
func (b *SphereBody) Linvel() vmath.Vec3      { return b.linvel }
func (b *SphereBody) SetLinvel(v vmath.Vec3)  { b.linvel = v }

// SetTranslation teleports the body.
func (b *SphereBody) SetTranslation(p vmath.Vec3) { b.translation = p }

func (b *SphereBody) Entity() uint64  { return b.entity }
func (b *SphereBody) Handle() int64   { return b.handle }
func (b *SphereBody) Radius() float64 { return b.radius }

func (b *SphereBody) sphere() Sphere {
	return Sphere{
		Entity:   b.entity,
		Collider: b.handle,
		Center:   b.translation,
		Radius:   b.radius,
		Groups:   b.groups,
	}
}

func NewSphereWorld() *SphereWorld {
	return &SphereWorld{}
}

// AddBody creates a body for entity. groups is a collision group mask; 0
// collides with every query filter.
func (w *SphereWorld) AddBody(entity uint64, at vmath.Vec3, radius float64, groups uint32) *SphereBody {
	w.nextHandle++
	b := &SphereBody{
		handle:      w.nextHandle,
		entity:      entity,
		translation: at,
		radius:      radius,
		groups:      groups,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveEntity drops every body belonging to entity.
func (w *SphereWorld) RemoveEntity(entity uint64) {
	w.bodies = slices.DeleteFunc(w.bodies, func(b *SphereBody) bool { return b.entity == entity })
}

// Body returns the first body of entity.
func (w *SphereWorld) Body(entity uint64) (*SphereBody, bool) {
	for _, b := range w.bodies {
		if b.entity == entity {
			return b, true
		}
	}
	return nil, false
}

// Bodies returns the bodies in creation order.
func (w *SphereWorld) Bodies() []*SphereBody {
	return w.bodies
}

// RigidBodies returns the bodies as raw handles, for a PauseManager.
func (w *SphereWorld) RigidBodies() []RigidBody {
	out := make([]RigidBody, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b
	}
	return out
}

// Step integrates every body by dt seconds.
func (w *SphereWorld) Step(dt float64) {
	for _, b := range w.bodies {
		b.translation = b.translation.Add(b.linvel.Scale(dt))
	}
}

// QueryPipeline implements PipelineProvider.
func (w *SphereWorld) QueryPipeline() QueryPipeline {
	return spherePipeline{w}
}

type spherePipeline struct {
	w *SphereWorld
}

func (p spherePipeline) CastRay(origin, dir vmath.Vec3, maxToi float64, solid bool, filter *uint32) (*RayHit, error) {
	var best *RayHit
	err := p.IntersectionsWithRay(origin, dir, maxToi, solid, filter, func(h RayHit) bool {
		if best == nil || compareHits(h, *best) < 0 {
			best = &h
		}
		return true
	})
	return best, err
}

// IntersectionsWithRay reports hits in body creation order, not by distance.
func (p spherePipeline) IntersectionsWithRay(origin, dir vmath.Vec3, maxToi float64, _ bool, filter *uint32, fn func(RayHit) bool) error {
	dir = dir.Normalize()
	for _, b := range p.w.bodies {
		s := b.sphere()
		if !s.passes(filter) {
			continue
		}
		if hit, ok := castSphere(s, origin, dir, maxToi); ok {
			if !fn(hit) {
				return nil
			}
		}
	}
	return nil
}

func (p spherePipeline) IntersectionsWithSphere(center vmath.Vec3, radius float64, fn func(uint64) bool) error {
	for _, b := range p.w.bodies {
		reach := b.radius + radius
		if b.translation.Sub(center).LenSq() <= reach*reach {
			if !fn(b.entity) {
				return nil
			}
		}
	}
	return nil
}
