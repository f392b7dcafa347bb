package physics

import (
	"slices"

	"github.com/plus3/botarena/vmath"
)

// Sphere is a static collision fixture.
type Sphere struct {
	Entity   uint64
	Collider int64
	Center   vmath.Vec3
	Radius   float64
	// Groups is matched against query filters; 0 means every group.
	Groups uint32
}

func (s Sphere) passes(filter *uint32) bool {
	return filter == nil || s.Groups == 0 || s.Groups&*filter != 0
}

// castSphere intersects a ray with s and fills in the hit.
func castSphere(s Sphere, origin, dir vmath.Vec3, maxToi float64) (RayHit, bool) {
	toi, ok := vmath.RaySphere(origin, dir, s.Center, s.Radius)
	if !ok || toi > maxToi {
		return RayHit{}, false
	}
	point := origin.Add(dir.Scale(toi))
	normal := point.Sub(s.Center).Normalize()
	if normal.IsZero() {
		normal = dir.Scale(-1)
	}
	return RayHit{
		Toi:      toi,
		HasToi:   true,
		Point:    point,
		Normal:   normal,
		Entity:   s.Entity,
		Collider: s.Collider,
	}, true
}

// DeterministicAdapter answers Queries geometrically over a fixed set of
// spheres. It is the reference the real Adapter is contract-tested against.
type DeterministicAdapter struct {
	Spheres []Sphere
}

var _ Queries = (*DeterministicAdapter)(nil)

// NewDeterministicAdapter builds an adapter over fixtures.
func NewDeterministicAdapter(fixtures ...Sphere) *DeterministicAdapter {
	return &DeterministicAdapter{Spheres: fixtures}
}

func (d *DeterministicAdapter) Available() bool {
	return true
}

func (d *DeterministicAdapter) Raycast(origin, dir vmath.Vec3, maxToi float64, filter *uint32) *RayHit {
	hits := d.IntersectionsWithRay(origin, dir, maxToi, filter)
	if len(hits) == 0 {
		return nil
	}
	return &hits[0]
}

func (d *DeterministicAdapter) OverlapSphere(center vmath.Vec3, radius float64) bool {
	return len(d.OverlapSphereEntities(center, radius)) > 0
}

func (d *DeterministicAdapter) OverlapSphereEntities(center vmath.Vec3, radius float64) []uint64 {
	var ids []uint64
	for _, s := range d.Spheres {
		reach := s.Radius + radius
		if s.Center.Sub(center).LenSq() <= reach*reach {
			ids = append(ids, s.Entity)
		}
	}
	return normalizeIds(ids)
}

func (d *DeterministicAdapter) IntersectionsWithRay(origin, dir vmath.Vec3, maxToi float64, filter *uint32) []RayHit {
	dir = dir.Normalize()
	hits := []RayHit{}
	for _, s := range d.Spheres {
		if !s.passes(filter) {
			continue
		}
		if hit, ok := castSphere(s, origin, dir, maxToi); ok {
			hits = append(hits, hit)
		}
	}
	SortHits(hits)
	return slices.Clip(hits)
}
