package ai

import (
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/vmath"
)

// OccluderRadius is the radius every entity blocks sight with when no physics
// backend is available.
const OccluderRadius = 0.6

// Occluder is an entity that may block sight in the geometric fallback.
type Occluder struct {
	Id       uint64
	Position vmath.Vec3
}

// A single-hit backend that reports the agent's own collider is re-cast
// selfSkip further along the ray, at most maxRecasts times.
const (
	selfSkip   = 0.05
	maxRecasts = 32
)

// LineOfSight reports whether the segment from -> to is unoccluded. self and
// target never occlude. With an available physics backend the test is a ray
// query (a hit closer than the target occludes); otherwise every occluder is
// treated as a sphere of OccluderRadius. selfRadius is the agent's collider
// radius: backends that only report the closest hit are cast from outside it.
func LineOfSight(q physics.Queries, from, to vmath.Vec3, self, target uint64, selfRadius float64, occluders []Occluder) bool {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist == 0 {
		return true
	}
	dir := delta.Scale(1 / dist)

	if q != nil && q.Available() {
		if hits := q.IntersectionsWithRay(from, dir, dist, nil); hits != nil {
			for _, h := range hits {
				if h.Entity == self || h.Entity == target {
					continue
				}
				if h.HasToi && h.Toi < dist {
					return false
				}
			}
			return true
		}
		return closestHitClear(q, from, dir, dist, self, target, selfRadius)
	}

	for _, o := range occluders {
		if o.Id == self || o.Id == target {
			continue
		}
		t, distSq := vmath.ClosestOnSegment(from, dir, dist, o.Position)
		if t <= 0 || t >= dist {
			continue
		}
		if distSq < OccluderRadius*OccluderRadius {
			return false
		}
	}
	return true
}

// closestHitClear walks a single-hit ray from the edge of the agent's collider
// to the target. Hits on the agent itself are stepped over; the first other
// hit decides.
func closestHitClear(q physics.Queries, from, dir vmath.Vec3, dist float64, self, target uint64, selfRadius float64) bool {
	start := max(selfRadius, 0)
	for range maxRecasts {
		remaining := dist - start
		if remaining <= 0 {
			return true
		}
		hit := q.Raycast(from.Add(dir.Scale(start)), dir, remaining, nil)
		switch {
		case hit == nil:
			return true
		case hit.Entity == target:
			return true
		case hit.Entity == self:
			start += max(hit.Toi, 0) + selfSkip
			continue
		}
		return !(hit.HasToi && hit.Toi < remaining)
	}
	return true
}
