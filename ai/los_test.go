package ai_test

import (
	"testing"

	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/vmath"
	"github.com/stretchr/testify/assert"
)

func TestLineOfSightGeometricFallback(t *testing.T) {
	from := vmath.V3(0, 0.6, 0)
	to := vmath.V3(10, 0.6, 0)

	blocker := []ai.Occluder{{Id: 3, Position: vmath.V3(5, 0.6, 0.3)}}
	beside := []ai.Occluder{{Id: 3, Position: vmath.V3(5, 0.6, 1)}}
	behind := []ai.Occluder{{Id: 3, Position: vmath.V3(12, 0.6, 0)}}
	endpoints := []ai.Occluder{{Id: 1, Position: from}, {Id: 2, Position: to}}

	assert.False(t, ai.LineOfSight(nil, from, to, 1, 2, 0.6, blocker))
	assert.True(t, ai.LineOfSight(nil, from, to, 1, 2, 0.6, beside))
	assert.True(t, ai.LineOfSight(nil, from, to, 1, 2, 0.6, behind))
	assert.True(t, ai.LineOfSight(nil, from, to, 1, 2, 0.6, endpoints))
	assert.True(t, ai.LineOfSight(physics.NewAdapter(nil), from, to, 1, 2, 0.6, beside), "unavailable backend uses the fallback")
}

func TestLineOfSightThroughPhysics(t *testing.T) {
	from := vmath.V3(0, 0.6, 0)
	to := vmath.V3(10, 0.6, 0)

	world := physics.NewSphereWorld()
	world.AddBody(1, from, 0.6, 0)
	world.AddBody(2, to, 0.6, 0)
	q := physics.NewAdapter(world)

	assert.True(t, ai.LineOfSight(q, from, to, 1, 2, 0.6, nil), "shooter and target bodies are ignored")

	world.AddBody(3, vmath.V3(5, 0.6, 0), 1, 0)
	assert.False(t, ai.LineOfSight(q, from, to, 1, 2, 0.6, nil))

	// the deterministic adapter answers the same way
	ref := physics.NewDeterministicAdapter(
		physics.Sphere{Entity: 1, Center: from, Radius: 0.6},
		physics.Sphere{Entity: 3, Center: vmath.V3(5, 0.6, 0), Radius: 1},
		physics.Sphere{Entity: 2, Center: to, Radius: 0.6},
	)
	assert.False(t, ai.LineOfSight(ref, from, to, 1, 2, 0.6, nil))
}

// castOnly exposes nothing but the world-level closest-hit cast.
type castOnly struct{ ref *physics.DeterministicAdapter }

func (c castOnly) CastRay(origin, dir vmath.Vec3, maxToi float64, solid bool, filter *uint32) (*physics.RayHit, error) {
	return c.ref.Raycast(origin, dir, maxToi, filter), nil
}

// rawOnly exposes bare collider handles offset from the entity ids.
type rawOnly struct{ ref *physics.DeterministicAdapter }

func (r rawOnly) CastRayRaw(origin, dir vmath.Vec3, maxToi float64, filter *uint32) (int64, float64, bool, error) {
	hit := r.ref.Raycast(origin, dir, maxToi, filter)
	if hit == nil {
		return 0, 0, false, nil
	}
	return int64(hit.Entity) + 100, hit.Toi, true, nil
}

func (r rawOnly) ColliderEntity(collider int64) (uint64, bool) {
	if collider < 100 {
		return 0, false
	}
	return uint64(collider - 100), true
}

func TestLineOfSightClosestHitBackends(t *testing.T) {
	from := vmath.V3(0, 0.6, 0)
	to := vmath.V3(10, 0.6, 0)
	shooter := physics.Sphere{Entity: 1, Center: from, Radius: 0.6}
	target := physics.Sphere{Entity: 2, Center: to, Radius: 0.6}
	blocker := physics.Sphere{Entity: 3, Center: vmath.V3(5, 0.6, 0), Radius: 1}

	shapes := map[string]func(*physics.DeterministicAdapter) physics.Queries{
		"reference":  func(d *physics.DeterministicAdapter) physics.Queries { return d },
		"single-hit": func(d *physics.DeterministicAdapter) physics.Queries { return physics.NewAdapter(castOnly{d}) },
		"raw-handle": func(d *physics.DeterministicAdapter) physics.Queries { return physics.NewAdapter(rawOnly{d}) },
	}

	for name, wrap := range shapes {
		t.Run(name, func(t *testing.T) {
			clear := wrap(physics.NewDeterministicAdapter(shooter, target))
			blocked := wrap(physics.NewDeterministicAdapter(shooter, blocker, target))

			assert.True(t, ai.LineOfSight(clear, from, to, 1, 2, 0.6, nil))
			assert.False(t, ai.LineOfSight(blocked, from, to, 1, 2, 0.6, nil))
			assert.False(t, ai.LineOfSight(blocked, from, to, 1, 2, 0, nil), "a cast from the centre steps out of its own collider")
			assert.True(t, ai.LineOfSight(blocked, from, vmath.V3(3, 0.6, 0), 1, 4, 0.6, nil), "blocker beyond the target")
		})
	}
}
