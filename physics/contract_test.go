package physics

import (
	"slices"
	"testing"

	"github.com/plus3/botarena/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rayCase struct {
	name   string
	origin vmath.Vec3
	dir    vmath.Vec3
	maxToi float64
	filter *uint32
}

func groupMask(m uint32) *uint32 { return &m }

// canonicalWorld builds the fixture world with bodies created in an order
// unrelated to distance, and returns the matching deterministic fixtures.
func canonicalWorld() (*SphereWorld, *DeterministicAdapter) {
	w := NewSphereWorld()
	w.AddBody(30, vmath.V3(9, 0, 0), 0.6, 0)
	w.AddBody(10, vmath.V3(3, 0, 0), 0.6, 1)
	w.AddBody(20, vmath.V3(6, 0, 0.2), 0.6, 2)
	// two bodies at the same spot tie on time of impact
	w.AddBody(41, vmath.V3(0, 0, 5), 0.5, 0)
	w.AddBody(40, vmath.V3(0, 0, 5), 0.5, 0)

	var fixtures []Sphere
	for _, b := range w.Bodies() {
		fixtures = append(fixtures, b.sphere())
	}
	slices.Reverse(fixtures)
	return w, NewDeterministicAdapter(fixtures...)
}

func TestAdapterMatchesDeterministicAdapter(t *testing.T) {
	world, reference := canonicalWorld()
	adapter := NewAdapter(world)

	cases := []rayCase{
		{name: "along x", origin: vmath.Vec3{}, dir: vmath.V3(1, 0, 0), maxToi: 20},
		{name: "short", origin: vmath.Vec3{}, dir: vmath.V3(1, 0, 0), maxToi: 4},
		{name: "filtered", origin: vmath.Vec3{}, dir: vmath.V3(1, 0, 0), maxToi: 20, filter: groupMask(2)},
		{name: "tie", origin: vmath.Vec3{}, dir: vmath.V3(0, 0, 1), maxToi: 20},
		{name: "miss", origin: vmath.Vec3{}, dir: vmath.V3(0, 1, 0), maxToi: 20},
		{name: "from inside", origin: vmath.V3(3, 0, 0), dir: vmath.V3(-1, 0, 0), maxToi: 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := reference.IntersectionsWithRay(tc.origin, tc.dir, tc.maxToi, tc.filter)
			got := adapter.IntersectionsWithRay(tc.origin, tc.dir, tc.maxToi, tc.filter)
			require.NotNil(t, got)
			assert.Equal(t, want, got)

			assert.Equal(t, reference.Raycast(tc.origin, tc.dir, tc.maxToi, tc.filter),
				adapter.Raycast(tc.origin, tc.dir, tc.maxToi, tc.filter))
		})
	}

	for _, probe := range []struct {
		center vmath.Vec3
		radius float64
	}{
		{vmath.V3(3, 0, 0), 0.1},
		{vmath.V3(4.5, 0, 0), 1},
		{vmath.V3(0, 0, 5), 0},
		{vmath.V3(-5, 0, 0), 1},
	} {
		assert.Equal(t, reference.OverlapSphereEntities(probe.center, probe.radius),
			adapter.OverlapSphereEntities(probe.center, probe.radius))
		assert.Equal(t, reference.OverlapSphere(probe.center, probe.radius),
			adapter.OverlapSphere(probe.center, probe.radius))
	}
}

func TestTieBreakIsStableAcrossInsertionOrder(t *testing.T) {
	a := NewSphereWorld()
	a.AddBody(1, vmath.V3(5, 0, 0), 1, 0)
	a.AddBody(2, vmath.V3(5, 0, 0), 1, 0)

	b := NewSphereWorld()
	b.AddBody(2, vmath.V3(5, 0, 0), 1, 0)
	b.AddBody(1, vmath.V3(5, 0, 0), 1, 0)

	hitsA := NewAdapter(a).IntersectionsWithRay(vmath.Vec3{}, vmath.V3(1, 0, 0), 10, nil)
	hitsB := NewAdapter(b).IntersectionsWithRay(vmath.Vec3{}, vmath.V3(1, 0, 0), 10, nil)
	require.Len(t, hitsA, 2)
	require.Len(t, hitsB, 2)

	entities := func(hits []RayHit) []uint64 {
		return []uint64{hits[0].Entity, hits[1].Entity}
	}
	assert.Equal(t, entities(hitsA), entities(hitsB))
}
