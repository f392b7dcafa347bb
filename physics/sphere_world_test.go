package physics

import (
	"testing"

	"github.com/plus3/botarena/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereWorldStep(t *testing.T) {
	w := NewSphereWorld()
	b := w.AddBody(1, vmath.V3(0, 0.6, 0), 0.6, 0)
	b.SetLinvel(vmath.V3(2, 0, -1))

	w.Step(0.5)
	assert.Equal(t, vmath.V3(1, 0.6, -0.5), b.Translation())

	got, ok := w.Body(1)
	require.True(t, ok)
	assert.Same(t, b, got)

	w.RemoveEntity(1)
	_, ok = w.Body(1)
	assert.False(t, ok)
	assert.Empty(t, w.RigidBodies())
}

func TestPauseManager(t *testing.T) {
	w := NewSphereWorld()
	a := w.AddBody(1, vmath.Vec3{}, 1, 0)
	b := w.AddBody(2, vmath.Vec3{}, 1, 0)
	a.SetLinvel(vmath.V3(1, 0, 0))
	b.SetLinvel(vmath.V3(0, 0, 3))

	var pm PauseManager
	pm.Pause(append(w.RigidBodies(), nil))
	assert.True(t, pm.Paused())
	assert.True(t, a.Linvel().IsZero())

	w.Step(1)
	assert.Equal(t, vmath.Vec3{}, a.Translation(), "paused time contributes no motion")

	pm.Pause(w.RigidBodies())
	pm.Resume()
	assert.False(t, pm.Paused())
	assert.Equal(t, vmath.V3(1, 0, 0), a.Linvel())
	assert.Equal(t, vmath.V3(0, 0, 3), b.Linvel())

	pm.Resume()
	assert.Equal(t, vmath.V3(1, 0, 0), a.Linvel())
}
