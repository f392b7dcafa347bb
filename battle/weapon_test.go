package battle_test

import (
	"testing"

	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firedFrames(h *harness, weapon ecs.EntityId) []uint64 {
	var frames []uint64
	for i, e := range h.tap.frames {
		for _, f := range e.WeaponFired {
			if f.WeaponId == weapon {
				frames = append(frames, uint64(i+1))
			}
		}
	}
	return frames
}

func TestWeaponCooldown(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.WeaponSystem{})
	w := gun()
	w.Continuous = true
	red := h.robot(battle.Red, at(0, 0), w)
	h.robot(battle.Blue, at(5, 0), nil)
	h.fire(red)

	h.steps(25)

	// cooldown 1s at 0.1s steps: ten full steps between shots
	assert.Equal(t, []uint64{1, 11, 21}, firedFrames(h, red))
}

func TestWeaponSingleShotClearsFiring(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.WeaponSystem{})
	w := gun()
	w.Cooldown = 0
	red := h.robot(battle.Red, at(0, 0), w)
	h.fire(red)

	h.steps(3)

	assert.Equal(t, []uint64{1}, firedFrames(h, red))
	assert.False(t, ecs.ReadComponent[battle.WeaponState](h.storage, red).Firing)
}

func TestWeaponAimsAtNearestEnemy(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.WeaponSystem{})
	red := h.robot(battle.Red, at(0, 0), gun())
	h.robot(battle.Red, at(0, 1), nil)
	h.robot(battle.Blue, at(0, 8), nil)
	h.robot(battle.Blue, at(0, -4), nil)
	h.fire(red)

	h.steps(1)

	fired := h.last().WeaponFired
	require.Len(t, fired, 1)
	assert.InDelta(t, -1.0, fired[0].Direction.Z, 1e-9)
	assert.Equal(t, red, fired[0].OwnerId)
	assert.Equal(t, battle.Gun, fired[0].Type)
	assert.Equal(t, 100.0, fired[0].Timestamp)
}

func TestWeaponFacesForwardWithoutEnemies(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.WeaponSystem{})
	blue := h.robot(battle.Blue, at(0, 0), gun())
	h.fire(blue)

	h.steps(1)

	fired := h.last().WeaponFired
	require.Len(t, fired, 1)
	assert.Equal(t, battle.Blue.Forward(), fired[0].Direction)
}

func TestWeaponClipAndReload(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.WeaponSystem{})
	w := gun()
	w.Cooldown = 0.1
	w.ClipSize = 2
	w.Continuous = true
	red := h.robot(battle.Red, at(0, 0), w)
	h.fire(red)

	weapon := ecs.ReadComponent[battle.Weapon](h.storage, red)
	state := ecs.ReadComponent[battle.WeaponState](h.storage, red)
	require.Equal(t, 2, weapon.Clip)

	h.steps(1)
	assert.Equal(t, 1, weapon.Clip)
	assert.False(t, state.Reloading)

	h.steps(1)
	assert.Equal(t, 0, weapon.Clip)
	assert.True(t, state.Reloading)

	h.steps(1)
	assert.False(t, state.Reloading)
	assert.Equal(t, 1, weapon.Clip, "reloaded then fired again")
	assert.Equal(t, []uint64{1, 2, 3}, firedFrames(h, red))
}

func TestDeadRobotsDoNotFire(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.WeaponSystem{})
	red := h.robot(battle.Red, at(0, 0), gun())
	h.fire(red)
	ecs.ReadComponent[battle.Health](h.storage, red).Apply(1000)

	h.steps(2)

	assert.Empty(t, firedFrames(h, red))
}
