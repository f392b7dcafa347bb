package battle_test

import (
	"testing"

	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesFromConfig(t *testing.T) {
	rules := battle.RulesFromConfig(config.Default())

	assert.Equal(t, vmath.V3(-20, 0.6, 0), rules.Teams[battle.Red].Spawn)
	assert.Equal(t, "laser", rules.Loadout(battle.Red, 1))
	assert.Equal(t, "gun", rules.Loadout(battle.Red, 3), "loadouts wrap around")

	laser := rules.Weapons["laser"]
	assert.Equal(t, battle.Laser, laser.Type)
	assert.Equal(t, 100.0, laser.Beam.TickIntervalMs)
	assert.True(t, laser.Continuous)

	rocket := rules.Weapons["rocket"]
	assert.Equal(t, 18.0, rocket.Rocket.Speed)
	assert.Equal(t, 4, rocket.Clip)
}

func TestRobotSpec(t *testing.T) {
	rules := battle.RulesFromConfig(config.Default())

	spec := rules.RobotSpec(battle.Blue, "rocket", vmath.V3(1, 2, 3))
	require.NotNil(t, spec.Weapon)
	assert.Equal(t, battle.Rocket, spec.Weapon.Type)
	assert.Equal(t, 100.0, spec.MaxHealth)

	assert.Nil(t, rules.RobotSpec(battle.Blue, "", vmath.Vec3{}).Weapon, "unknown loadouts are unarmed")
}

func TestClampToArena(t *testing.T) {
	rules := battle.RulesFromConfig(config.Default())
	assert.True(t, rules.InArena(vmath.V3(0, 0, 0)))
	assert.False(t, rules.InArena(vmath.V3(60, 0, 0)))
	assert.Equal(t, vmath.V3(50, 0, -50), rules.ClampToArena(vmath.V3(60, 0, -99)))
}
