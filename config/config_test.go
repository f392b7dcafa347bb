package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/botarena/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.MaxSpawnsPerStep)
	assert.False(t, cfg.FriendlyFire)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeFile(t, "battle.yaml", `
seed: 99
friendly_fire: true
teams:
  red:
    count: 1
    spawn: [0, 0.6, 0]
    loadouts: [gun]
weapons:
  gun:
    type: gun
    range: 10
    cooldown: 1
    power: 20
    accuracy: 1
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.True(t, cfg.FriendlyFire)
	assert.Equal(t, 1, cfg.Teams.Red.Count)
	assert.Equal(t, config.Vec{0, 0.6, 0}, cfg.Teams.Red.Spawn)
	assert.Equal(t, 20.0, cfg.Weapons["gun"].Power)
	assert.Equal(t, 1.0/60.0, cfg.Step, "unset fields keep their defaults")
	assert.Contains(t, cfg.Weapons, "rocket")
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeFile(t, "bad.yaml", "seed: [not a number"))
	assert.Error(t, err)

	_, err = config.Load(writeFile(t, "invalid.yaml", "step: 0\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *config.Battle){
		"zero spawns":     func(c *config.Battle) { c.MaxSpawnsPerStep = 0 },
		"negative step":   func(c *config.Battle) { c.Step = -1 },
		"flat arena":      func(c *config.Battle) { c.Arena.Max[1] = c.Arena.Min[1] },
		"bad accuracy":    func(c *config.Battle) { w := c.Weapons["gun"]; w.Accuracy = 2; c.Weapons["gun"] = w },
		"unknown type":    func(c *config.Battle) { c.Weapons["x"] = config.Weapon{Type: "sword", Range: 1} },
		"unknown loadout": func(c *config.Battle) { c.Teams.Blue.Loadouts = []string{"nope"} },
		"no robot radius": func(c *config.Battle) { c.Robot.Radius = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestValidateReportsWeaponsInNameOrder(t *testing.T) {
	cfg := config.Default()
	for _, name := range []string{"zeta", "mu", "alpha", "kappa"} {
		cfg.Weapons[name] = config.Weapon{Type: "sword", Range: 1}
	}

	first := cfg.Validate()
	require.ErrorIs(t, first, config.ErrInvalidConfig)
	assert.Contains(t, first.Error(), `weapon "alpha"`)
	for range 20 {
		assert.Equal(t, first.Error(), cfg.Validate().Error())
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ARENA_SEED", "1234")
	t.Setenv("ARENA_STEP", "0.05")
	t.Setenv("ARENA_FRIENDLY_FIRE", "true")
	t.Setenv("ARENA_MAX_SPAWNS_PER_STEP", "2")

	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, 0.05, cfg.Step)
	assert.True(t, cfg.FriendlyFire)
	assert.Equal(t, 2, cfg.MaxSpawnsPerStep)

	t.Setenv("ARENA_SEED", "minus one")
	assert.ErrorIs(t, cfg.ApplyEnv(), config.ErrInvalidConfig)
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, "test.env", "ARENA_TEST_ONLY_VALUE=7\n")
	t.Setenv("ARENA_TEST_ONLY_VALUE", "")
	os.Unsetenv("ARENA_TEST_ONLY_VALUE")

	require.NoError(t, config.LoadEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "7", os.Getenv("ARENA_TEST_ONLY_VALUE"))
}
