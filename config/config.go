// Package config loads battle settings from YAML, an optional .env file and
// ARENA_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid battle configuration")

// Vec is a point written as [x, y, z].
type Vec [3]float64

type Battle struct {
	Seed              uint64  `yaml:"seed"`
	Step              float64 `yaml:"step"`
	FriendlyFire      bool    `yaml:"friendly_fire"`
	MaxSpawnsPerStep  int     `yaml:"max_spawns_per_step"`
	RespawnDelayMs    float64 `yaml:"respawn_delay_ms"`
	InvulnerabilityMs float64 `yaml:"invulnerability_ms"`

	Arena   Arena             `yaml:"arena"`
	Robot   Robot             `yaml:"robot"`
	Teams   Teams             `yaml:"teams"`
	Weapons map[string]Weapon `yaml:"weapons"`
}

// Arena bounds the playable volume. Projectiles leaving it are removed.
type Arena struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

type Robot struct {
	MaxHealth float64 `yaml:"max_health"`
	Speed     float64 `yaml:"speed"`
	Radius    float64 `yaml:"radius"`
}

type Teams struct {
	Red  Team `yaml:"red"`
	Blue Team `yaml:"blue"`
}

// Team describes how a side is spawned. Loadouts are assigned round-robin.
type Team struct {
	Count    int      `yaml:"count"`
	Spawn    Vec      `yaml:"spawn"`
	Spacing  float64  `yaml:"spacing"`
	Loadouts []string `yaml:"loadouts"`
}

// Weapon is a named tuning table.
type Weapon struct {
	Type       string  `yaml:"type"`
	Range      float64 `yaml:"range"`
	Cooldown   float64 `yaml:"cooldown"`
	Power      float64 `yaml:"power"`
	Accuracy   float64 `yaml:"accuracy"`
	Spread     float64 `yaml:"spread"`
	ClipSize   int     `yaml:"clip_size"`
	AoeRadius  float64 `yaml:"aoe_radius"`
	Continuous bool    `yaml:"continuous"`

	BeamDurationMs     float64 `yaml:"beam_duration_ms"`
	BeamTickIntervalMs float64 `yaml:"beam_tick_interval_ms"`
	BeamTickDamage     float64 `yaml:"beam_tick_damage"`
	BeamWidth          float64 `yaml:"beam_width"`

	RocketSpeed      float64 `yaml:"rocket_speed"`
	RocketLifespanMs float64 `yaml:"rocket_lifespan_ms"`
	HomingTurnSpeed  float64 `yaml:"homing_turn_speed"`
}

var weaponTypes = []string{"gun", "laser", "rocket"}

// Default returns a small, balanced battle.
func Default() Battle {
	return Battle{
		Seed:              1,
		Step:              1.0 / 60.0,
		MaxSpawnsPerStep:  3,
		RespawnDelayMs:    3000,
		InvulnerabilityMs: 2000,
		Arena: Arena{
			Min: Vec{-50, -5, -50},
			Max: Vec{50, 30, 50},
		},
		Robot: Robot{MaxHealth: 100, Speed: 4, Radius: 0.6},
		Teams: Teams{
			Red:  Team{Count: 3, Spawn: Vec{-20, 0.6, 0}, Spacing: 3, Loadouts: []string{"gun", "laser", "rocket"}},
			Blue: Team{Count: 3, Spawn: Vec{20, 0.6, 0}, Spacing: 3, Loadouts: []string{"gun", "laser", "rocket"}},
		},
		Weapons: map[string]Weapon{
			"gun": {
				Type: "gun", Range: 30, Cooldown: 0.5, Power: 10,
				Accuracy: 0.85, Spread: 0.2, ClipSize: 12,
			},
			"laser": {
				Type: "laser", Range: 25, Cooldown: 1.5, Power: 0,
				Accuracy: 1, Continuous: true,
				BeamDurationMs: 500, BeamTickIntervalMs: 100, BeamTickDamage: 4, BeamWidth: 0.3,
			},
			"rocket": {
				Type: "rocket", Range: 40, Cooldown: 2.5, Power: 40,
				Accuracy: 0.9, AoeRadius: 4, ClipSize: 4,
				RocketSpeed: 18, RocketLifespanMs: 4000, HomingTurnSpeed: 2,
			},
		},
	}
}

// Load reads a YAML file layered over Default and validates the result.
func Load(path string) (Battle, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv loads .env style files into the process environment. Missing files
// are ignored; with no arguments ".env" is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from ARENA_SEED, ARENA_STEP, ARENA_FRIENDLY_FIRE
// and ARENA_MAX_SPAWNS_PER_STEP.
func (c *Battle) ApplyEnv() error {
	if v, ok := os.LookupEnv("ARENA_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: ARENA_SEED: %w", ErrInvalidConfig, err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv("ARENA_STEP"); ok {
		step, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: ARENA_STEP: %w", ErrInvalidConfig, err)
		}
		c.Step = step
	}
	if v, ok := os.LookupEnv("ARENA_FRIENDLY_FIRE"); ok {
		ff, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: ARENA_FRIENDLY_FIRE: %w", ErrInvalidConfig, err)
		}
		c.FriendlyFire = ff
	}
	if v, ok := os.LookupEnv("ARENA_MAX_SPAWNS_PER_STEP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ARENA_MAX_SPAWNS_PER_STEP: %w", ErrInvalidConfig, err)
		}
		c.MaxSpawnsPerStep = n
	}
	return c.Validate()
}

// Validate checks every field the simulation relies on.
func (c *Battle) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case !(c.Step > 0):
		return invalid("step must be positive, got %v", c.Step)
	case c.MaxSpawnsPerStep < 1:
		return invalid("max_spawns_per_step must be at least 1, got %d", c.MaxSpawnsPerStep)
	case c.RespawnDelayMs < 0 || c.InvulnerabilityMs < 0:
		return invalid("respawn and invulnerability times must not be negative")
	case !(c.Robot.MaxHealth > 0):
		return invalid("robot max_health must be positive")
	case !(c.Robot.Radius > 0):
		return invalid("robot radius must be positive")
	case c.Robot.Speed < 0:
		return invalid("robot speed must not be negative")
	}
	for i := range 3 {
		if c.Arena.Min[i] >= c.Arena.Max[i] {
			return invalid("arena min must be below max on every axis")
		}
	}

	for _, name := range slices.Sorted(maps.Keys(c.Weapons)) {
		w := c.Weapons[name]
		switch {
		case !slices.Contains(weaponTypes, w.Type):
			return invalid("weapon %q: unknown type %q", name, w.Type)
		case !(w.Range > 0):
			return invalid("weapon %q: range must be positive", name)
		case w.Cooldown < 0:
			return invalid("weapon %q: cooldown must not be negative", name)
		case w.Accuracy < 0 || w.Accuracy > 1:
			return invalid("weapon %q: accuracy must be within [0, 1]", name)
		case w.ClipSize < 0:
			return invalid("weapon %q: clip_size must not be negative", name)
		case w.Type == "laser" && !(w.BeamTickIntervalMs > 0):
			return invalid("weapon %q: beam_tick_interval_ms must be positive", name)
		case w.Type == "rocket" && !(w.RocketSpeed > 0):
			return invalid("weapon %q: rocket_speed must be positive", name)
		}
	}

	for _, team := range []struct {
		name string
		t    Team
	}{{"red", c.Teams.Red}, {"blue", c.Teams.Blue}} {
		if team.t.Count < 0 {
			return invalid("team %s: count must not be negative", team.name)
		}
		if team.t.Count > 0 && len(team.t.Loadouts) == 0 {
			return invalid("team %s: no loadouts", team.name)
		}
		for _, l := range team.t.Loadouts {
			if _, ok := c.Weapons[l]; !ok {
				return invalid("team %s: unknown loadout %q", team.name, l)
			}
		}
	}
	return nil
}
