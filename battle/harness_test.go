package battle_test

import (
	"slices"
	"testing"

	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"github.com/stretchr/testify/require"
)

// harness runs a chosen subset of systems between ClearEvents and a tap that
// keeps a copy of every step's events.
type harness struct {
	storage *ecs.Storage
	driver  *sim.Driver
	sched   *ecs.Scheduler
	tap     *eventTap
	rules   *battle.Rules
}

type eventTap struct {
	Events ecs.Singleton[battle.Events]
	frames []battle.Events
}

func (t *eventTap) Execute(frame *ecs.UpdateFrame) {
	e := t.Events.Get()
	t.frames = append(t.frames, battle.Events{
		WeaponFired: slices.Clone(e.WeaponFired),
		Damage:      slices.Clone(e.Damage),
		Death:       slices.Clone(e.Death),
		Impact:      slices.Clone(e.Impact),
	})
}

// injector lets a test add events in the middle of a step.
type injector struct {
	Events ecs.Singleton[battle.Events]
	fn     func(events *battle.Events, frame *ecs.UpdateFrame)
}

func (i *injector) Execute(frame *ecs.UpdateFrame) {
	if i.fn != nil {
		i.fn(i.Events.Get(), frame)
	}
}

func testConfig() config.Battle {
	cfg := config.Default()
	cfg.Step = 0.1
	cfg.Teams.Red.Count = 0
	cfg.Teams.Blue.Count = 0
	return cfg
}

func newHarness(t *testing.T, cfg config.Battle, systems ...ecs.System) *harness {
	t.Helper()
	require.NoError(t, cfg.Validate())

	registry := ecs.NewComponentRegistry()
	battle.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(battle.Events{})
	storage.AddSingleton(battle.NewScoreboard())
	storage.AddSingleton(battle.RespawnQueue{})
	storage.AddSingleton(battle.RulesFromConfig(cfg))

	driver, err := sim.NewDriver(cfg.Seed, cfg.Step)
	require.NoError(t, err)
	driver.SetFriendlyFire(cfg.FriendlyFire)

	h := &harness{
		storage: storage,
		driver:  driver,
		sched:   ecs.NewScheduler(storage, driver),
		tap:     &eventTap{},
		rules:   ecs.ReadSingleton[battle.Rules](storage),
	}
	h.sched.Register(&battle.ClearEventsSystem{})
	for _, s := range systems {
		h.sched.Register(s)
	}
	h.sched.Register(h.tap)
	return h
}

func (h *harness) steps(n int) {
	h.sched.Steps(n)
}

func (h *harness) last() battle.Events {
	return h.tap.frames[len(h.tap.frames)-1]
}

func (h *harness) robot(team battle.Team, at vmath.Vec3, weapon *battle.Weapon) ecs.EntityId {
	return battle.SpawnRobot(h.storage, battle.RobotSpec{
		Team:      team,
		Position:  at,
		Weapon:    weapon,
		MaxHealth: 100,
		Speed:     4,
		Radius:    0.6,
	})
}

func (h *harness) health(id ecs.EntityId) float64 {
	hp := ecs.ReadComponent[battle.Health](h.storage, id)
	if hp == nil {
		return -1
	}
	return hp.Current
}

func (h *harness) fire(id ecs.EntityId) {
	ecs.ReadComponent[battle.WeaponState](h.storage, id).Firing = true
}

func gun() *battle.Weapon {
	return &battle.Weapon{Type: battle.Gun, Range: 30, Cooldown: 1, Power: 20, Accuracy: 1}
}

func laser() *battle.Weapon {
	return &battle.Weapon{
		Type: battle.Laser, Range: 25, Cooldown: 10, Accuracy: 1,
		Beam: battle.BeamParams{DurationMs: 500, TickIntervalMs: 100, TickDamage: 4, Width: 0.3},
	}
}

func at(x, z float64) vmath.Vec3 {
	return vmath.V3(x, 0.6, z)
}

// newHarnessWith rebuilds the systems of h over the same storage, for tests
// that need entity ids before choosing their systems.
func newHarnessWith(t *testing.T, h *harness, systems ...ecs.System) *harness {
	t.Helper()
	next := &harness{
		storage: h.storage,
		driver:  h.driver,
		sched:   ecs.NewScheduler(h.storage, h.driver),
		tap:     &eventTap{},
		rules:   h.rules,
	}
	next.sched.Register(&battle.ClearEventsSystem{})
	for _, s := range systems {
		next.sched.Register(s)
	}
	next.sched.Register(next.tap)
	return next
}
