package battle_test

import (
	"reflect"
	"testing"

	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepAt(nowMs float64) *sim.StepContext {
	return &sim.StepContext{
		FrameCount: 1,
		SimNowMs:   nowMs,
		Step:       0.1,
		RNG:        sim.NewRNG(1),
		Ids:        sim.NewIdFactory(1, nowMs),
	}
}

func entityIds(reqs []battle.SpawnRequest) []ecs.EntityId {
	ids := make([]ecs.EntityId, len(reqs))
	for i, r := range reqs {
		ids[i] = r.EntityId
	}
	return ids
}

func TestProcessRespawnQueueThrottles(t *testing.T) {
	queue := &battle.RespawnQueue{}
	for id := ecs.EntityId(1); id <= 5; id++ {
		queue.Pending = append(queue.Pending, battle.SpawnRequest{EntityId: id, Team: battle.Red, RespawnAtMs: 0})
	}

	step := stepAt(100)
	assert.Equal(t, []ecs.EntityId{1, 2}, entityIds(battle.ProcessRespawnQueue(queue, step, 2)))
	assert.Equal(t, []ecs.EntityId{3, 4, 5}, entityIds(queue.Pending))

	assert.Equal(t, []ecs.EntityId{3, 4}, entityIds(battle.ProcessRespawnQueue(queue, step, 2)))
	assert.Equal(t, []ecs.EntityId{5}, entityIds(battle.ProcessRespawnQueue(queue, step, 2)))
	assert.Empty(t, battle.ProcessRespawnQueue(queue, step, 2))
	assert.Equal(t, 0, queue.Len())
}

func TestProcessRespawnQueueKeepsOrder(t *testing.T) {
	queue := &battle.RespawnQueue{Pending: []battle.SpawnRequest{
		{EntityId: 1, RespawnAtMs: 500},
		{EntityId: 2, RespawnAtMs: 100},
		{EntityId: 3, RespawnAtMs: 900},
		{EntityId: 4, RespawnAtMs: 200},
		{EntityId: 5, RespawnAtMs: 300},
	}}

	ready := battle.ProcessRespawnQueue(queue, stepAt(300), 2)
	assert.Equal(t, []ecs.EntityId{2, 4}, entityIds(ready))
	assert.Equal(t, []ecs.EntityId{1, 3, 5}, entityIds(queue.Pending), "waiting and over-limit requests keep their order")

	ready = battle.ProcessRespawnQueue(queue, stepAt(600), 2)
	assert.Equal(t, []ecs.EntityId{1, 5}, entityIds(ready))
}

func TestProcessRespawnQueueRequiresStep(t *testing.T) {
	assert.PanicsWithError(t, "sim: battle.ProcessRespawnQueue called without StepContext", func() {
		battle.ProcessRespawnQueue(&battle.RespawnQueue{}, nil, 1)
	})
}

func TestQueueDeaths(t *testing.T) {
	queue := &battle.RespawnQueue{}
	deaths := []battle.DeathEvent{
		{EntityId: 4, Team: battle.Blue},
		{EntityId: 9, Team: battle.Red},
	}
	loadouts := map[ecs.EntityId]string{4: "laser", 9: "rocket"}

	battle.QueueDeaths(queue, deaths, func(id ecs.EntityId) string { return loadouts[id] }, stepAt(100), 3000)

	require.Len(t, queue.Pending, 2)
	assert.Equal(t, battle.SpawnRequest{
		EntityId: 4, Team: battle.Blue, Loadout: "laser", RespawnAtMs: 3100, Token: "respawn-1-100-0",
	}, queue.Pending[0])
	assert.Equal(t, "respawn-1-100-1", queue.Pending[1].Token)
	assert.Equal(t, "rocket", queue.Pending[1].Loadout)
}

func TestRespawnSystem(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSpawnsPerStep = 2
	h := newHarness(t, cfg, &battle.RespawnSystem{})
	queue := ecs.ReadSingleton[battle.RespawnQueue](h.storage)
	for i, loadout := range []string{"gun", "laser", "rocket"} {
		queue.Pending = append(queue.Pending, battle.SpawnRequest{
			EntityId: ecs.EntityId(i + 1), Team: battle.Blue, Loadout: loadout, Token: loadout,
		})
	}

	h.steps(1)

	robots := h.storage.With(reflect.TypeFor[battle.Robot]())
	require.Equal(t, 2, robots.Len(), "throttled to two per step")
	assert.Equal(t, 1, queue.Len())

	id := robots.Ids()[0]
	assert.Equal(t, battle.Blue, ecs.ReadComponent[battle.TeamTag](h.storage, id).Team)
	assert.Equal(t, battle.Gun, ecs.ReadComponent[battle.Weapon](h.storage, id).Type)
	assert.Equal(t, id, ecs.ReadComponent[battle.Weapon](h.storage, id).OwnerId)
	assert.Equal(t, "gun", ecs.ReadComponent[battle.Key](h.storage, id).Value)
	assert.Equal(t, 2100.0, ecs.ReadComponent[battle.Invulnerable](h.storage, id).Until)

	spawn := h.rules.Teams[battle.Blue].Spawn
	pos := ecs.ReadComponent[battle.Position](h.storage, id).Vec3
	assert.InDelta(t, spawn.X, pos.X, battle.SpawnJitter)
	assert.InDelta(t, spawn.Z, pos.Z, battle.SpawnJitter)
	assert.Equal(t, spawn.Y, pos.Y)

	h.steps(1)
	assert.Equal(t, 3, robots.Len())
	assert.Equal(t, 0, queue.Len())
}

func TestRespawnQueueSystemRemovesDead(t *testing.T) {
	h := newHarness(t, testConfig())
	rules := h.rules
	blue := battle.SpawnRobot(h.storage, rules.RobotSpec(battle.Blue, "laser", at(5, 0)))
	h = newHarnessWith(t, h, inject(
		battle.DamageEvent{SourceId: 99, SourceTeam: battle.Red, TargetId: blue, Damage: 1000},
	), &battle.DamageSystem{}, &battle.RespawnQueueSystem{})

	h.steps(1)

	assert.False(t, h.storage.Exists(blue))
	queue := ecs.ReadSingleton[battle.RespawnQueue](h.storage)
	require.Equal(t, 1, queue.Len())
	assert.Equal(t, "laser", queue.Pending[0].Loadout)
	assert.Equal(t, 100+rules.RespawnDelayMs, queue.Pending[0].RespawnAtMs)
}

func TestRespawnSystemLiftsExpiredInvulnerability(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.RespawnSystem{})
	shielded := battle.SpawnRobot(h.storage, battle.RobotSpec{
		Team: battle.Red, Position: at(0, 0), MaxHealth: 100, InvulnerableUntil: 150,
	})
	typeOfInvulnerable := reflect.TypeFor[battle.Invulnerable]()

	h.steps(1)
	assert.True(t, h.storage.HasComponent(shielded, typeOfInvulnerable), "still shielded at 100ms")

	h.steps(1)
	assert.False(t, h.storage.HasComponent(shielded, typeOfInvulnerable), "lifted at 200ms")
	assert.True(t, h.storage.Exists(shielded))
}

func TestRespawnSpawnsAfterTheStepsSystems(t *testing.T) {
	seen := &robotCounter{}
	h := newHarness(t, testConfig(), &battle.RespawnSystem{}, seen)
	queue := ecs.ReadSingleton[battle.RespawnQueue](h.storage)
	queue.Pending = append(queue.Pending, battle.SpawnRequest{EntityId: 1, Team: battle.Red, Loadout: "gun", Token: "r"})

	h.steps(1)
	assert.Equal(t, []int{0}, seen.counts, "systems later in the step do not see the respawn")
	assert.Equal(t, 1, h.storage.With(reflect.TypeFor[battle.Robot]()).Len())

	h.steps(1)
	assert.Equal(t, []int{0, 1}, seen.counts)
}

type robotCounter struct {
	Robots ecs.Query[struct{ *battle.Robot }]
	counts []int
}

func (c *robotCounter) Execute(*ecs.UpdateFrame) {
	c.counts = append(c.counts, c.Robots.Len())
}
