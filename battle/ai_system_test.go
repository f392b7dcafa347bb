package battle_test

import (
	"testing"

	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAISystemEngagesVisibleEnemy(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.AISystem{Physics: physics.NewAdapter(nil)})
	red := h.robot(battle.Red, at(0, 0), gun())
	blue := h.robot(battle.Blue, at(10, 0), nil)

	h.steps(1)

	agent := ecs.ReadComponent[battle.AI](h.storage, red)
	assert.Equal(t, ai.Engage, agent.State)
	assert.Equal(t, blue, agent.TargetId)
	assert.Equal(t, 100.0, agent.StateSince)
	assert.Equal(t, ai.Engage, agent.Machine.Current())
	assert.True(t, ecs.ReadComponent[battle.WeaponState](h.storage, red).Firing)
}

func TestAISystemBlockedSight(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.AISystem{})
	red := h.robot(battle.Red, at(0, 0), gun())
	h.robot(battle.Red, at(5, 0), nil)
	h.robot(battle.Blue, at(10, 0), nil)

	h.steps(1)

	agent := ecs.ReadComponent[battle.AI](h.storage, red)
	assert.NotEqual(t, ai.Engage, agent.State)
	assert.False(t, ecs.ReadComponent[battle.WeaponState](h.storage, red).Firing)
}

func TestAISystemFlees(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.AISystem{})
	red := h.robot(battle.Red, at(0, 0), gun())
	h.robot(battle.Blue, at(10, 0), nil)
	ecs.ReadComponent[battle.Health](h.storage, red).Apply(80)

	h.steps(1)

	agent := ecs.ReadComponent[battle.AI](h.storage, red)
	require.Equal(t, ai.Flee, agent.State)
	vel := ecs.ReadComponent[battle.Velocity](h.storage, red)
	assert.Less(t, vel.X, 0.0, "runs away from the enemy")
	assert.InDelta(t, 4.0, vel.Len(), 1e-9)
}

func TestAISystemSkipsDead(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.AISystem{})
	red := h.robot(battle.Red, at(0, 0), gun())
	h.robot(battle.Blue, at(10, 0), nil)
	ecs.ReadComponent[battle.Health](h.storage, red).Apply(1000)

	h.steps(1)

	assert.Equal(t, ai.Idle, ecs.ReadComponent[battle.AI](h.storage, red).State)
}

func TestAISystemDeterministic(t *testing.T) {
	run := func() []ai.State {
		cfg := testConfig()
		cfg.Seed = 11
		h := newHarness(t, cfg, &battle.AISystem{Wander: ai.NewWander(11)}, &battle.PhysicsSyncSystem{})
		var ids []ecs.EntityId
		for i := range 4 {
			ids = append(ids, h.robot(battle.Red, at(float64(i)*3, 0), gun()))
		}
		h.steps(100)
		var states []ai.State
		for _, id := range ids {
			states = append(states, ecs.ReadComponent[battle.AI](h.storage, id).State)
		}
		return states
	}
	assert.Equal(t, run(), run())
}

func TestAISystemRevertsIllegalStateEdit(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := newHarness(t, testConfig(), &battle.AISystem{Log: zap.New(core).Sugar()})
	red := h.robot(battle.Red, at(0, 0), gun())
	h.robot(battle.Blue, at(10, 0), nil)
	ecs.ReadComponent[battle.Health](h.storage, red).Apply(80)

	h.steps(1)
	agent := ecs.ReadComponent[battle.AI](h.storage, red)
	require.Equal(t, ai.Flee, agent.State)

	agent.State = ai.Engage
	h.steps(1)

	assert.Equal(t, ai.Flee, agent.State)
	assert.Equal(t, ai.Flee, agent.Machine.Current())
	assert.Equal(t, 100.0, agent.StateSince, "a reverted edit does not restart the state")

	rejected := logs.FilterMessage("ai state edit rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, uint64(2), rejected[0].ContextMap()["frame"])
}

func TestAISystemAcceptsLegalStateEdit(t *testing.T) {
	h := newHarness(t, testConfig(), &battle.AISystem{})
	red := h.robot(battle.Red, at(0, 0), gun())

	agent := ecs.ReadComponent[battle.AI](h.storage, red)
	agent.State = ai.Patrol
	h.steps(1)

	assert.Equal(t, ai.Patrol, agent.State)
	assert.Equal(t, ai.Patrol, agent.Machine.Current(), "the machine follows a legal edit")
	assert.Equal(t, 100.0, agent.StateSince)
}
