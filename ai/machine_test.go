package ai_test

import (
	"context"
	"testing"

	"github.com/plus3/botarena/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineTransitions(t *testing.T) {
	ctx := context.Background()
	m := ai.NewMachine(ai.Idle)

	require.NoError(t, m.Transition(ctx, ai.Patrol))
	require.NoError(t, m.Transition(ctx, ai.Engage))
	require.NoError(t, m.Transition(ctx, ai.Engage), "staying put is always allowed")
	require.NoError(t, m.Transition(ctx, ai.Flee))
	assert.Equal(t, ai.Flee, m.Current())

	assert.False(t, m.Can(ai.Engage))
	assert.Error(t, m.Transition(ctx, ai.Patrol))
	assert.Equal(t, ai.Flee, m.Current(), "illegal transitions leave the state untouched")

	require.NoError(t, m.Transition(ctx, ai.Idle))
	assert.True(t, m.Can(ai.Flee))
}
