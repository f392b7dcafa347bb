package ai_test

import (
	"testing"

	"github.com/plus3/botarena/ai"
	"github.com/stretchr/testify/assert"
)

func TestWanderIsSeeded(t *testing.T) {
	a := ai.NewWander(9)
	b := ai.NewWander(9)

	for _, now := range []float64{0, 250, 1000, 7300} {
		ha := a.Heading(4, now)
		assert.Equal(t, ha, b.Heading(4, now))
		assert.InDelta(t, 1.0, ha.Len(), 1e-9)
		assert.Zero(t, ha.Y)
	}
}
