package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreHistoryOrdersOldestFirst(t *testing.T) {
	h := newScoreHistory(3)
	h.add(1, 0)
	h.add(2, 1)
	assert.Equal(t, []float32{1, 2}, h.ordered(h.red))

	h.add(3, 1)
	h.add(4, 2)
	assert.Equal(t, []float32{2, 3, 4}, h.ordered(h.red))
	assert.Equal(t, []float32{1, 1, 2}, h.ordered(h.blue))

	h.reset()
	assert.Empty(t, h.ordered(h.red))
}
