package ai

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/plus3/botarena/vmath"
)

// Wander produces smooth patrol headings from seeded Perlin noise. The
// heading depends only on the seed, the agent and the logical time.
type Wander struct {
	noise *perlin.Perlin
}

func NewWander(seed int64) *Wander {
	return &Wander{noise: perlin.NewPerlin(2, 2, 3, seed)}
}

// Heading returns a unit vector on the XZ plane.
func (w *Wander) Heading(agent uint64, nowMs float64) vmath.Vec3 {
	n := w.noise.Noise2D(float64(agent)*0.731, nowMs/4000)
	s, c := math.Sincos(n * 2 * math.Pi)
	return vmath.V3(c, 0, s)
}
