package sim

import "math/rand/v2"

// pcgStream separates the PCG stream selector from the seed itself.
const pcgStream = 0x5851f42d4c957f2d

// RNG is a seeded pseudo-random source. A fresh RNG is built for every logical
// step, so the values a system draws depend only on the base seed, the frame
// number and the order of draws within that step.
type RNG struct {
	seed uint64
	r    *rand.Rand
}

// NewRNG returns a generator for the given seed. math/rand/v2's PCG output is
// specified, so sequences are stable across Go releases.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, Mix(seed, pcgStream))),
	}
}

// Float64 returns a value in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Intn returns a value in [0, n). n must be positive.
func (g *RNG) Intn(n int) int {
	return g.r.IntN(n)
}

// Seed returns the seed this generator was built from.
func (g *RNG) Seed() uint64 {
	return g.seed
}

// Derive returns an independent generator keyed by key. The derived stream
// depends on this generator's seed only, not on how many values were drawn from
// it, so per-weapon or per-agent draws stay reproducible when unrelated systems
// consume more or fewer values.
func (g *RNG) Derive(key uint64) *RNG {
	return NewRNG(Mix(g.seed, key))
}

// Mix combines two 64-bit values into a well distributed 64-bit seed.
func Mix(a, b uint64) uint64 {
	x := a ^ (b + 0x9e3779b97f4a7c15 + (a << 6) + (a >> 2))
	return avalanche(x)
}

// avalanche is the splitmix64 finalizer.
func avalanche(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
