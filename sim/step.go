// Package sim holds the deterministic inputs of the battle simulation: a
// fixed-step logical clock, a per-step seeded random source and a per-step id
// factory, bundled as a StepContext.
//
// Nothing downstream of a StepContext may read the wall clock or an unseeded
// random source.
package sim

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidStep is returned when a driver is configured with a non-positive step.
var ErrInvalidStep = errors.New("sim: step must be positive")

// StepContext is the immutable bundle of deterministic inputs for one logical tick.
type StepContext struct {
	FrameCount uint64
	SimNowMs   float64
	// Step is the fixed step length in seconds.
	Step float64
	RNG  *RNG
	Ids  *IdFactory
	// FriendlyFire is injected per step by the orchestrator; gameplay systems
	// read it from here and nowhere else.
	FriendlyFire bool
}

// Rand draws the next value from the step's seeded source.
func (c *StepContext) Rand() float64 {
	return RequireRNG(c, "StepContext.Rand").Float64()
}

// IdFactory deterministically mints string ids scoped to a single step.
type IdFactory struct {
	frame uint64
	nowMs float64
	seq   uint64
}

// NewIdFactory returns a factory for the given step coordinates.
func NewIdFactory(frame uint64, simNowMs float64) *IdFactory {
	return &IdFactory{frame: frame, nowMs: simNowMs}
}

// Next returns "<kind>-<frame>-<simNowMs>-<seq>" and advances the sequence.
func (f *IdFactory) Next(kind string) string {
	id := fmt.Sprintf("%s-%d-%s-%d", kind, f.frame, strconv.FormatFloat(f.nowMs, 'f', -1, 64), f.seq)
	f.seq++
	return id
}

// Issued returns how many ids were minted so far.
func (f *IdFactory) Issued() uint64 {
	return f.seq
}

// Driver advances the logical clock in fixed increments.
type Driver struct {
	seed         uint64
	step         float64
	frame        uint64
	friendlyFire bool
}

// NewDriver creates a driver for the given base seed and step length in seconds.
func NewDriver(seed uint64, step float64) (*Driver, error) {
	d := &Driver{}
	if err := d.Reset(seed, step); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset reinitializes the driver with a new seed and step and zeroes all counters.
func (d *Driver) Reset(seed uint64, step float64) error {
	if !(step > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidStep, step)
	}
	d.seed = seed
	d.step = step
	d.frame = 0
	return nil
}

// StepOnce advances one logical step and returns its context. The RNG is
// rebuilt from (seed, frame) on every call, so two drivers constructed with the
// same seed and step produce identical contexts when stepped the same number of
// times.
func (d *Driver) StepOnce() *StepContext {
	d.frame++
	now := d.SimNowMs()
	return &StepContext{
		FrameCount:   d.frame,
		SimNowMs:     now,
		Step:         d.step,
		RNG:          NewRNG(Mix(d.seed, d.frame)),
		Ids:          NewIdFactory(d.frame, now),
		FriendlyFire: d.friendlyFire,
	}
}

// SetFriendlyFire sets the value injected into subsequent step contexts.
func (d *Driver) SetFriendlyFire(on bool) {
	d.friendlyFire = on
}

func (d *Driver) FriendlyFire() bool {
	return d.friendlyFire
}

func (d *Driver) Seed() uint64 {
	return d.seed
}

func (d *Driver) Step() float64 {
	return d.step
}

func (d *Driver) FrameCount() uint64 {
	return d.frame
}

// SimNowMs is derived from the frame count rather than accumulated, so it does
// not drift with the number of steps taken.
func (d *Driver) SimNowMs() float64 {
	return float64(d.frame) * d.step * 1000
}
