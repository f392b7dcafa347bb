package battle

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/plus3/botarena/ai"
	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/sim"
	"go.uber.org/zap"
)

var (
	typeOfBody       = reflect.TypeFor[Body]()
	typeOfProjectile = reflect.TypeFor[Projectile]()
	typeOfBeam       = reflect.TypeFor[Beam]()

	typeOfInvulnerable = reflect.TypeFor[Invulnerable]()
)

// battleNamespace scopes battle ids derived from seeds.
var battleNamespace = uuid.MustParse("7b0c3f4e-2a61-4d38-9a1e-5c2f8e6d4b10")

type options struct {
	log     *zap.SugaredLogger
	bodies  *physics.SphereWorld
	queries physics.Queries
}

type Option func(*options)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSphereWorld gives every robot a rigid body in w and answers physics
// queries from it.
func WithSphereWorld(w *physics.SphereWorld) Option {
	return func(o *options) {
		o.bodies = w
	}
}

// WithQueries answers physics queries from q instead of the sphere world.
func WithQueries(q physics.Queries) Option {
	return func(o *options) {
		o.queries = q
	}
}

// World is one battle: storage, systems and the fixed-step driver.
type World struct {
	ID     uuid.UUID
	Config config.Battle

	Storage   *ecs.Storage
	Driver    *sim.Driver
	Scheduler *ecs.Scheduler
	Physics   physics.Queries

	bodies *physics.SphereWorld
	pause  physics.PauseManager
	log    *zap.SugaredLogger
}

// NewWorld validates cfg and assembles a battle. Teams are not spawned until
// SpawnTeams is called.
func NewWorld(cfg config.Battle, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger(o.log)

	driver, err := sim.NewDriver(cfg.Seed, cfg.Step)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	driver.SetFriendlyFire(cfg.FriendlyFire)

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry, ecs.WithLogger(log))

	w := &World{
		ID:        uuid.NewSHA1(battleNamespace, fmt.Appendf(nil, "seed/%d", cfg.Seed)),
		Config:    cfg,
		Storage:   storage,
		Driver:    driver,
		Scheduler: ecs.NewScheduler(storage, driver),
		bodies:    o.bodies,
	}
	w.log = log.With("battle", w.ID.String())

	storage.AddSingleton(Events{})
	storage.AddSingleton(NewScoreboard())
	storage.AddSingleton(RespawnQueue{})
	storage.AddSingleton(RulesFromConfig(cfg))

	switch {
	case o.queries != nil:
		w.Physics = o.queries
	case o.bodies != nil:
		w.Physics = physics.NewAdapter(o.bodies, physics.WithLogger(w.log))
	default:
		w.Physics = physics.NewAdapter(nil, physics.WithLogger(w.log))
	}
	if w.bodies != nil {
		w.attachBodies()
	}

	w.registerSystems()
	return w, nil
}

// attachBodies mirrors robots into the sphere world for their lifetime.
func (w *World) attachBodies() {
	w.Storage.OnEntityAdded(func(id ecs.EntityId) {
		robot := ecs.ReadComponent[Robot](w.Storage, id)
		pos := ecs.ReadComponent[Position](w.Storage, id)
		if robot == nil || pos == nil || w.Storage.HasComponent(id, typeOfBody) {
			return
		}
		body := w.bodies.AddBody(uint64(id), pos.Vec3, robot.Radius, 0)
		w.Storage.AddComponent(id, Body{Handle: body})
	})
	w.Storage.OnEntityRemoved(func(id ecs.EntityId) {
		w.bodies.RemoveEntity(uint64(id))
	})
}

func (w *World) registerSystems() {
	log := w.log
	w.Scheduler.Register(&ClearEventsSystem{})
	w.Scheduler.Register(&AISystem{
		Physics: w.Physics,
		Wander:  ai.NewWander(int64(w.Config.Seed)),
		Log:     log.Named("ai"),
	})
	w.Scheduler.Register(&WeaponSystem{})
	w.Scheduler.Register(&HitscanSystem{Physics: w.Physics, Log: log.Named("hitscan")})
	w.Scheduler.Register(&BeamSystem{Log: log.Named("beam")})
	w.Scheduler.Register(&ProjectileSystem{Physics: w.Physics, Log: log.Named("projectile")})
	w.Scheduler.Register(&DamageSystem{Log: log.Named("damage")})
	w.Scheduler.Register(&ScoringSystem{})
	w.Scheduler.Register(&RespawnQueueSystem{})
	w.Scheduler.Register(&RespawnSystem{Log: log.Named("respawn")})
	w.Scheduler.Register(&PhysicsSyncSystem{})
	w.Scheduler.Register(&EffectsSystem{})
	if w.bodies != nil {
		w.Scheduler.Register(&PhysicsStepSystem{World: w.bodies})
	}
}

// SpawnTeams spawns both teams as configured and returns their ids, red first.
func (w *World) SpawnTeams() []ecs.EntityId {
	rules := w.Rules()
	now := w.Driver.SimNowMs()
	ids := SpawnTeam(w.Storage, rules, Red, rules.Teams[Red].Count, now)
	ids = append(ids, SpawnTeam(w.Storage, rules, Blue, rules.Teams[Blue].Count, now)...)
	w.log.Infow("teams spawned", "red", rules.Teams[Red].Count, "blue", rules.Teams[Blue].Count)
	return ids
}

// Step advances one logical step. It returns nil without touching any state
// while paused.
func (w *World) Step() *sim.StepContext {
	if w.Paused() {
		return nil
	}
	return w.Scheduler.Once()
}

// Play steps the battle against the wall clock until ctx is done. Each step is
// the one Step would take; only how many land per tick depends on timing.
func (w *World) Play(ctx context.Context, maxStepsPerTick int) {
	w.log.Infow("battle playing", "step", w.Config.Step, "maxStepsPerTick", maxStepsPerTick)
	w.Scheduler.Run(ctx, maxStepsPerTick)
}

// AfterStep registers fn to observe the world after every step.
func (w *World) AfterStep(fn func(*sim.StepContext)) {
	w.Scheduler.AfterStep(fn)
}

// Run takes n steps.
func (w *World) Run(n int) {
	for range n {
		w.Step()
	}
}

// Pause freezes stepping and every rigid body's velocity.
func (w *World) Pause() {
	if w.bodies != nil {
		w.pause.Pause(w.bodies.RigidBodies())
	}
	w.Scheduler.Pause()
}

func (w *World) Resume() {
	w.pause.Resume()
	w.Scheduler.Resume()
}

func (w *World) Paused() bool {
	return w.Scheduler.Paused()
}

// SetFriendlyFire changes the flag injected into subsequent steps.
func (w *World) SetFriendlyFire(on bool) {
	w.Driver.SetFriendlyFire(on)
}

// Reset removes every entity, clears scores and queues and rewinds the clock.
func (w *World) Reset() error {
	w.Storage.Reset()
	if err := w.Driver.Reset(w.Config.Seed, w.Config.Step); err != nil {
		return err
	}
	w.Storage.AddSingleton(Events{})
	w.Storage.AddSingleton(NewScoreboard())
	w.Storage.AddSingleton(RespawnQueue{})
	return nil
}

func (w *World) Events() *Events {
	return ecs.ReadSingleton[Events](w.Storage)
}

func (w *World) Scoreboard() *Scoreboard {
	return ecs.ReadSingleton[Scoreboard](w.Storage)
}

func (w *World) Score(team Team) int {
	return w.Scoreboard().Score(team)
}

func (w *World) Rules() *Rules {
	return ecs.ReadSingleton[Rules](w.Storage)
}

func (w *World) RespawnQueue() *RespawnQueue {
	return ecs.ReadSingleton[RespawnQueue](w.Storage)
}
