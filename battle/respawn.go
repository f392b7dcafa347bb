package battle

import (
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/sim"
	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

// SpawnJitter is the half extent of the random offset around a spawn point.
const SpawnJitter = 1.5

// SpawnRequest is a pending respawn. Token is minted when the death is queued
// and becomes the Key of the respawned robot.
type SpawnRequest struct {
	EntityId    ecs.EntityId
	Team        Team
	Loadout     string
	RespawnAtMs float64
	Token       string
}

// RespawnQueue is a FIFO of spawn requests.
type RespawnQueue struct {
	Pending []SpawnRequest
}

func (q *RespawnQueue) Len() int {
	return len(q.Pending)
}

// QueueDeaths appends one request per death, due delayMs after the current
// step. loadoutOf resolves the loadout to respawn with and may be nil.
func QueueDeaths(queue *RespawnQueue, deaths []DeathEvent, loadoutOf func(ecs.EntityId) string, step *sim.StepContext, delayMs float64) {
	ids := sim.RequireIds(step, "battle.QueueDeaths")
	for _, d := range deaths {
		req := SpawnRequest{
			EntityId:    d.EntityId,
			Team:        d.Team,
			RespawnAtMs: step.SimNowMs + delayMs,
			Token:       ids.Next("respawn"),
		}
		if loadoutOf != nil {
			req.Loadout = loadoutOf(d.EntityId)
		}
		queue.Pending = append(queue.Pending, req)
	}
}

// ProcessRespawnQueue removes and returns at most maxPerStep due requests in
// FIFO order. Due requests over the limit stay queued ahead of later ones.
func ProcessRespawnQueue(queue *RespawnQueue, step *sim.StepContext, maxPerStep int) []SpawnRequest {
	if step == nil {
		panic(&sim.DeterminismError{Caller: "battle.ProcessRespawnQueue", Missing: "StepContext"})
	}
	var ready []SpawnRequest
	kept := queue.Pending[:0]
	for _, req := range queue.Pending {
		if req.RespawnAtMs <= step.SimNowMs && len(ready) < maxPerStep {
			ready = append(ready, req)
			continue
		}
		kept = append(kept, req)
	}
	clear(queue.Pending[len(kept):])
	queue.Pending = kept
	return ready
}

// RespawnQueueSystem queues a respawn for every death of the step and removes
// the dead robots.
type RespawnQueueSystem struct {
	Events ecs.Singleton[Events]
	Queue  ecs.Singleton[RespawnQueue]
	Rules  ecs.Singleton[Rules]
}

func (s *RespawnQueueSystem) Name() string { return "respawn-queue" }

func (s *RespawnQueueSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.RespawnQueueSystem")
	storage := frame.Storage
	deaths := s.Events.Get().Death
	if len(deaths) == 0 {
		return
	}

	QueueDeaths(s.Queue.Get(), deaths, func(id ecs.EntityId) string {
		if robot := ecs.ReadComponent[Robot](storage, id); robot != nil {
			return robot.Loadout
		}
		return ""
	}, step, s.Rules.Get().RespawnDelayMs)

	for _, d := range deaths {
		storage.Delete(d.EntityId)
	}
}

// RespawnSystem spawns due robots near their team's spawn point, throttled to
// MaxSpawnsPerStep, with a window of invulnerability. Spawns land when the
// step's commands flush; an expired window is taken off the robot.
type RespawnSystem struct {
	Shielded ecs.Query[struct {
		ecs.EntityId
		*Invulnerable
	}]
	Queue ecs.Singleton[RespawnQueue]
	Rules ecs.Singleton[Rules]
	Log   *zap.SugaredLogger
}

func (s *RespawnSystem) Name() string { return "respawn" }

func (s *RespawnSystem) Execute(frame *ecs.UpdateFrame) {
	step := sim.Require(frame.Step, "battle.RespawnSystem")
	rules := s.Rules.Get()

	for id, sh := range s.Shielded.Iter() {
		if step.SimNowMs >= sh.Invulnerable.Until {
			frame.Commands.RemoveComponent(id, typeOfInvulnerable)
		}
	}

	ready := ProcessRespawnQueue(s.Queue.Get(), step, rules.MaxSpawnsPerStep)
	if len(ready) == 0 {
		return
	}

	rng := streamFor(step, respawnStream, 0, "battle.RespawnSystem")
	for _, req := range ready {
		jitter := vmath.V3((2*rng.Float64()-1)*SpawnJitter, 0, (2*rng.Float64()-1)*SpawnJitter)
		at := rules.ClampToArena(rules.Teams[req.Team].Spawn.Add(jitter))

		spec := rules.RobotSpec(req.Team, req.Loadout, at)
		spec.NowMs = step.SimNowMs
		spec.InvulnerableUntil = step.SimNowMs + rules.InvulnerabilityMs
		spec.Key = req.Token
		frame.Commands.SpawnThen(func(id ecs.EntityId) {
			mountWeapon(frame.Storage, id)
			logger(s.Log).Debugw("robot respawned", "entity", id, "replaces", req.EntityId, "team", req.Team, "frame", step.FrameCount)
		}, spec.components()...)
	}
}
