package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/physics"
	"github.com/plus3/botarena/sim"
	"go.uber.org/zap"
)

var typeOfRobot = reflect.TypeFor[battle.Robot]()

// maxStepsPerTick bounds how far a realtime run catches up after a stall.
const maxStepsPerTick = 5

var errDiverged = errors.New("arena: runs with the same seed diverged")

type runOptions struct {
	Steps   int
	Samples int
	// Spheres gives robots rigid bodies in a SphereWorld instead of answering
	// physics queries geometrically.
	Spheres bool
	// Realtime paces steps against the wall clock instead of running them
	// back to back. The trace is the same either way.
	Realtime bool
	Trace    io.Writer
	Log      *zap.SugaredLogger
}

// Leader is one row of the kill table.
type Leader struct {
	Id    ecs.EntityId
	Kills int
}

// Result is everything a batch run reports.
type Result struct {
	BattleID    string
	Seed        uint64
	Steps       int
	SimSeconds  float64
	WallTime    time.Duration
	StepTime    Stats
	Red, Blue   int
	RedDeaths   int
	BlueDeaths  int
	Shots       int
	Hits        int
	Alive       int
	Pending     int
	Leaders     []Leader
	Records     int
	Digest      uint64
	Fingerprint uint64
}

func runBattle(cfg config.Battle, opts runOptions) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	worldOpts := []battle.Option{battle.WithLogger(log)}
	if opts.Spheres {
		worldOpts = append(worldOpts, battle.WithSphereWorld(physics.NewSphereWorld()))
	}

	w, err := battle.NewWorld(cfg, worldOpts...)
	if err != nil {
		return nil, err
	}
	w.SpawnTeams()

	trace := opts.Trace
	if trace == nil {
		trace = io.Discard
	}
	rec := sim.NewRecorder(trace, opts.Samples)

	res := &Result{
		BattleID: w.ID.String(),
		Seed:     cfg.Seed,
		Steps:    opts.Steps,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recordErr error
	last := time.Now()
	w.AfterStep(func(step *sim.StepContext) {
		if recordErr != nil {
			return
		}
		now := time.Now()
		res.StepTime.Samples = append(res.StepTime.Samples, now.Sub(last))
		last = now

		events := w.Events()
		res.Shots += len(events.WeaponFired)
		res.Hits += len(events.Damage)
		for _, d := range events.Death {
			log.Debugw("robot destroyed",
				"frame", step.FrameCount,
				"simNowMs", step.SimNowMs,
				"victim", d.EntityId,
				"team", d.Team,
				"killer", d.KillerId,
			)
		}

		fp, err := w.Fingerprint()
		if err != nil {
			recordErr = fmt.Errorf("fingerprint frame %d: %w", step.FrameCount, err)
		} else if err := rec.Record(step, fp); err != nil {
			recordErr = fmt.Errorf("record frame %d: %w", step.FrameCount, err)
		}
		res.Fingerprint = fp
		if recordErr != nil || step.FrameCount >= uint64(opts.Steps) {
			cancel()
		}
	})

	started := time.Now()
	if opts.Realtime {
		if opts.Steps > 0 {
			w.Play(ctx, maxStepsPerTick)
		}
	} else {
		for range opts.Steps {
			if ctx.Err() != nil {
				break
			}
			w.Step()
		}
	}
	if recordErr != nil {
		return nil, recordErr
	}
	res.WallTime = time.Since(started)
	res.StepTime.Finalize()

	board := w.Scoreboard()
	res.SimSeconds = w.Driver.SimNowMs() / 1000
	res.Red, res.Blue = board.Score(battle.Red), board.Score(battle.Blue)
	res.RedDeaths, res.BlueDeaths = board.Deaths[battle.Red], board.Deaths[battle.Blue]
	res.Alive = w.Storage.With(typeOfRobot).Len()
	res.Pending = w.RespawnQueue().Len()
	for _, id := range board.Leaders() {
		res.Leaders = append(res.Leaders, Leader{Id: id, Kills: board.Kills[id]})
	}
	res.Records = rec.Len()
	res.Digest = rec.Digest()
	return res, nil
}

// verify runs the battle twice from scratch and compares trace digests.
func verify(cfg config.Battle, opts runOptions) (first, second *Result, err error) {
	opts.Trace = nil
	if first, err = runBattle(cfg, opts); err != nil {
		return nil, nil, err
	}
	if second, err = runBattle(cfg, opts); err != nil {
		return nil, nil, err
	}
	if first.Digest != second.Digest {
		return first, second, fmt.Errorf("%w: digest %016x != %016x", errDiverged, first.Digest, second.Digest)
	}
	return first, second, nil
}
