// Command arena runs a battle headless for a fixed number of steps, prints a
// report and optionally writes a msgpack step trace or checks that two runs
// with the same seed produce the same trace.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/plus3/botarena/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML battle configuration layered over the defaults.")
	envFile := flag.String("env", ".env", "Optional .env file with ARENA_* overrides.")
	steps := flag.Int("steps", 3600, "Number of fixed steps to simulate.")
	samples := flag.Int("samples", 4, "RNG samples recorded per step in the trace.")
	tracePath := flag.String("trace", "", "Write the msgpack step trace to this file.")
	spheres := flag.Bool("spheres", false, "Give robots rigid bodies in the sphere world.")
	realtime := flag.Bool("realtime", false, "Pace steps against the wall clock.")
	doVerify := flag.Bool("verify", false, "Run twice and fail if the traces differ.")
	top := flag.Int("top", 5, "Robots listed in the kill table.")
	jsonLogs := flag.Bool("json", false, "Log JSON instead of console output.")
	flag.Parse()

	log, err := newLogger(*jsonLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		log.Fatalw("load configuration", "error", err)
	}

	opts := runOptions{
		Steps:    *steps,
		Samples:  *samples,
		Spheres:  *spheres,
		Realtime: *realtime,
		Log:      log,
	}

	log.Infow("battle starting", "seed", cfg.Seed, "steps", *steps, "step", cfg.Step, "friendlyFire", cfg.FriendlyFire)

	report := &Report{TopN: *top}
	if *doVerify {
		first, second, err := verify(cfg, opts)
		if errors.Is(err, errDiverged) {
			log.Errorw("determinism check failed", "error", err)
			os.Exit(2)
		}
		if err != nil {
			log.Fatalw("run battle", "error", err)
		}
		report.Result, report.Second, report.Verified = first, second, true
	} else {
		if *tracePath != "" {
			f, err := os.Create(*tracePath)
			if err != nil {
				log.Fatalw("create trace file", "path", *tracePath, "error", err)
			}
			defer f.Close()
			opts.Trace = f
		}
		res, err := runBattle(cfg, opts)
		if err != nil {
			log.Fatalw("run battle", "error", err)
		}
		report.Result = res
	}

	log.Infow("battle finished", "battle", report.BattleID, "red", report.Red, "blue", report.Blue, "wallTime", report.WallTime)

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalw("generate report", "error", err)
	}
}

func newLogger(json bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if json {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// loadConfig layers the YAML file (if any), the .env file and the process
// environment over the defaults.
func loadConfig(path, envFile string) (config.Battle, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnv(envFile); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
