// Command arena-viewer shows a battle in a window with a control HUD and the
// entity inspector. Space pauses, "." single-steps while paused, Q quits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/config"
	"github.com/plus3/botarena/ecs/debugui"
	debugui_ebiten "github.com/plus3/botarena/ecs/debugui/ebiten"
	"github.com/plus3/botarena/physics"
	"go.uber.org/zap"
)

const (
	screenWidth  = 1280
	screenHeight = 800
)

func main() {
	configPath := flag.String("config", "", "YAML battle configuration layered over the defaults.")
	envFile := flag.String("env", ".env", "Optional .env file with ARENA_* overrides.")
	spheres := flag.Bool("spheres", true, "Give robots rigid bodies in the sphere world.")
	inspector := flag.Bool("inspector", true, "Show the entity inspector panels.")
	flag.Parse()

	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	log := l.Sugar()
	defer log.Sync()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalw("load configuration", "error", err)
		}
	}
	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalw("load env", "error", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalw("apply env", "error", err)
	}

	opts := []battle.Option{battle.WithLogger(log)}
	if *spheres {
		opts = append(opts, battle.WithSphereWorld(physics.NewSphereWorld()))
	}
	world, err := battle.NewWorld(cfg, opts...)
	if err != nil {
		log.Fatalw("create battle", "error", err)
	}
	world.SpawnTeams()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Arena")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	overlay := debugui.NewOverlay()
	if *inspector {
		overlay = debugui.NewInspector(world.Storage, world.Scheduler, world.Paused)
	}
	h := newHUD(world, log)
	overlay.Add(h)

	game := &Game{
		world:    world,
		host:     debugui_ebiten.NewHost("Arena", screenWidth, screenHeight, overlay),
		hud:      h,
		renderer: newRenderer(world),
	}

	log.Infow("viewer starting", "battle", world.ID.String(), "seed", cfg.Seed)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalw("run viewer", "error", err)
	}
}
