// Command arena-tui renders a running battle in the terminal.
//
// Keys: space pauses, "." steps once while paused, f toggles friendly fire,
// r resets the battle, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/config"
	"go.uber.org/zap"
)

const statusLines = 2

type App struct {
	screen tcell.Screen
	world  *battle.World
	views  views
	grid   *grid
	log    *zap.SugaredLogger

	friendlyFire bool
}

func NewApp(world *battle.World, log *zap.SugaredLogger) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &App{
		screen:       screen,
		world:        world,
		views:        newViews(world.Storage),
		log:          log,
		friendlyFire: world.Config.FriendlyFire,
	}
	a.handleResize()
	return a, nil
}

func (a *App) handleResize() {
	w, h := a.screen.Size()
	rules := a.world.Rules()
	a.grid = newGrid(w, max(h-statusLines, 1), rules.ArenaMin, rules.ArenaMax)
}

// handleKey applies one key press and reports whether to keep running.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		if a.world.Paused() {
			a.world.Resume()
		} else {
			a.world.Pause()
		}
	case '.':
		if a.world.Paused() {
			a.world.Resume()
			a.world.Step()
			a.world.Pause()
		}
	case 'f':
		a.friendlyFire = !a.friendlyFire
		a.world.SetFriendlyFire(a.friendlyFire)
	case 'r':
		if err := a.world.Reset(); err != nil {
			a.log.Errorw("reset battle", "error", err)
			return false
		}
		a.world.SetFriendlyFire(a.friendlyFire)
		a.world.SpawnTeams()
	}
	return true
}

func (a *App) draw() {
	a.screen.Clear()
	a.grid.paint(a.views)
	for y := range a.grid.h {
		for x := range a.grid.w {
			c := a.grid.at(x, y)
			a.screen.SetContent(x, y, c.r, nil, c.style)
		}
	}
	a.drawText(0, a.grid.h, statusLine(a.world, a.friendlyFire), tcell.StyleDefault.Reverse(true))
	a.drawText(0, a.grid.h+1, "space pause  . step  f friendly fire  r reset  q quit", tcell.StyleDefault.Dim(true))
	a.screen.Show()
}

func (a *App) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func statusLine(w *battle.World, ff bool) string {
	state := "running"
	if w.Paused() {
		state = "PAUSED"
	}
	return fmt.Sprintf(" frame %-6d %6.1fs  red %d  blue %d  respawning %d  ff %v  %s ",
		w.Driver.FrameCount(), w.Driver.SimNowMs()/1000,
		w.Score(battle.Red), w.Score(battle.Blue), w.RespawnQueue().Len(), ff, state)
}

// run steps the battle once per tick of the configured step length and
// redraws after every step or event.
func (a *App) run() {
	ticker := time.NewTicker(time.Duration(a.world.Driver.Step() * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
				a.handleResize()
			}
			a.draw()

		case <-ticker.C:
			a.world.Step()
			a.draw()
		}
	}
}

func (a *App) cleanup() {
	a.screen.Fini()
}

func main() {
	configPath := flag.String("config", "", "YAML battle configuration layered over the defaults.")
	envFile := flag.String("env", ".env", "Optional .env file with ARENA_* overrides.")
	logPath := flag.String("log", "arena-tui.log", "Log file; the terminal belongs to the arena.")
	flag.Parse()

	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{*logPath}
	logCfg.ErrorOutputPaths = []string{*logPath}
	l, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	log := l.Sugar()
	defer log.Sync()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "load env: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "apply environment: %v\n", err)
		os.Exit(1)
	}

	world, err := battle.NewWorld(cfg, battle.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create battle: %v\n", err)
		os.Exit(1)
	}
	world.SpawnTeams()

	app, err := NewApp(world, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.cleanup()

	app.run()
}
