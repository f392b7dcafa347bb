package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/botarena/battle"
	debugui_ebiten "github.com/plus3/botarena/ecs/debugui/ebiten"
)

// maxStepsPerTick bounds catch-up after a slow frame.
const maxStepsPerTick = 4

// Game paces the fixed-step battle against Ebiten's tick rate and draws it
// with the ImGui overlay on top.
type Game struct {
	world    *battle.World
	host     *debugui_ebiten.Host
	hud      *hud
	renderer *renderer

	// backlog is unsimulated wall time in seconds.
	backlog float64
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !g.host.Overlay.Input.WantCaptureKeyboard {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.hud.togglePause()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && g.world.Paused() {
			g.hud.stepRequests++
		}
	}

	if g.world.Paused() {
		g.backlog = 0
		g.stepWhilePaused(g.hud.takeStepRequests())
	} else {
		g.backlog += 1.0 / float64(ebiten.TPS())
		step := g.world.Driver.Step()
		for n := 0; g.backlog >= step && n < maxStepsPerTick; n++ {
			g.world.Step()
			g.hud.sample()
			g.backlog -= step
		}
		if g.backlog > step*maxStepsPerTick {
			g.backlog = 0
		}
	}

	g.host.Frame(nil)
	return nil
}

// stepWhilePaused advances n single steps with the bodies frozen around them.
func (g *Game) stepWhilePaused(n int) {
	for range n {
		g.world.Resume()
		g.world.Step()
		g.world.Pause()
		g.hud.sample()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.draw(screen)
	g.host.DrawOver(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.host.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
