package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/ecs"
)

var (
	backgroundColor = color.RGBA{18, 20, 24, 255}
	arenaColor      = color.RGBA{28, 32, 38, 255}
	arenaEdgeColor  = color.RGBA{70, 76, 88, 255}
	rocketColor     = color.RGBA{255, 170, 60, 255}
	healthBackColor = color.RGBA{100, 100, 100, 255}
	healthColor     = color.RGBA{100, 200, 100, 255}
)

type robotView struct {
	*battle.Position
	*battle.TeamTag
	*battle.Health
	*battle.Robot
	Invulnerable *battle.Invulnerable `ecs:"optional"`
}

type projectileView struct {
	*battle.Position
	*battle.Projectile
}

type beamView struct {
	*battle.Beam
}

type fxView struct {
	*battle.Position
	*battle.Fx
}

// renderer draws a top-down picture of a battle from its storage.
type renderer struct {
	world       *battle.World
	cam         camera
	robots      *ecs.View[robotView]
	projectiles *ecs.View[projectileView]
	beams       *ecs.View[beamView]
	fx          *ecs.View[fxView]
}

func newRenderer(world *battle.World) *renderer {
	return &renderer{
		world:       world,
		robots:      ecs.NewView[robotView](world.Storage),
		projectiles: ecs.NewView[projectileView](world.Storage),
		beams:       ecs.NewView[beamView](world.Storage),
		fx:          ecs.NewView[fxView](world.Storage),
	}
}

func (r *renderer) draw(screen *ebiten.Image) {
	rules := r.world.Rules()
	bounds := screen.Bounds()
	r.cam.fit(rules.ArenaMin, rules.ArenaMax, bounds.Dx(), bounds.Dy())

	screen.Fill(backgroundColor)
	x0, y0 := r.cam.project(rules.ArenaMin)
	x1, y1 := r.cam.project(rules.ArenaMax)
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, arenaColor, false)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, arenaEdgeColor, false)

	now := r.world.Driver.SimNowMs()

	for b := range r.beams.Values() {
		end := b.Origin.Add(b.Direction.Scale(b.Length))
		sx, sy := r.cam.project(b.Origin)
		ex, ey := r.cam.project(end)
		c := parseHexColor(battle.TeamColor(b.Team))
		vector.StrokeLine(screen, sx, sy, ex, ey, max(r.cam.length(b.Width), 1), fade(c, 0.8), true)
	}

	for p := range r.projectiles.Values() {
		sx, sy := r.cam.project(p.Position.Vec3)
		vector.DrawFilledCircle(screen, sx, sy, max(r.cam.length(battle.ProjectileRadius), 2), rocketColor, true)
	}

	for robot := range r.robots.Values() {
		r.drawRobot(screen, robot, now)
	}

	for f := range r.fx.Values() {
		life := 1.0
		if f.TTL > 0 {
			life = 1 - f.Age/f.TTL
		}
		sx, sy := r.cam.project(f.Position.Vec3)
		radius := r.cam.length(f.Size * (1.5 - life/2))
		vector.DrawFilledCircle(screen, sx, sy, radius, fade(parseHexColor(f.Color), life*0.7), true)
	}
}

func (r *renderer) drawRobot(screen *ebiten.Image, robot robotView, now float64) {
	sx, sy := r.cam.project(robot.Position.Vec3)
	radius := max(r.cam.length(robot.Robot.Radius), 3)

	c := parseHexColor(battle.TeamColor(robot.TeamTag.Team))
	if robot.Invulnerable != nil && now < robot.Invulnerable.Until {
		c = fade(c, 0.5)
	}
	vector.DrawFilledCircle(screen, sx, sy, radius, c, true)

	if robot.Health.Max <= 0 {
		return
	}
	const barHeight = 3
	barWidth := radius * 2
	healthPct := float32(robot.Health.Current / robot.Health.Max)
	vector.DrawFilledRect(screen, sx-barWidth/2, sy-radius-barHeight-3, barWidth, barHeight, healthBackColor, false)
	vector.DrawFilledRect(screen, sx-barWidth/2, sy-radius-barHeight-3, barWidth*healthPct, barHeight, healthColor, false)
}
