package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/botarena/battle"
	"github.com/plus3/botarena/ecs"
	"github.com/plus3/botarena/vmath"
)

// cell is one character of the arena picture.
type cell struct {
	r     rune
	style tcell.Style
}

// grid rasterises the arena's X/Z plane into w x h cells. Later layers
// overwrite earlier ones: beams, rockets, fx, robots.
type grid struct {
	w, h     int
	min, max vmath.Vec3
	cells    []cell
}

func newGrid(w, h int, min, max vmath.Vec3) *grid {
	g := &grid{w: w, h: h, min: min, max: max, cells: make([]cell, w*h)}
	g.clear()
	return g
}

func (g *grid) clear() {
	for i := range g.cells {
		g.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
}

// cellOf maps a point to a cell, reporting false outside the grid.
func (g *grid) cellOf(p vmath.Vec3) (int, int, bool) {
	if g.w == 0 || g.h == 0 {
		return 0, 0, false
	}
	fx := (p.X - g.min.X) / (g.max.X - g.min.X)
	fz := (p.Z - g.min.Z) / (g.max.Z - g.min.Z)
	x := int(fx * float64(g.w))
	y := int(fz * float64(g.h))
	if x == g.w {
		x--
	}
	if y == g.h {
		y--
	}
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0, 0, false
	}
	return x, y, true
}

func (g *grid) set(p vmath.Vec3, r rune, style tcell.Style) {
	if x, y, ok := g.cellOf(p); ok {
		g.cells[y*g.w+x] = cell{r: r, style: style}
	}
}

func (g *grid) at(x, y int) cell {
	return g.cells[y*g.w+x]
}

// line plots a segment by sampling it once per half cell.
func (g *grid) line(from, to vmath.Vec3, r rune, style tcell.Style) {
	cellSize := min((g.max.X-g.min.X)/float64(g.w), (g.max.Z-g.min.Z)/float64(g.h))
	n := int(from.Dist(to)/(cellSize/2)) + 1
	for i := 0; i <= n; i++ {
		g.set(from.Lerp(to, float64(i)/float64(n)), r, style)
	}
}

func teamStyle(team battle.Team) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(battle.TeamColor(team)))
}

type robotView struct {
	*battle.Position
	*battle.TeamTag
	*battle.Health
	*battle.Robot
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

// views holds the typed views the rasteriser reads.
type views struct {
	robots      *ecs.View[robotView]
	projectiles *ecs.View[projectileView]
	beams       *ecs.View[beamView]
	fx          *ecs.View[fxView]
}

func newViews(storage *ecs.Storage) views {
	return views{
		robots:      ecs.NewView[robotView](storage),
		projectiles: ecs.NewView[projectileView](storage),
		beams:       ecs.NewView[beamView](storage),
		fx:          ecs.NewView[fxView](storage),
	}
}

// robotGlyph picks a rune by loadout initial, lowercase when badly hurt.
func robotGlyph(loadout string, healthFrac float64) rune {
	r := 'R'
	if loadout != "" {
		r = rune(loadout[0])
	}
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if healthFrac < 0.35 && r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	return r
}

func (g *grid) paint(v views) {
	g.clear()
	for b := range v.beams.Values() {
		g.line(b.Origin, b.Origin.Add(b.Direction.Scale(b.Length)), '·', teamStyle(b.Team))
	}
	rocket := tcell.StyleDefault.Foreground(tcell.ColorOrange)
	for p := range v.projectiles.Values() {
		g.set(p.Position.Vec3, '*', rocket)
	}
	for f := range v.fx.Values() {
		r := '+'
		if f.Type == battle.FxExplosion {
			r = '#'
		}
		g.set(f.Position.Vec3, r, tcell.StyleDefault.Foreground(tcell.GetColor(f.Color)))
	}
	for r := range v.robots.Values() {
		frac := 1.0
		if r.Health.Max > 0 {
			frac = r.Health.Current / r.Health.Max
		}
		g.set(r.Position.Vec3, robotGlyph(r.Robot.Loadout, frac), teamStyle(r.TeamTag.Team).Bold(true))
	}
}
