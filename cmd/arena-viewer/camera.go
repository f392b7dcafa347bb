package main

import (
	"image/color"
	"strconv"

	"github.com/plus3/botarena/vmath"
)

// camera maps the arena's X/Z plane onto the screen, looking down the Y axis.
type camera struct {
	min, max vmath.Vec3
	scale    float64
	offX     float64
	offY     float64
}

const cameraMargin = 24

// fit scales the arena to the largest size that fits w x h with a margin,
// centred.
func (c *camera) fit(min, max vmath.Vec3, w, h int) {
	c.min, c.max = min, max
	spanX := max.X - min.X
	spanZ := max.Z - min.Z
	availW := float64(w) - 2*cameraMargin
	availH := float64(h) - 2*cameraMargin
	c.scale = availW / spanX
	if s := availH / spanZ; s < c.scale {
		c.scale = s
	}
	if c.scale <= 0 {
		c.scale = 1
	}
	c.offX = (float64(w) - spanX*c.scale) / 2
	c.offY = (float64(h) - spanZ*c.scale) / 2
}

func (c *camera) project(p vmath.Vec3) (float32, float32) {
	return float32((p.X-c.min.X)*c.scale + c.offX), float32((p.Z-c.min.Z)*c.scale + c.offY)
}

func (c *camera) length(d float64) float32 {
	return float32(d * c.scale)
}

// parseHexColor reads "#rrggbb". Anything else yields opaque white.
func parseHexColor(s string) color.RGBA {
	white := color.RGBA{255, 255, 255, 255}
	if len(s) != 7 || s[0] != '#' {
		return white
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return white
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func fade(c color.RGBA, alpha float64) color.RGBA {
	alpha = min(max(alpha, 0), 1)
	// vector drawing takes premultiplied colours
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
