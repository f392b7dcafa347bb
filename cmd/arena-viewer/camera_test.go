package main

import (
	"image/color"
	"testing"

	"github.com/plus3/botarena/vmath"
	"github.com/stretchr/testify/assert"
)

func TestCameraFitCentresArena(t *testing.T) {
	var c camera
	c.fit(vmath.Vec3{X: -50, Z: -50}, vmath.Vec3{X: 50, Z: 50}, 848, 648)

	assert.InDelta(t, 6.0, c.scale, 1e-9)

	x, y := c.project(vmath.Vec3{})
	assert.InDelta(t, 424, x, 1e-3)
	assert.InDelta(t, 324, y, 1e-3)

	x, y = c.project(vmath.Vec3{X: -50, Z: -50})
	assert.InDelta(t, 124, x, 1e-3)
	assert.InDelta(t, 24, y, 1e-3)

	assert.InDelta(t, 3.6, c.length(0.6), 1e-5)
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{0xe5, 0x48, 0x4d, 0xff}, parseHexColor("#e5484d"))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, parseHexColor("red"))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, parseHexColor("#zzzzzz"))
}

func TestFadePremultiplies(t *testing.T) {
	assert.Equal(t, color.RGBA{50, 25, 0, 127}, fade(color.RGBA{100, 50, 0, 255}, 0.5))
	assert.Equal(t, color.RGBA{}, fade(color.RGBA{100, 50, 0, 255}, -1))
}
