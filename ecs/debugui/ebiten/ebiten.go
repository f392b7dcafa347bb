// Package ebiten hosts debugui panels inside an Ebiten game loop.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/botarena/ecs/debugui"
)

// Host owns the Dear ImGui backend and renders an Overlay once per Update.
type Host struct {
	*ebitenbackend.EbitenBackend
	Overlay *debugui.Overlay
}

// NewHost creates the backend window. overlay may be nil and set later.
func NewHost(title string, width, height int, overlay *debugui.Overlay) *Host {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	if overlay == nil {
		overlay = debugui.NewOverlay()
	}
	return &Host{EbitenBackend: backend, Overlay: overlay}
}

// Frame brackets one ImGui frame: the overlay renders first, then extra, which
// may be nil.
func (h *Host) Frame(extra func()) {
	h.BeginFrame()
	h.Overlay.Render()
	if extra != nil {
		extra()
	}
	h.EndFrame()
}

// CapturesMouse reports whether the last frame's ImGui windows wanted the
// mouse, so game input handlers can ignore it.
func (h *Host) CapturesMouse() bool {
	return h.Overlay.Input.WantCaptureMouse
}

// DrawOver draws the ImGui frame on top of screen.
func (h *Host) DrawOver(screen *ebiten.Image) {
	h.Draw(screen)
}
