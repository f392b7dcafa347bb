// Package debugui provides Dear ImGui inspection panels for an ecs.Storage.
// Panels only read simulation state unless editing is explicitly enabled, and
// none of them stores anything in the storage they inspect.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/botarena/ecs"
)

// Panel is one ImGui window.
type Panel interface {
	Render()
}

// PanelFunc adapts a plain function to Panel.
type PanelFunc func()

func (f PanelFunc) Render() { f() }

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay renders a set of panels once per rendered frame.
type Overlay struct {
	Input  InputState
	panels []Panel
}

func NewOverlay(panels ...Panel) *Overlay {
	return &Overlay{panels: panels}
}

func (o *Overlay) Add(p Panel) {
	o.panels = append(o.panels, p)
}

// Render updates the input state and renders every panel in order.
func (o *Overlay) Render() {
	io := imgui.CurrentIO()
	o.Input.WantCaptureMouse = io.WantCaptureMouse()
	o.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, p := range o.panels {
		p.Render()
	}
}

// NewInspector wires the standard panels: entity browser, component
// inspector, component table, query debugger and performance stats. editable
// gates edits in the component inspector and may be nil for read-only.
func NewInspector(storage *ecs.Storage, scheduler *ecs.Scheduler, editable func() bool) *Overlay {
	browser := NewEntityBrowser(storage, 100)
	table := NewComponentTable(storage)
	browser.TypeFilter = table.Selected
	return NewOverlay(
		browser,
		NewComponentInspector(storage, browser.Selected, editable),
		table,
		NewQueryDebugger(storage),
		NewPerformanceStats(storage, scheduler, 120),
	)
}
