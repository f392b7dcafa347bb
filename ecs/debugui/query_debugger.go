package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/botarena/ecs"
)

// QueryDebugger lets the user tick component types and shows which entities
// a query over exactly those types would visit, in iteration order.
type QueryDebugger struct {
	storage  *ecs.Storage
	selected map[reflect.Type]bool
}

func NewQueryDebugger(storage *ecs.Storage) *QueryDebugger {
	return &QueryDebugger{storage: storage, selected: make(map[reflect.Type]bool)}
}

// Toggle flips whether t takes part in the query.
func (qd *QueryDebugger) Toggle(t reflect.Type) {
	if qd.selected[t] {
		delete(qd.selected, t)
	} else {
		qd.selected[t] = true
	}
}

// Types returns the ticked types in registration order.
func (qd *QueryDebugger) Types() []reflect.Type {
	var out []reflect.Type
	for _, t := range qd.storage.Registry().Types() {
		if qd.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

// Matching returns the ids of entities carrying every ticked type, or nil
// when nothing is ticked.
func (qd *QueryDebugger) Matching() []ecs.EntityId {
	types := qd.Types()
	if len(types) == 0 {
		return nil
	}
	return qd.storage.With(types...).Ids()
}

func (qd *QueryDebugger) Render() {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	for _, t := range qd.storage.Registry().Types() {
		on := qd.selected[t]
		if imgui.Checkbox(t.String(), &on) {
			qd.Toggle(t)
		}
	}

	imgui.Separator()

	if len(qd.selected) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	ids := qd.Matching()
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(ids)))

	if imgui.TreeNodeStr("Entities") {
		for _, id := range ids {
			imgui.BulletText(fmt.Sprintf("%d", id))
		}
		imgui.TreePop()
	}

	imgui.End()
}
