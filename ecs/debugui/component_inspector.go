package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/botarena/ecs"
)

// ComponentInspector shows every component of the selected entity. Fields are
// edited in place when editable reports true, which callers tie to the
// simulation being paused.
type ComponentInspector struct {
	storage  *ecs.Storage
	selected func() ecs.EntityId
	editable func() bool
}

func NewComponentInspector(storage *ecs.Storage, selected func() ecs.EntityId, editable func() bool) *ComponentInspector {
	return &ComponentInspector{storage: storage, selected: selected, editable: editable}
}

func (ci *ComponentInspector) Render() {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	id := ci.selected()
	if id == 0 {
		imgui.Text("No entity selected")
		return
	}
	components := ci.storage.ComponentsOf(id)
	if components == nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", id))
		return
	}

	editable := ci.editable != nil && ci.editable()
	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	if !editable {
		imgui.TextColored(imgui.NewVec4(0.6, 0.6, 0.6, 1.0), "read-only while running")
	}
	imgui.Separator()

	for _, component := range components {
		v := reflect.ValueOf(component).Elem()
		if imgui.TreeNodeStr(v.Type().String()) {
			ci.renderValue(v, editable)
			imgui.TreePop()
		}
	}
}

func (ci *ComponentInspector) renderValue(v reflect.Value, editable bool) {
	if v.Kind() != reflect.Struct {
		ci.renderField(v.Type().Name(), v, editable)
		return
	}
	for _, f := range fieldsOf(v.Type()) {
		fv := v.Field(f.Index)
		if f.IsPointer {
			if fv.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", f.Name))
				continue
			}
			fv = fv.Elem()
		}
		ci.renderField(f.Name, fv, editable)
	}
}

// renderField draws one value; v is addressable because components are
// reached through pointers.
func (ci *ComponentInspector) renderField(name string, v reflect.Value, editable bool) {
	if !editable || !v.CanSet() {
		if v.Kind() == reflect.Struct && v.Type().NumMethod() == 0 {
			if imgui.TreeNodeStr(name) {
				ci.renderValue(v, false)
				imgui.TreePop()
			}
			return
		}
		imgui.Text(fmt.Sprintf("%s: %s", name, formatValue(v)))
		return
	}

	label := fmt.Sprintf("##%s", name)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int32(v.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) {
			v.SetInt(int64(n))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := int32(v.Uint())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &n) && n >= 0 {
			v.SetUint(uint64(n))
		}

	case reflect.Float32, reflect.Float64:
		f := float32(v.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &f) {
			v.SetFloat(float64(f))
		}

	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(name, &b) {
			v.SetBool(b)
		}

	case reflect.String:
		s := v.String()
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &s, imgui.InputTextFlagsNone, nil) {
			v.SetString(s)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderValue(v, true)
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, formatValue(v)))
	}
}
