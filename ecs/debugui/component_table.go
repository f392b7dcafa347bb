package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/botarena/ecs"
)

// ComponentTable shows how many instances of each registered component type
// are stored. Selecting a row narrows the entity browser to that type.
type ComponentTable struct {
	storage       *ecs.Storage
	selected      reflect.Type
	sortColumn    int
	sortAscending bool
}

func NewComponentTable(storage *ecs.Storage) *ComponentTable {
	return &ComponentTable{storage: storage, sortColumn: 1}
}

// Selected returns the highlighted component type, or nil.
func (ct *ComponentTable) Selected() reflect.Type {
	return ct.selected
}

// Rows returns the current counts in display order.
func (ct *ComponentTable) Rows() []ecs.ComponentStats {
	rows := ct.storage.CollectStats().Components
	slices.SortStableFunc(rows, func(a, b ecs.ComponentStats) int {
		var c int
		if ct.sortColumn == 0 {
			c = strings.Compare(a.Name, b.Name)
		} else {
			c = a.Count - b.Count
		}
		if !ct.sortAscending {
			return -c
		}
		return c
	})
	return rows
}

func (ct *ComponentTable) Render() {
	if !imgui.BeginV("Components", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if ct.selected != nil {
		imgui.Text("Filtering entities by " + ct.selected.Name())
		imgui.SameLine()
		if imgui.Button("Show all") {
			ct.selected = nil
		}
	}

	rows := ct.Rows()
	most := 1
	for _, r := range rows {
		most = max(most, r.Count)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ComponentTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			ct.sortColumn = min(int(spec.ColumnIndex()), 1)
			ct.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}

		for _, r := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(r.Name, ct.selected == r.Type, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				if ct.selected == r.Type {
					ct.selected = nil
				} else {
					ct.selected = r.Type
				}
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", r.Count))
			if r.Count > 0 {
				imgui.SameLine()
				drawShareBar(float32(r.Count) / float32(most))
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

func drawShareBar(fraction float32) {
	drawList := imgui.WindowDrawList()
	pos := imgui.CursorScreenPos()
	color := imgui.ColorU32Vec4(imgui.NewVec4(0.3, 0.6, 0.9, 0.6))
	drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+fraction*80.0, pos.Y+10), color)
}
