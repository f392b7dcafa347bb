package debugui

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/botarena/ecs"
)

type EntityInfo struct {
	ID         ecs.EntityId
	Components []string
}

func (e EntityInfo) matches(filter string) bool {
	if filter == "" {
		return true
	}
	if strings.Contains(fmt.Sprintf("%d", e.ID), filter) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(e.Components, " ")), filter)
}

// EntityBrowser lists entities in a sortable, filterable, paged table. The
// listing is rebuilt only after entities were added or removed.
type EntityBrowser struct {
	storage  *ecs.Storage
	entities []EntityInfo
	dirty    bool

	selected      ecs.EntityId
	filter        string
	perPage       int
	page          int
	sortColumn    int
	sortAscending bool

	// TypeFilter, when set and returning a type, limits the listing to
	// entities carrying it.
	TypeFilter func() reflect.Type
}

func NewEntityBrowser(storage *ecs.Storage, perPage int) *EntityBrowser {
	eb := &EntityBrowser{
		storage:       storage,
		dirty:         true,
		perPage:       perPage,
		sortAscending: true,
	}
	markDirty := func(ecs.EntityId) { eb.dirty = true }
	storage.OnEntityAdded(markDirty)
	storage.OnEntityRemoved(markDirty)
	return eb
}

// Selected returns the selected entity, or 0.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	if eb.selected != 0 && !eb.storage.Exists(eb.selected) {
		eb.selected = 0
	}
	return eb.selected
}

func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selected = id
}

func (eb *EntityBrowser) Render() {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.refresh()

	imgui.InputTextWithHint("##search", "Search...", &eb.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filter = ""
	}

	visible := eb.Visible()
	pages := max(1, (len(visible)+eb.perPage-1)/eb.perPage)
	eb.page = min(eb.page, pages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sort()
			sortSpecs.SetSpecsDirty(false)
		}

		start := eb.page * eb.perPage
		end := min(start+eb.perPage, len(visible))
		for _, entity := range visible[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), eb.selected == entity.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.Components)))
		}

		imgui.EndTable()
	}

	if pages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(visible)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.page < pages-1 {
			eb.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(visible)))
	}

	imgui.End()
}

func (eb *EntityBrowser) refresh() {
	if !eb.dirty {
		return
	}
	eb.dirty = false
	eb.entities = eb.entities[:0]
	for _, id := range eb.storage.Ids() {
		eb.entities = append(eb.entities, EntityInfo{ID: id, Components: componentNames(eb.storage.ComponentsOf(id))})
	}
	eb.sort()
}

// Visible returns the listing after the text and type filters.
func (eb *EntityBrowser) Visible() []EntityInfo {
	eb.refresh()
	filter := strings.ToLower(eb.filter)
	var only reflect.Type
	if eb.TypeFilter != nil {
		only = eb.TypeFilter()
	}
	if filter == "" && only == nil {
		return eb.entities
	}

	out := make([]EntityInfo, 0, len(eb.entities))
	for _, e := range eb.entities {
		if only != nil && !eb.storage.HasComponent(e.ID, only) {
			continue
		}
		if e.matches(filter) {
			out = append(out, e)
		}
	}
	return out
}

func (eb *EntityBrowser) sort() {
	slices.SortStableFunc(eb.entities, func(a, b EntityInfo) int {
		var c int
		switch eb.sortColumn {
		case 1:
			c = strings.Compare(strings.Join(a.Components, ","), strings.Join(b.Components, ","))
		case 2:
			c = len(a.Components) - len(b.Components)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !eb.sortAscending {
			return -c
		}
		return c
	})
}

func componentNames(components []any) []string {
	names := make([]string, len(components))
	for i, c := range components {
		t := reflect.TypeOf(c)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		names[i] = t.Name()
	}
	return names
}
