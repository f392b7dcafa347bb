package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component type.
type FieldInfo struct {
	Name      string
	Index     int
	Type      reflect.Type
	Kind      reflect.Kind
	IsPointer bool
}

var fieldCache sync.Map // reflect.Type -> []FieldInfo

// fieldsOf returns the exported fields of a struct type, dereferencing
// pointer fields. Non-struct types have no fields.
func fieldsOf(t reflect.Type) []FieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			ft := f.Type
			isPtr := ft.Kind() == reflect.Ptr
			if isPtr {
				ft = ft.Elem()
			}
			fields = append(fields, FieldInfo{
				Name:      f.Name,
				Index:     i,
				Type:      ft,
				Kind:      ft.Kind(),
				IsPointer: isPtr,
			})
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

// Describe flattens a component into "path: value" lines, nested structs
// joined with dots. It backs the text inspector and is independent of ImGui.
func Describe(component any) []string {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	var out []string
	describe(&out, "", v)
	return out
}

func describe(out *[]string, prefix string, v reflect.Value) {
	if v.Kind() != reflect.Struct {
		*out = append(*out, prefix+": "+formatValue(v))
		return
	}
	for _, f := range fieldsOf(v.Type()) {
		fv := v.Field(f.Index)
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		if f.IsPointer {
			if fv.IsNil() {
				*out = append(*out, name+": nil")
				continue
			}
			fv = fv.Elem()
		}
		if f.Kind == reflect.Struct && fv.Type().NumMethod() == 0 {
			describe(out, name, fv)
			continue
		}
		*out = append(*out, name+": "+formatValue(fv))
	}
}
