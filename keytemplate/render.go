package keytemplate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// renderValue produces the canonical string form of a placeholder value.
// Every representable value has exactly one form, stable across runs, so the
// keys an operation formats are deterministic. Rendering never fails: types
// that defeat reflection fall back to JSON, and values JSON cannot encode
// fall back to their type name.
func renderValue(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Func:
		// Stable only within a process; function-valued arguments make
		// poor key material but must still render.
		return fmt.Sprintf("func:%p", v)
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return renderValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return renderSequence("slice", rv)
	case reflect.Array:
		return renderSequence("array", rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return renderMap(rv)
	case reflect.Struct:
		return renderStruct(rv, rt)
	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)
	case reflect.Interface:
		if rv.IsNil() {
			return "interface:nil"
		}
		return renderValue(rv.Elem().Interface())
	}

	if isBasicKind(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return renderJSON(v)
}

func renderSequence(label string, rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = renderValue(rv.Index(i).Interface())
	}
	return fmt.Sprintf("%s[%d]:{%s}", label, len(parts), strings.Join(parts, ","))
}

// renderMap renders entries sorted by their rendered form so that Go's
// randomized map iteration order never leaks into cache keys.
func renderMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, fmt.Sprintf("%s=%s",
			renderValue(iter.Key().Interface()),
			renderValue(iter.Value().Interface())))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

func renderStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if !fv.CanInterface() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%s", field.Name, renderValue(fv.Interface())))
	}
	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

func renderJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "fallback:" + reflect.TypeOf(v).String()
	}
	return "json:" + string(data)
}
