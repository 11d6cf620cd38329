// Package memsize estimates the deep, heap-reachable size of a Go value via
// reflection. btree.Tree.MemoryUsage uses it to size a node arena: nodes
// hold slices of key.Key (themselves slices of key.Element, which may box a
// string) and []any values, so a shallow unsafe.Sizeof would miss almost
// all of the actual footprint.
package memsize

import (
	"reflect"
	"unsafe"
)

// hmapOverhead is a rough per-map estimate of Go's runtime hmap header plus
// bucket array for small maps; real overhead varies with load factor and
// bucket count, but this is good enough for sizing, not accounting.
const hmapOverhead = int64(unsafe.Sizeof(uint64(0))) * 8

// Of estimates the total bytes reachable from v: its own representation
// plus every slice backing array, string content, map bucket, and pointee
// it can reach. Pointer cycles are detected via a visited-address set so
// a self-referential structure terminates rather than recursing forever.
func Of(v any) int64 {
	if v == nil {
		return 0
	}
	visited := make(map[uintptr]bool)
	return walk(reflect.ValueOf(v), visited)
}

// walk returns the full size of v, including the inline header/representation
// appropriate to its kind plus whatever it indirects to.
func walk(v reflect.Value, visited map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		addr := v.Pointer()
		if visited[addr] {
			return int64(v.Type().Size())
		}
		visited[addr] = true
		return int64(v.Type().Size()) + walk(v.Elem(), visited)

	case reflect.String:
		return int64(v.Type().Size()) + int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		header := int64(v.Type().Size())
		backing := int64(v.Cap()) * int64(v.Type().Elem().Size())
		return header + backing + sliceElemIndirect(v, visited)

	case reflect.Array:
		return int64(v.Type().Size()) + arrayElemIndirect(v, visited)

	case reflect.Struct:
		var fields int64
		for i := 0; i < v.NumField(); i++ {
			fields += indirect(v.Field(i), visited)
		}
		return int64(v.Type().Size()) + fields

	case reflect.Map:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		return int64(v.Type().Size()) + hmapOverhead + mapEntries(v, visited)

	case reflect.Interface:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		return int64(v.Type().Size()) + walk(v.Elem(), visited)

	default:
		// bool, every int/uint/float/complex width.
		return int64(v.Type().Size())
	}
}

// indirect returns only the heap-reachable portion of v — the part not
// already counted by the inline size of whatever container holds it.
func indirect(v reflect.Value, visited map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return 0
		}
		addr := v.Pointer()
		if visited[addr] {
			return 0
		}
		visited[addr] = true
		return int64(v.Elem().Type().Size()) + indirect(v.Elem(), visited)

	case reflect.String:
		return int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return 0
		}
		backing := int64(v.Cap()) * int64(v.Type().Elem().Size())
		return backing + sliceElemIndirect(v, visited)

	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		return hmapOverhead + mapEntries(v, visited)

	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return walk(v.Elem(), visited)

	case reflect.Struct:
		var fields int64
		for i := 0; i < v.NumField(); i++ {
			fields += indirect(v.Field(i), visited)
		}
		return fields

	case reflect.Array:
		return arrayElemIndirect(v, visited)

	default:
		return 0
	}
}

func sliceElemIndirect(v reflect.Value, visited map[uintptr]bool) int64 {
	if !mayIndirect(v.Type().Elem()) {
		return 0
	}
	var s int64
	for i := 0; i < v.Len(); i++ {
		s += indirect(v.Index(i), visited)
	}
	return s
}

func arrayElemIndirect(v reflect.Value, visited map[uintptr]bool) int64 {
	if !mayIndirect(v.Type().Elem()) {
		return 0
	}
	var s int64
	for i := 0; i < v.Len(); i++ {
		s += indirect(v.Index(i), visited)
	}
	return s
}

func mapEntries(v reflect.Value, visited map[uintptr]bool) int64 {
	var s int64
	iter := v.MapRange()
	for iter.Next() {
		s += walk(iter.Key(), visited)
		s += walk(iter.Value(), visited)
	}
	return s
}

// mayIndirect reports whether t's values can hold heap-allocated data, so
// callers can skip per-element recursion over e.g. a []float64.
func mayIndirect(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.String, reflect.Interface:
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if mayIndirect(t.Field(i).Type) {
				return true
			}
		}
	case reflect.Array:
		return mayIndirect(t.Elem())
	}
	return false
}
