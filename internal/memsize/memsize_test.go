package memsize

import (
	"testing"
	"unsafe"
)

func TestOf_Nil(t *testing.T) {
	if got := Of(nil); got != 0 {
		t.Errorf("Of(nil) = %d, want 0", got)
	}
}

func TestOf_Primitives(t *testing.T) {
	got := Of(int64(42))
	if got != int64(unsafe.Sizeof(int64(0))) {
		t.Errorf("Of(int64) = %d, want %d", got, unsafe.Sizeof(int64(0)))
	}

	got = Of(true)
	if got != int64(unsafe.Sizeof(true)) {
		t.Errorf("Of(bool) = %d, want %d", got, unsafe.Sizeof(true))
	}
}

func TestOf_String(t *testing.T) {
	s := "hello"
	got := Of(s)
	headerSize := int64(unsafe.Sizeof(s))
	want := headerSize + 5
	if got != want {
		t.Errorf("Of(%q) = %d, want %d", s, got, want)
	}
}

func TestOf_Slice(t *testing.T) {
	s := make([]int64, 3, 5)
	got := Of(s)
	headerSize := int64(unsafe.Sizeof(s))
	want := headerSize + 5*8
	if got != want {
		t.Errorf("Of([]int64 len=3 cap=5) = %d, want %d", got, want)
	}
}

func TestOf_SliceOfStrings(t *testing.T) {
	s := []string{"ab", "cde"}
	got := Of(s)
	if got <= 0 {
		t.Errorf("Of([]string) = %d, want > 0", got)
	}
	headerSize := int64(unsafe.Sizeof(s))
	strHeader := int64(unsafe.Sizeof(""))
	minExpected := headerSize + 2*strHeader + 5
	if got < minExpected {
		t.Errorf("Of([]string) = %d, want >= %d", got, minExpected)
	}
}

func TestOf_NestedStruct(t *testing.T) {
	type inner struct {
		Name string
		Val  int64
	}
	type outer struct {
		A inner
		B *inner
	}

	v := outer{
		A: inner{Name: "test", Val: 42},
		B: &inner{Name: "ptr", Val: 99},
	}
	got := Of(v)
	if got <= 0 {
		t.Errorf("Of(nested struct) = %d, want > 0", got)
	}
	minExpected := int64(unsafe.Sizeof(v)) + 4 + 3
	if got < minExpected {
		t.Errorf("Of(nested struct) = %d, want >= %d", got, minExpected)
	}
}

func TestOf_NilSlice(t *testing.T) {
	var s []int64
	got := Of(s)
	want := int64(unsafe.Sizeof(s))
	if got != want {
		t.Errorf("Of(nil slice) = %d, want %d", got, want)
	}
}

func TestOf_CycleDetection(t *testing.T) {
	type node struct {
		Next *node
		Val  int
	}
	a := &node{Val: 1}
	b := &node{Val: 2}
	a.Next = b
	b.Next = a

	got := Of(a)
	if got <= 0 {
		t.Errorf("Of(cycle) = %d, want > 0", got)
	}
}

func TestOf_SliceOfAny(t *testing.T) {
	s := []any{int64(1), "hello", nil, true}
	got := Of(s)
	if got <= 0 {
		t.Errorf("Of([]any) = %d, want > 0", got)
	}
}

func TestOf_Map(t *testing.T) {
	m := map[string]int64{"a": 1, "bb": 2}
	got := Of(m)
	if got <= 0 {
		t.Errorf("Of(map) = %d, want > 0", got)
	}
}

// arena-shaped value: what Tree.MemoryUsage actually walks — a pointer to a
// struct holding key/value slices, mirroring btree.node.
func TestOf_ArenaLikeNode(t *testing.T) {
	type key []float64
	type node struct {
		keys []key
		vals []any
	}
	n := &node{
		keys: []key{{1}, {2}, {3}},
		vals: []any{"a", "b", "c"},
	}
	got := Of(n)
	if got <= int64(unsafe.Sizeof(*n)) {
		t.Errorf("Of(arena node) = %d, want > shallow struct size", got)
	}
}
