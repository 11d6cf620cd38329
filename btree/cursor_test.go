package btree

import (
	"testing"

	"leapjoin/key"
)

func buildOneTen(minKeys int) *Tree {
	bt := New(minKeys, 1)
	for i := 1; i <= 10; i++ {
		bt.Assoc(k1(i), i)
	}
	return bt
}

func TestCursor_SeekOnEmptyTree(t *testing.T) {
	bt := New(2, 1)
	c := NewCursor(bt)
	if _, ok := c.SeekGTE(k1(0)); ok {
		t.Error("seek_gte on empty tree should find nothing")
	}
	c.Reset()
	if _, ok := c.SeekGT(k1(0)); ok {
		t.Error("seek_gt on empty tree should find nothing")
	}
}

func TestCursor_SeekGTEExactAndBetween(t *testing.T) {
	bt := buildOneTen(2)
	c := NewCursor(bt)

	got, ok := c.SeekGTE(k1(5))
	if !ok || got[0].Num() != 5 {
		t.Fatalf("seek_gte(5) = (%v,%v), want (5,true)", got, ok)
	}

	c.Reset()
	got, ok = c.SeekGTE(k1(6))
	if !ok || got[0].Num() != 6 {
		t.Fatalf("seek_gte(6) = (%v,%v), want (6,true)", got, ok)
	}

	// Use a value strictly between stored keys.
	bt2 := New(2, 1)
	for _, v := range []int{1, 3, 5, 7, 9} {
		bt2.Assoc(k1(v), v)
	}
	c2 := NewCursor(bt2)
	got, ok = c2.SeekGTE(k1(4))
	if !ok || got[0].Num() != 5 {
		t.Fatalf("seek_gte(4) = (%v,%v), want (5,true)", got, ok)
	}
}

func TestCursor_SeekGTSkipsEqual(t *testing.T) {
	bt := buildOneTen(2)
	c := NewCursor(bt)

	got, ok := c.SeekGT(k1(5))
	if !ok || got[0].Num() != 6 {
		t.Fatalf("seek_gt(5) = (%v,%v), want (6,true)", got, ok)
	}

	c.Reset()
	got, ok = c.SeekGT(k1(10))
	if ok {
		t.Fatalf("seek_gt(10) should find nothing past the max, got %v", got)
	}
}

func TestCursor_SeekBeyondMaxReturnsFalse(t *testing.T) {
	bt := buildOneTen(2)
	c := NewCursor(bt)
	if _, ok := c.SeekGTE(k1(11)); ok {
		t.Error("seek_gte past the max key should find nothing")
	}
}

func TestCursor_MonotonicSeeksReuseAscendDescend(t *testing.T) {
	bt := buildOneTen(1)
	c := NewCursor(bt)
	for i := 1; i <= 10; i++ {
		got, ok := c.SeekGTE(k1(i))
		if !ok || got[0].Num() != float64(i) {
			t.Fatalf("monotonic seek_gte(%d) = (%v,%v)", i, got, ok)
		}
	}
}

func TestCursor_StaleAfterMutationPanics(t *testing.T) {
	bt := buildOneTen(2)
	c := NewCursor(bt)
	c.SeekGTE(k1(1))
	bt.Assoc(k1(100), 100)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from cursor used after mutation without Reset")
		}
	}()
	c.SeekGTE(k1(1))
}

func TestCursor_ResetClearsStaleness(t *testing.T) {
	bt := buildOneTen(2)
	c := NewCursor(bt)
	c.SeekGTE(k1(1))
	bt.Dissoc(k1(1))
	c.Reset()
	got, ok := c.SeekGTE(k1(2))
	if !ok || !key.Equal(got, k1(2)) {
		t.Errorf("seek after reset = (%v,%v), want (2,true)", got, ok)
	}
}
