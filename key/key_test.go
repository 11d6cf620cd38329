package key

import "testing"

func mkKey(vals ...any) Key {
	k := make(Key, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case string:
			k[i] = Str(x)
		case int:
			k[i] = Num(float64(x))
		case bool:
			k[i] = Bool(x)
		default:
			panic("unsupported value")
		}
	}
	return k
}

func TestCompare_LeastGreatestBounds(t *testing.T) {
	k := mkKey("a", 1)
	least := LeastKey(2)
	greatest := GreatestKey(2)
	if !Less(least, k) {
		t.Error("LEAST_KEY should be < k")
	}
	if !LessEqual(k, k) {
		t.Error("k <= k should hold")
	}
	if !Less(k, greatest) {
		t.Error("k should be < GREATEST_KEY")
	}
}

func TestCompare_Reflexivity(t *testing.T) {
	k := mkKey("x", 2, true)
	if Less(k, k) {
		t.Error("k < k should be false")
	}
	if Greater(k, k) {
		t.Error("k > k should be false")
	}
	if !LessEqual(k, k) || !GreaterEqual(k, k) {
		t.Error("k <= k and k >= k should both hold")
	}
}

func TestCompare_AntiSymmetry(t *testing.T) {
	a := mkKey("a", 1)
	b := mkKey("b", 1)
	if Less(a, b) && Less(b, a) {
		t.Error("cannot have both a < b and b < a")
	}
}

func TestCompare_Totality(t *testing.T) {
	pairs := [][2]Key{
		{mkKey("a"), mkKey("b")},
		{mkKey(1), mkKey(1)},
		{mkKey("z"), mkKey("a")},
	}
	for _, p := range pairs {
		lt, eq, gt := Less(p[0], p[1]), Equal(p[0], p[1]), Greater(p[0], p[1])
		count := 0
		for _, b := range []bool{lt, eq, gt} {
			if b {
				count++
			}
		}
		if count != 1 {
			t.Errorf("exactly one of <,=,> should hold for %v vs %v, got lt=%v eq=%v gt=%v", p[0], p[1], lt, eq, gt)
		}
	}
}

func TestCompare_ArityMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on arity mismatch")
		}
	}()
	Compare(mkKey("a"), mkKey("a", "b"))
}

func TestFindGTE_AndFindGT(t *testing.T) {
	sorted := []Key{mkKey(1), mkKey(3), mkKey(5), mkKey(7), mkKey(9)}

	if got := FindGTE(sorted, mkKey(5)); got != 2 {
		t.Errorf("FindGTE(5) = %d, want 2", got)
	}
	if got := FindGTE(sorted, mkKey(6)); got != 3 {
		t.Errorf("FindGTE(6) = %d, want 3", got)
	}
	if got := FindGTE(sorted, mkKey(0)); got != 0 {
		t.Errorf("FindGTE(0) = %d, want 0", got)
	}
	if got := FindGTE(sorted, mkKey(10)); got != 5 {
		t.Errorf("FindGTE(10) = %d, want 5 (len)", got)
	}

	if got := FindGT(sorted, mkKey(5)); got != 3 {
		t.Errorf("FindGT(5) = %d, want 3", got)
	}
	if got := FindGT(sorted, mkKey(9)); got != 5 {
		t.Errorf("FindGT(9) = %d, want 5 (len)", got)
	}
}

func TestPrefixNotEqual(t *testing.T) {
	a := mkKey(1, 2, 3)
	b := mkKey(1, 2, 4)
	if PrefixNotEqual(a, b, 2) {
		t.Error("first 2 elements are equal")
	}
	if !PrefixNotEqual(a, b, 3) {
		t.Error("first 3 elements differ at index 2")
	}
}
