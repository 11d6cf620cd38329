package key

import "testing"

func TestCompareElements_KindOrder(t *testing.T) {
	pairs := []struct {
		lo, hi Element
	}{
		{Least(), Bool(false)},
		{Bool(true), Num(-1000)},
		{Num(999), Str("")},
		{Str("zzzz"), Greatest()},
	}
	for _, p := range pairs {
		if CompareElements(p.lo, p.hi) >= 0 {
			t.Errorf("CompareElements(%v, %v) should be < 0", p.lo, p.hi)
		}
		if CompareElements(p.hi, p.lo) <= 0 {
			t.Errorf("CompareElements(%v, %v) should be > 0", p.hi, p.lo)
		}
	}
}

func TestCompareElements_SameKind(t *testing.T) {
	if CompareElements(Num(1), Num(2)) >= 0 {
		t.Error("1 should be < 2")
	}
	if CompareElements(Str("a"), Str("b")) >= 0 {
		t.Error("a should be < b")
	}
	if CompareElements(Bool(false), Bool(true)) >= 0 {
		t.Error("false should be < true")
	}
}

func TestCompareElements_Sentinels(t *testing.T) {
	if CompareElements(Least(), Least()) != 0 {
		t.Error("LEAST should equal itself")
	}
	if CompareElements(Greatest(), Greatest()) != 0 {
		t.Error("GREATEST should equal itself")
	}
}

func TestCompareElements_Reflexive(t *testing.T) {
	vals := []Element{Least(), Bool(true), Num(3.5), Str("x"), Greatest()}
	for _, v := range vals {
		if CompareElements(v, v) != 0 {
			t.Errorf("%v should equal itself", v)
		}
	}
}
