package world

import "testing"

func TestStyleLegalUnknownCategoryAllowsAll(t *testing.T) {
	for s := StyleAccurate; s <= StyleControlled; s++ {
		if !StyleLegal("", s) {
			t.Fatalf("bare hands should allow %v", s)
		}
		if !StyleLegal("sword", s) {
			t.Fatalf("sword should allow %v", s)
		}
	}
}

func TestStyleLegalBowExcludesControlled(t *testing.T) {
	if StyleLegal("bow", StyleControlled) {
		t.Fatal("bow allows controlled")
	}
	if !StyleLegal("bow", StyleAggressive) {
		t.Fatal("bow should allow aggressive")
	}
}

func TestStyleLegalStaffExcludesAggressive(t *testing.T) {
	if StyleLegal("staff", StyleAggressive) {
		t.Fatal("staff allows aggressive")
	}
	if !StyleLegal("staff", StyleControlled) {
		t.Fatal("staff should allow controlled")
	}
}

func TestNearestLegalStyle(t *testing.T) {
	// legal stays put
	if got := NearestLegalStyle("bow", StyleAccurate); got != StyleAccurate {
		t.Fatalf("got %v", got)
	}
	// bow + controlled -> defensive (distance 1)
	if got := NearestLegalStyle("bow", StyleControlled); got != StyleDefensive {
		t.Fatalf("bow/controlled -> %v, want defensive", got)
	}
	// staff + aggressive: accurate and defensive tie at distance 1; lower wins
	if got := NearestLegalStyle("staff", StyleAggressive); got != StyleAccurate {
		t.Fatalf("staff/aggressive -> %v, want accurate", got)
	}
}
