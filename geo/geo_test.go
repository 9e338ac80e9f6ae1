package geo

import (
	"math"
	"testing"
)

func TestUnitConversions(t *testing.T) {
	if got := Inches(1); got != 72 {
		t.Fatalf("Inches(1) = %v, want 72", got)
	}
	if got := Millimeters(25.4); math.Abs(got-72) > 1e-9 {
		t.Fatalf("Millimeters(25.4) = %v, want 72", got)
	}
	if got := EMU(72); got != 914400 {
		t.Fatalf("EMU(72) = %v, want 914400", got)
	}
	if got := FromEMU(914400); got != 72 {
		t.Fatalf("FromEMU(914400) = %v, want 72", got)
	}
	if got := ToMillimeters(Millimeters(10)); math.Abs(got-10) > 1e-9 {
		t.Fatalf("millimeter round trip = %v, want 10", got)
	}
}

func TestRect(t *testing.T) {
	r := NewRect(10, 20, 100, 50)
	if !r.Valid() {
		t.Fatal("expected valid rect")
	}
	if r.Right() != 110 || r.Bottom() != 70 {
		t.Fatalf("edges = (%v, %v), want (110, 70)", r.Right(), r.Bottom())
	}
	if !r.Contains(Point{X: 10, Y: 20}) || r.Contains(Point{X: 9, Y: 20}) {
		t.Fatal("Contains edge handling wrong")
	}

	in := r.Inset(5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("Inset(5) = %+v", in)
	}

	collapsed := NewRect(0, 0, 4, 4).Inset(10)
	if collapsed.W != 0 || collapsed.H != 0 {
		t.Fatalf("oversized inset should collapse, got %+v", collapsed)
	}
	if NewRect(0, 0, 0, 10).Valid() {
		t.Fatal("zero width rect must be invalid")
	}
}

func TestMatrix(t *testing.T) {
	m := Translate(10, 5).Multiply(Scale(2, 2))
	p := m.Transform(Point{X: 1, Y: 1})
	if p.X != 22 || p.Y != 12 {
		t.Fatalf("Transform = %+v, want (22, 12)", p)
	}

	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}
	back := inv.Transform(p)
	if math.Abs(back.X-1) > 1e-9 || math.Abs(back.Y-1) > 1e-9 {
		t.Fatalf("round trip = %+v, want (1, 1)", back)
	}

	if _, err := Scale(0, 0).Inverse(); err == nil {
		t.Fatal("expected error for singular matrix")
	}
}
