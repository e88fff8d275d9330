package vecmath

import "testing"

func almost(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestVec3Basic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want (5,7,9)", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v, want (3,3,3)", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := a.Cross(b); got != (Vec3{-3, 6, -3}) {
		t.Errorf("Cross = %v, want (-3,6,-3)", got)
	}
}

func TestVec3UnitZero(t *testing.T) {
	z := Vec3{}
	if got := z.Unit(); got != Zero {
		t.Errorf("Unit(zero) = %v, want zero", got)
	}
	tiny := Vec3{1e-4, 0, 0}
	if got := tiny.Unit(); got != Zero {
		t.Errorf("Unit(tiny) = %v, want zero (below EpsLen)", got)
	}
}

func TestVec3UnitLength(t *testing.T) {
	v := New(3, 4, 0)
	u := v.Unit()
	if !almost(u.Length(), 1, 1e-5) {
		t.Errorf("|unit(v)| = %v, want 1", u.Length())
	}
}

func TestLerpEndpoints(t *testing.T) {
	a := New(0, 0, 0)
	b := New(10, 10, 10)
	if got := Lerp(a, b, 0); !got.AlmostEqual(a, 0) {
		t.Errorf("Lerp(t=0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); !got.AlmostEqual(b, 0) {
		t.Errorf("Lerp(t=1) = %v, want %v", got, b)
	}
}

func TestAlmostEqual(t *testing.T) {
	a := New(1, 1, 1)
	b := New(1.000001, 1, 1)
	if !a.AlmostEqual(b, 0) {
		t.Errorf("expected AlmostEqual within default eps")
	}
}
