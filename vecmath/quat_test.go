package vecmath

import (
	"math"
	"testing"
)

func TestRotateVectorPreservesLength(t *testing.T) {
	q := FromAxisAngle(New(0, 1, 0), math.Pi/3)
	v := New(1, 2, 3)
	r := q.RotateVector(v)
	if !almost(r.Length(), v.Length(), 1e-5*v.Length()) {
		t.Errorf("|rotate(q,v)| = %v, want %v", r.Length(), v.Length())
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a := QuatIdentity()
	b := FromAxisAngle(New(0, 0, 1), math.Pi/2)
	if got := Slerp(a, b, 0); !quatAlmostEqual(got, a) {
		t.Errorf("Slerp(t=0) = %v, want %v", got, a)
	}
	if got := Slerp(a, b, 1); !quatAlmostEqual(got, b) {
		t.Errorf("Slerp(t=1) = %v, want %v", got, b)
	}
}

func TestSlerpFallbackToLerpWhenParallel(t *testing.T) {
	a := FromAxisAngle(New(1, 0, 0), 0.001)
	b := FromAxisAngle(New(1, 0, 0), 0.0010001)
	got := Slerp(a, b, 0.5)
	if got.Length() < 0.999 || got.Length() > 1.001 {
		t.Errorf("Slerp fallback result not unit: %v", got)
	}
}

func TestEulerRoundTrip(t *testing.T) {
	x, y, z := float32(0.3), float32(0.2), float32(0.1)
	q := FromEuler(x, y, z, EulerOrderZYX)
	gx, gy, gz := q.ToEuler(EulerOrderZYX)
	if !almost(gx, x, 1e-4) || !almost(gy, y, 1e-4) || !almost(gz, z, 1e-4) {
		t.Errorf("Euler round trip = (%v,%v,%v), want (%v,%v,%v)", gx, gy, gz, x, y, z)
	}
}

func TestEulerRoundTripXYZ(t *testing.T) {
	x, y, z := float32(0.3), float32(0.2), float32(0.1)
	q := FromEuler(x, y, z, EulerOrderXYZ)
	gx, gy, gz := q.ToEuler(EulerOrderXYZ)
	if !almost(gx, x, 1e-4) || !almost(gy, y, 1e-4) || !almost(gz, z, 1e-4) {
		t.Errorf("XYZ Euler round trip = (%v,%v,%v), want (%v,%v,%v)", gx, gy, gz, x, y, z)
	}
}

func TestEulerRoundTripZXY(t *testing.T) {
	x, y, z := float32(0.3), float32(0.2), float32(0.1)
	q := FromEuler(x, y, z, EulerOrderZXY)
	gx, gy, gz := q.ToEuler(EulerOrderZXY)
	if !almost(gx, x, 1e-4) || !almost(gy, y, 1e-4) || !almost(gz, z, 1e-4) {
		t.Errorf("ZXY Euler round trip = (%v,%v,%v), want (%v,%v,%v)", gx, gy, gz, x, y, z)
	}
}

func TestFromEulerXYZDiffersFromZYX(t *testing.T) {
	x, y, z := float32(0.3), float32(0.2), float32(0.1)
	qxyz := FromEuler(x, y, z, EulerOrderXYZ)
	qzyx := FromEuler(x, y, z, EulerOrderZYX)
	if quatAlmostEqual(qxyz, qzyx) {
		t.Errorf("expected XYZ and ZYX composition to differ for non-trivial angles, both = %v", qxyz)
	}
}

func TestFromAngularVelocityBelowThreshold(t *testing.T) {
	q := FromAngularVelocity(New(0.0001, 0, 0), 0.01)
	if q != QuatIdentity() {
		t.Errorf("expected identity for sub-threshold rotation, got %v", q)
	}
}

func TestInverseIsConjugateForUnit(t *testing.T) {
	q := FromAxisAngle(New(1, 1, 0), 1.2).Normalize()
	if got := q.Inverse(); got != q.Conjugate() {
		t.Errorf("Inverse() != Conjugate() for unit quat")
	}
}

func quatAlmostEqual(a, b Quat) bool {
	return almost(a.W, b.W, 1e-4) && almost(a.X, b.X, 1e-4) &&
		almost(a.Y, b.Y, 1e-4) && almost(a.Z, b.Z, 1e-4)
}
