package environ

import (
	"testing"

	"byul/vecmath"
)

func TestDefaultGravity(t *testing.T) {
	e := Default()
	want := vecmath.New(0, -9.81, 0)
	if e.Gravity != want {
		t.Errorf("Default gravity = %v, want %v", e.Gravity, want)
	}
	if e.Accel() != want {
		t.Errorf("Default Accel() = %v, want %v (CalcGravity)", e.Accel(), want)
	}
}

func TestCalcNone(t *testing.T) {
	e := Default()
	e.Fn = CalcNone
	if got := e.Accel(); got != vecmath.Zero {
		t.Errorf("CalcNone Accel = %v, want zero", got)
	}
}

func TestDistortIdempotentOnZero(t *testing.T) {
	e := Default()
	e.AirDensity = 2.0
	if got := e.DistortAccel(vecmath.Zero); got != vecmath.Zero {
		t.Errorf("DistortAccel(zero) = %v, want zero", got)
	}
}

func TestDistortAccelExceptGravityPreservesGravityAtBaselineDensity(t *testing.T) {
	e := Default() // AirDensity = 1.225 -> densityScale = 1
	accel := e.Gravity.Add(vecmath.New(1, 0, 0))
	got := e.DistortAccelExceptGravity(true, accel)
	if !got.AlmostEqual(accel, 1e-4) {
		t.Errorf("DistortAccelExceptGravity at baseline density = %v, want %v", got, accel)
	}
}

func TestPeriodicDegradesWithoutState(t *testing.T) {
	e := Default()
	e.Fn = CalcPeriodic
	if got := e.Accel(); got != e.Gravity {
		t.Errorf("CalcPeriodic without state = %v, want gravity %v", got, e.Gravity)
	}
}

func TestPeriodicAdvances(t *testing.T) {
	e := Default()
	e.Periodic = NewPeriodic()
	e.Periodic.GustAmplitude = vecmath.New(1, 0, 0)
	e.Fn = CalcPeriodic
	a0 := e.Accel()
	e.Periodic.Advance(0.1)
	a1 := e.Accel()
	if a0 == a1 {
		t.Errorf("expected periodic gust to vary after Advance")
	}
}
