package model

import (
	"testing"

	"byul/bodyprops"
	"byul/environ"
	"byul/motion"
	"byul/vecmath"
)

func almostVec(a, b vecmath.Vec3, eps float32) bool {
	return a.AlmostEqual(b, eps)
}

func TestDragAccelZeroBelowThreshold(t *testing.T) {
	state := motion.LinearState{}
	body := bodyprops.Default()
	if got := DragAccel(state, nil, body); got != vecmath.Zero {
		t.Errorf("DragAccel(at rest) = %v, want zero", got)
	}
}

func TestDragAccelOpposesVelocity(t *testing.T) {
	state := motion.LinearState{Velocity: vecmath.New(10, 0, 0)}
	body := bodyprops.BodyProps{Mass: 1, DragCoef: 0.5, CrossSection: 1}
	got := DragAccel(state, nil, body)
	if got.X >= 0 {
		t.Errorf("DragAccel direction = %v, want negative X", got)
	}
}

func TestAccelIncludesGravity(t *testing.T) {
	env := environ.Default()
	state := motion.LinearState{}
	body := bodyprops.Default()
	got := Accel(state, env, body)
	if !almostVec(got, env.Gravity, 1e-4) {
		t.Errorf("Accel(at rest, no drag) = %v, want gravity %v", got, env.Gravity)
	}
}

func TestAccelExceptGravityExcludesGravity(t *testing.T) {
	env := environ.Default()
	state := motion.LinearState{}
	body := bodyprops.Default()
	got := AccelExceptGravity(state, env, body)
	if !almostVec(got, vecmath.Zero, 1e-4) {
		t.Errorf("AccelExceptGravity(at rest, no drag) = %v, want zero", got)
	}
}

func TestPosAtProjectileFreeFall(t *testing.T) {
	env := environ.Default()
	body := bodyprops.Default()
	state0 := motion.LinearState{Position: vecmath.New(0, 100, 0)}
	pos := PosAt(1, state0, env, body)
	want := float32(100 + 0.5*-9.81)
	if pos.Y < want-0.5 || pos.Y > want+0.5 {
		t.Errorf("PosAt(1s) Y = %v, want near %v", pos.Y, want)
	}
}

func TestAccelAtRecomputesDrag(t *testing.T) {
	body := bodyprops.BodyProps{Mass: 1, DragCoef: 1, CrossSection: 1}
	state0 := motion.LinearState{Velocity: vecmath.New(100, 0, 0)}
	a0 := Accel(state0, nil, body)
	aLater := AccelAt(0.01, state0, nil, body)
	if aLater.X <= a0.X {
		t.Errorf("AccelAt(0.01s).X = %v should have weaker (less negative) drag than a0.X = %v as speed decays", aLater.X, a0.X)
	}
}

func TestPredictRK4MatchesFreeFallClosedForm(t *testing.T) {
	env := environ.Default()
	body := bodyprops.Default()
	state0 := motion.LinearState{Position: vecmath.New(0, 100, 0)}
	got := PredictRK4(1, state0, env, body, 50)
	want := PosAt(1, state0, env, body)
	if !almostVec(got.Position, want, 0.05) {
		t.Errorf("PredictRK4 pos = %v, want near closed-form %v", got.Position, want)
	}
}

func TestPredictRK4ZeroStepsReturnsInput(t *testing.T) {
	state0 := motion.LinearState{Position: vecmath.New(1, 2, 3)}
	got := PredictRK4(1, state0, nil, bodyprops.Default(), 0)
	if got != state0 {
		t.Errorf("PredictRK4(steps=0) = %v, want input unchanged", got)
	}
}

func TestBounceReflectsNormalComponent(t *testing.T) {
	vIn := vecmath.New(0, -10, 0)
	normal := vecmath.New(0, 1, 0)
	got, ok := Bounce(vIn, normal, 1.0)
	if !ok {
		t.Fatal("Bounce should succeed with a valid normal")
	}
	want := vecmath.New(0, 10, 0)
	if !almostVec(got, want, 1e-4) {
		t.Errorf("Bounce(e=1) = %v, want %v", got, want)
	}
}

func TestBounceZeroRestitutionKillsNormalComponent(t *testing.T) {
	vIn := vecmath.New(1, -10, 0)
	normal := vecmath.New(0, 1, 0)
	got, ok := Bounce(vIn, normal, 0)
	if !ok {
		t.Fatal("Bounce should succeed")
	}
	if got.Y != 0 {
		t.Errorf("Bounce(e=0).Y = %v, want 0", got.Y)
	}
	if got.X != 1 {
		t.Errorf("Bounce(e=0).X = %v, want tangential component preserved", got.X)
	}
}

func TestBounceDegenerateNormalFails(t *testing.T) {
	if _, ok := Bounce(vecmath.New(1, 1, 1), vecmath.Zero, 1); ok {
		t.Error("Bounce with zero normal should fail")
	}
}

func TestPredictCollisionImmediateOverlap(t *testing.T) {
	my := motion.LinearState{Position: vecmath.New(0, 0, 0)}
	other := motion.LinearState{Position: vecmath.New(1, 0, 0)}
	time, _, ok := PredictCollision(my, other, 2)
	if !ok || time != 0 {
		t.Errorf("PredictCollision(overlapping) = %v,%v want 0,true", time, ok)
	}
}

func TestPredictCollisionConstantVelocityApproach(t *testing.T) {
	my := motion.LinearState{Position: vecmath.New(-10, 0, 0), Velocity: vecmath.New(1, 0, 0)}
	other := motion.LinearState{Position: vecmath.New(0, 0, 0)}
	time, _, ok := PredictCollision(my, other, 1)
	if !ok {
		t.Fatal("PredictCollision should find a collision time")
	}
	if time < 8 || time > 9 {
		t.Errorf("PredictCollision time = %v, want near 9", time)
	}
}

func TestPredictCollisionWithAccelerationNotSupported(t *testing.T) {
	my := motion.LinearState{Position: vecmath.New(-10, 0, 0), Velocity: vecmath.New(1, 0, 0), Acceleration: vecmath.New(1, 0, 0)}
	other := motion.LinearState{Position: vecmath.New(0, 0, 0)}
	if _, _, ok := PredictCollision(my, other, 1); ok {
		t.Error("PredictCollision with nonzero relative acceleration should report false")
	}
}

func TestPredictCollisionPlaneImmediateContact(t *testing.T) {
	my := motion.LinearState{Position: vecmath.New(0, 0.5, 0)}
	time, _, ok := PredictCollisionPlane(my, vecmath.Zero, vecmath.New(0, 1, 0), 1)
	if !ok || time != 0 {
		t.Errorf("PredictCollisionPlane(already touching) = %v,%v want 0,true", time, ok)
	}
}

func TestPredictCollisionPlaneFallingHitsGround(t *testing.T) {
	my := motion.LinearState{Position: vecmath.New(0, 10, 0), Velocity: vecmath.New(0, -5, 0)}
	time, _, ok := PredictCollisionPlane(my, vecmath.Zero, vecmath.New(0, 1, 0), 1)
	if !ok {
		t.Fatal("PredictCollisionPlane should find a hit time")
	}
	if time < 1.7 || time > 1.9 {
		t.Errorf("PredictCollisionPlane time = %v, want near 1.8", time)
	}
}

func TestCalcSpinAccelZeroBelowDtThreshold(t *testing.T) {
	got := CalcSpinAccel(vecmath.New(1, 0, 0), vecmath.New(0, 1, 0), vecmath.Zero, 0, 1, 1)
	if got != vecmath.Zero {
		t.Errorf("CalcSpinAccel(dt=0) = %v, want zero", got)
	}
}

func TestMotionDragScaleNoEnvIsUnity(t *testing.T) {
	state := motion.Default()
	if got := MotionDragScale(state, nil); got != 1 {
		t.Errorf("MotionDragScale(nil env) = %v, want 1", got)
	}
}

func TestMotionDragScaleAlignedSpinReducesDrag(t *testing.T) {
	env := environ.Default()
	state := motion.Default()
	state.Linear.Velocity = vecmath.New(10, 0, 0)
	state.Angular.AngularVelocity = vecmath.New(40, 0, 0)
	got := MotionDragScale(state, env)
	if got >= 1 {
		t.Errorf("MotionDragScale(aligned spin) = %v, want < 1", got)
	}
}

func TestMotionDragScaleClampedToRange(t *testing.T) {
	env := environ.Default()
	state := motion.Default()
	state.Linear.Velocity = vecmath.New(10, 0, 0)
	state.Angular.AngularVelocity = vecmath.New(-40, 0, 0)
	got := MotionDragScale(state, env)
	if got < 0 || got > 2 {
		t.Errorf("MotionDragScale = %v, out of clamped range [0,2]", got)
	}
}
