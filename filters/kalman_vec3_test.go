package filters

import (
	"testing"

	"byul/vecmath"
)

func TestKalmanVec3ConvergesTowardConstantMeasurement(t *testing.T) {
	kf := NewKalmanVec3()
	target := vecmath.New(5, 5, 5)
	var pos vecmath.Vec3
	for i := 0; i < 50; i++ {
		pos = kf.Predict(target)
	}
	if !pos.AlmostEqual(target, 0.2) {
		t.Errorf("KalmanFilterVec3 after 50 updates = %v, want near %v", pos, target)
	}
}

func TestKalmanVec3ProjectDoesNotMutate(t *testing.T) {
	kf := NewKalmanVec3Full(vecmath.New(0, 0, 0), vecmath.New(1, 0, 0), 0.01, 1, 1)
	before := kf.Position
	_ = kf.Project(10)
	if kf.Position != before {
		t.Error("Project should not mutate filter state")
	}
}

func TestKalmanVec3AssignIsIndependentCopy(t *testing.T) {
	src := NewKalmanVec3()
	src.Predict(vecmath.New(1, 2, 3))
	dst := NewKalmanVec3()
	dst.Assign(src)
	src.Predict(vecmath.New(100, 100, 100))
	if dst.Position == src.Position {
		t.Error("Assign should copy, not alias state")
	}
	dst.ErrorP.Set(0, 0, -999)
	if src.ErrorP.At(0, 0) == -999 {
		t.Error("Assign should deep-copy ErrorP, not alias the matrix")
	}
}

func TestKalmanVec3DefaultDtFallback(t *testing.T) {
	kf := NewKalmanVec3Full(vecmath.Zero, vecmath.Zero, 0.01, 1, -1)
	if kf.Dt != 0.1 {
		t.Errorf("Dt with non-positive input = %v, want fallback 0.1", kf.Dt)
	}
}
