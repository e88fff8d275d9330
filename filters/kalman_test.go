package filters

import "testing"

func TestKalmanConvergesTowardConstantMeasurement(t *testing.T) {
	kf := NewKalman()
	var x float32
	for i := 0; i < 50; i++ {
		x = kf.Predict(10)
	}
	if x < 9.9 || x > 10.1 {
		t.Errorf("Kalman after 50 updates = %v, want near 10", x)
	}
}

func TestKalmanGainWithinUnitInterval(t *testing.T) {
	kf := NewKalman()
	kf.Predict(5)
	if kf.K < 0 || kf.K > 1 {
		t.Errorf("Kalman gain = %v, want in [0,1]", kf.K)
	}
}

func TestKalmanAssignIsIndependentCopy(t *testing.T) {
	src := NewKalman()
	src.Predict(3)
	dst := NewKalman()
	dst.Assign(src)
	src.Predict(100)
	if dst.X == src.X {
		t.Error("Assign should copy, not alias state")
	}
}
