package filters

import (
	"byul/vecmath"

	"github.com/gonum/matrix/mat64"
)

// KalmanFilterVec3 is a 3-axis constant-velocity recursive estimator. The
// per-axis error covariance is carried as the diagonal of a 3x3 mat64.Dense
// rather than three bare floats, exercising gonum/matrix the way the
// teacher's estimate.go does for its state-transition bookkeeping (spec.md
// §4.6, SPEC_FULL §4.B). Off-diagonal entries stay zero; the source's model
// never couples axes.
type KalmanFilterVec3 struct {
	Position vecmath.Vec3
	Velocity vecmath.Vec3
	ErrorP   *mat64.Dense // 3x3, diagonal
	Q        float32
	R        float32
	Dt       float32
}

func diag3(x, y, z float64) *mat64.Dense {
	m := mat64.NewDense(3, 3, nil)
	m.Set(0, 0, x)
	m.Set(1, 1, y)
	m.Set(2, 2, z)
	return m
}

// NewKalmanVec3 returns the source's default tuning: unit diagonal error
// covariance, q=0.01, r=1, dt=0.1.
func NewKalmanVec3() *KalmanFilterVec3 {
	return &KalmanFilterVec3{ErrorP: diag3(1, 1, 1), Q: 0.01, R: 1, Dt: 0.1}
}

// NewKalmanVec3Full seeds position/velocity and noise/dt parameters. dt<=0
// falls back to 0.1, matching the source.
func NewKalmanVec3Full(initPos, initVel vecmath.Vec3, processNoise, measurementNoise, dt float32) *KalmanFilterVec3 {
	if dt <= 0 {
		dt = 0.1
	}
	return &KalmanFilterVec3{
		Position: initPos,
		Velocity: initVel,
		ErrorP:   diag3(1, 1, 1),
		Q:        processNoise,
		R:        measurementNoise,
		Dt:       dt,
	}
}

// Assign deep-copies src into the receiver, including its own ErrorP
// matrix (not aliased).
func (kf *KalmanFilterVec3) Assign(src *KalmanFilterVec3) {
	*kf = *src
	cp := mat64.NewDense(3, 3, nil)
	cp.Clone(src.ErrorP)
	kf.ErrorP = cp
}

// TimeUpdate advances position by velocity*dt and grows each axis's error
// covariance by Q.
func (kf *KalmanFilterVec3) TimeUpdate() {
	kf.Position = kf.Position.Add(kf.Velocity.Scale(kf.Dt))
	for i := 0; i < 3; i++ {
		kf.ErrorP.Set(i, i, kf.ErrorP.At(i, i)+float64(kf.Q))
	}
}

// MeasurementUpdate folds in a measured position, re-deriving velocity from
// the position correction and returning the updated position estimate.
func (kf *KalmanFilterVec3) MeasurementUpdate(measuredPos vecmath.Vec3) vecmath.Vec3 {
	prev := kf.Position
	measured := [3]float32{measuredPos.X, measuredPos.Y, measuredPos.Z}
	prevArr := [3]float32{prev.X, prev.Y, prev.Z}
	var newPos [3]float32
	for i := 0; i < 3; i++ {
		p := kf.ErrorP.At(i, i)
		k := p / (p + float64(kf.R))
		newPos[i] = prevArr[i] + float32(k)*(measured[i]-prevArr[i])
		kf.ErrorP.Set(i, i, (1-k)*p)
	}
	kf.Position = vecmath.New(newPos[0], newPos[1], newPos[2])
	kf.Velocity = kf.Position.Sub(prev).Scale(1 / kf.Dt)
	return kf.Position
}

// Project extrapolates the current estimate futureDt seconds ahead under
// constant velocity, without mutating filter state.
func (kf *KalmanFilterVec3) Project(futureDt float32) vecmath.Vec3 {
	return kf.Position.Add(kf.Velocity.Scale(futureDt))
}

// Predict is TimeUpdate followed by MeasurementUpdate.
func (kf *KalmanFilterVec3) Predict(measuredPos vecmath.Vec3) vecmath.Vec3 {
	kf.TimeUpdate()
	return kf.MeasurementUpdate(measuredPos)
}
