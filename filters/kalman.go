// Package filters provides recursive state estimators: a scalar constant-
// value Kalman filter and a 3-axis constant-velocity variant, plus a small
// FilterInterface (spec.md §4.6), grounded on numeq_kalman.{h,cpp}. Only
// KalmanFilterVec3 implements FilterInterface; the scalar KalmanFilter
// does not.
package filters

// KalmanFilter is a scalar recursive estimator (time update + measurement
// update). The zero value is not ready to use; call NewKalman or
// NewKalmanFull.
type KalmanFilter struct {
	X float32 // state estimate
	P float32 // estimate error covariance
	Q float32 // process noise
	R float32 // measurement noise
	K float32 // last computed gain
}

// NewKalman returns the source's default tuning: x=0, p=1, q=0.01, r=1.
func NewKalman() *KalmanFilter {
	return &KalmanFilter{P: 1, Q: 0.01, R: 1}
}

// NewKalmanFull returns a filter seeded with explicit initial state and
// noise parameters.
func NewKalmanFull(initX, initP, processNoise, measurementNoise float32) *KalmanFilter {
	return &KalmanFilter{X: initX, P: initP, Q: processNoise, R: measurementNoise}
}

// Assign deep-copies src into the receiver.
func (kf *KalmanFilter) Assign(src *KalmanFilter) { *kf = *src }

// TimeUpdate advances the error covariance under the constant-value process
// model (x is unchanged, P grows by Q).
func (kf *KalmanFilter) TimeUpdate() {
	kf.P += kf.Q
}

// MeasurementUpdate folds in a new measurement and returns the updated
// state estimate.
func (kf *KalmanFilter) MeasurementUpdate(measured float32) float32 {
	kf.K = kf.P / (kf.P + kf.R)
	kf.X = kf.X + kf.K*(measured-kf.X)
	kf.P = (1 - kf.K) * kf.P
	return kf.X
}

// Predict is TimeUpdate followed by MeasurementUpdate, matching the typical
// per-tick usage pattern (spec.md §4.6).
func (kf *KalmanFilter) Predict(measured float32) float32 {
	kf.TimeUpdate()
	return kf.MeasurementUpdate(measured)
}
