package filters

import "byul/vecmath"

// FilterInterface is the open-set contract a caller can implement to plug
// in a custom estimator wherever the engine accepts a filter (spec.md
// §4.6, §9: open sets stay plain interfaces, not a closed enumeration).
type FilterInterface interface {
	// Predict advances the filter one step and folds in a new position
	// measurement, returning the updated position estimate.
	Predict(measuredPos vecmath.Vec3) vecmath.Vec3
}

var (
	_ FilterInterface = (*KalmanFilterVec3)(nil)
)
