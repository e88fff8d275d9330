// Package motion defines the paired linear and rotational state of a
// moving body (spec.md §3), kept separate from Trajectory (the sampled
// history of these states over time).
package motion

import "byul/vecmath"

// LinearState is position/velocity/acceleration.
type LinearState struct {
	Position     vecmath.Vec3
	Velocity     vecmath.Vec3
	Acceleration vecmath.Vec3
}

// AttitudeState is orientation/angular velocity/angular acceleration.
type AttitudeState struct {
	Orientation         vecmath.Quat
	AngularVelocity     vecmath.Vec3
	AngularAcceleration vecmath.Vec3
}

// DefaultAttitude returns the identity orientation at rest.
func DefaultAttitude() AttitudeState {
	return AttitudeState{Orientation: vecmath.QuatIdentity()}
}

// State bundles a LinearState and an AttitudeState.
type State struct {
	Linear  LinearState
	Angular AttitudeState
}

// Default returns a state at rest at the origin with identity orientation.
func Default() State {
	return State{Angular: DefaultAttitude()}
}

// Normalize renormalizes the orientation quaternion, restoring the
// invariant that orientation is always unit after an integrator step
// (spec.md §3).
func (s State) Normalize() State {
	s.Angular.Orientation = s.Angular.Orientation.Normalize()
	return s
}
