package control

import "byul/vecmath"

// Vec3PID is three independent scalar PIDs, one per axis (spec.md §4.7).
type Vec3PID struct {
	X, Y, Z PID
}

// NewVec3PID returns three default-tuned axes.
func NewVec3PID() *Vec3PID {
	return &Vec3PID{X: *NewPID(), Y: *NewPID(), Z: *NewPID()}
}

// NewVec3PIDFull returns three axes sharing the same explicit gains/period.
func NewVec3PIDFull(kp, ki, kd, dt float32) *Vec3PID {
	return &Vec3PID{X: *NewPIDFull(kp, ki, kd, dt), Y: *NewPIDFull(kp, ki, kd, dt), Z: *NewPIDFull(kp, ki, kd, dt)}
}

// NewVec3PIDAuto auto-tunes all three axes from dt.
func NewVec3PIDAuto(dt float32) *Vec3PID {
	return &Vec3PID{X: *NewPIDAuto(dt), Y: *NewPIDAuto(dt), Z: *NewPIDAuto(dt)}
}

// Assign deep-copies src into the receiver.
func (v *Vec3PID) Assign(src *Vec3PID) { *v = *src }

// Reset resets all three axes.
func (v *Vec3PID) Reset() {
	v.X.Reset()
	v.Y.Reset()
	v.Z.Reset()
}

// SetState sets integral/prev-error per axis.
func (v *Vec3PID) SetState(integral, prevError vecmath.Vec3) {
	v.X.SetState(integral.X, prevError.X)
	v.Y.SetState(integral.Y, prevError.Y)
	v.Z.SetState(integral.Z, prevError.Z)
}

// Update runs all three axis PIDs independently.
func (v *Vec3PID) Update(target, measured vecmath.Vec3) vecmath.Vec3 {
	return vecmath.New(
		v.X.Update(target.X, measured.X),
		v.Y.Update(target.Y, measured.Y),
		v.Z.Update(target.Z, measured.Z),
	)
}

// Preview runs all three axis previews without mutating state.
func (v *Vec3PID) Preview(target, measured vecmath.Vec3) vecmath.Vec3 {
	return vecmath.New(
		v.X.Preview(target.X, measured.X),
		v.Y.Preview(target.Y, measured.Y),
		v.Z.Preview(target.Z, measured.Z),
	)
}
