package environ

import "byul/vecmath"

// DistortAccel applies the environment's distortion model to accel as-is,
// without separating gravity (spec.md §3). The model is a pure scale by
// AirDensity/1.225 (see densityScale); humidity and wind do not enter it.
// A zero input returns the zero vector.
func (e *Environ) DistortAccel(accel vecmath.Vec3) vecmath.Vec3 {
	if accel == vecmath.Zero {
		return vecmath.Zero
	}
	return accel.Scale(e.densityScale())
}

// DistortAccelExceptGravity implements the gravity-preserving variant
// (spec.md §3). When includeGravity is true, accel is assumed to be
// ext+gravity: gravity is split out, the remainder distorted, and gravity
// re-added. When false, accel is assumed external-only and the result
// excludes gravity entirely.
func (e *Environ) DistortAccelExceptGravity(includeGravity bool, accel vecmath.Vec3) vecmath.Vec3 {
	if includeGravity {
		ext := accel.Sub(e.Gravity)
		return e.DistortAccel(ext).Add(e.Gravity)
	}
	return e.DistortAccel(accel)
}

// densityScale derives a unitless attenuation factor from air density
// relative to the standard 1.225 kg/m^3 baseline. Humidity and
// temperature are advisory per spec.md §3 and do not independently scale
// the result beyond their influence on density in a full atmosphere
// model; this keeps the distortion operator a simple, testable function
// of the one quantity the rest of the model already treats as load
// bearing (drag, via numeq/model).
func (e *Environ) densityScale() float32 {
	if e.AirDensity <= 0 {
		return 1
	}
	return e.AirDensity / 1.225
}
