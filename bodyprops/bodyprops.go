// Package bodyprops describes the physical properties of a rigid body
// moving through the simulated environment: mass, aerodynamic shape,
// restitution/friction, and spin-coupling coefficients (spec.md §3, §4.2).
package bodyprops

import "byul/vecmath"

// Recommended design ranges for the spin-coupling coefficients (spec.md §4.3).
const (
	KMagnusMin = 0.0
	KMagnusMax = 5.0
	KGyroMin   = 0.0
	KGyroMax   = 4.0
)

// BodyProps holds the physical properties used by the drag, spin, and
// friction models.
type BodyProps struct {
	Mass         float32 // > 0
	DragCoef     float32 // >= 0
	CrossSection float32 // >= 0
	Restitution  float32 // [0,1]
	Friction     float32 // [0,1]
	KMagnus      float32 // Magnus coupling coefficient
	KGyro        float32 // gyroscopic coupling coefficient
}

// Default returns the spec's baseline body: unit mass, no drag, inelastic,
// frictionless, no spin coupling.
func Default() BodyProps {
	return BodyProps{Mass: 1}
}

// ApplyFriction returns v scaled by max(0, 1 - friction*dt), the scalar
// velocity-decay model applied once per integration step after the
// integrator has produced its new velocity (spec.md §4.2).
func (b BodyProps) ApplyFriction(v vecmath.Vec3, dt float32) vecmath.Vec3 {
	scale := 1 - b.Friction*dt
	if scale < 0 {
		scale = 0
	}
	return v.Scale(scale)
}

// EffectiveMass returns b.Mass, or 1 when Mass<=0 — the spec's documented
// fallback so a zero/negative mass never divides acceleration by zero
// (spec.md §4.10 step 3).
func (b BodyProps) EffectiveMass() float32 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}
