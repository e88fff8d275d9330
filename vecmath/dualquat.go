package vecmath

// DualQuat combines a rotation and translation into one algebraic object,
// real = rotation, dual = 0.5*translation-as-pure-quat ⊗ real (standard
// dual-quaternion rigid-transform convention), grounded on
// numal/dualquat.hpp. It is a standalone type: entities keep position and
// orientation in motion.State and do not compose them through DualQuat.
type DualQuat struct {
	Real Quat
	Dual Quat
}

// DualQuatIdentity returns the no-op rigid transform.
func DualQuatIdentity() DualQuat {
	return DualQuat{Real: QuatIdentity()}
}

// FromQuatVec builds a DualQuat from a rotation and a translation vector.
func FromQuatVec(rot Quat, trans Vec3) DualQuat {
	t := Quat{0, trans.X, trans.Y, trans.Z}
	dual := t.Mul(rot).Scale(0.5)
	return DualQuat{Real: rot, Dual: dual}
}

// ToQuatVec extracts the rotation and translation components.
func (d DualQuat) ToQuatVec() (rot Quat, trans Vec3) {
	rot = d.Real
	t := d.Dual.Scale(2).Mul(d.Real.Conjugate())
	trans = Vec3{t.X, t.Y, t.Z}
	return rot, trans
}

// Mul composes two rigid transforms: apply b first, then a.
func (a DualQuat) Mul(b DualQuat) DualQuat {
	return DualQuat{
		Real: a.Real.Mul(b.Real),
		Dual: a.Real.Mul(b.Dual).Add(a.Dual.Mul(b.Real)),
	}
}

// Normalize renormalizes the dual quaternion so Real is unit and Dual
// remains orthogonal to it, correcting drift after repeated composition.
func (a DualQuat) Normalize() DualQuat {
	l := a.Real.Length()
	if l < 1e-8 {
		return DualQuatIdentity()
	}
	real := a.Real.Scale(1 / l)
	dual := a.Dual.Scale(1 / l)
	// Remove any component of dual along real (keeps the transform rigid).
	proj := real.Dot(dual)
	dual = dual.Add(real.Scale(-proj))
	return DualQuat{Real: real, Dual: dual}
}
