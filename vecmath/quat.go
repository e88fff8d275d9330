package vecmath

import (
	"fmt"
	"math"
)

// Quat is a unit-quaternion using (w, x, y, z) ordering.
type Quat struct {
	W, X, Y, Z float32
}

// EulerOrder names the axis sequence used when converting to/from Euler
// angles. ZYX is the library-wide default (SPEC_FULL §9); any other order
// must be passed explicitly at the call site.
type EulerOrder int

const (
	EulerOrderZYX EulerOrder = iota
	EulerOrderXYZ
	EulerOrderZXY
)

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// Mul returns the Hamilton product a⊗b (apply b first, then a).
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
	}
}

// Add returns a+b component-wise. Used internally by Slerp.
func (a Quat) Add(b Quat) Quat {
	return Quat{a.W + b.W, a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Scale returns a*s component-wise.
func (a Quat) Scale(s float32) Quat {
	return Quat{a.W * s, a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the 4-component dot product.
func (a Quat) Dot(b Quat) float32 {
	return a.W*b.W + a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Length returns the quaternion's 4-component norm.
func (a Quat) Length() float32 {
	return float32(math.Sqrt(float64(a.Dot(a))))
}

// Normalize returns a/|a|. A near-zero quaternion is returned as identity
// rather than dividing by ~0, since a degenerate quaternion has no
// meaningful orientation.
func (a Quat) Normalize() Quat {
	l := a.Length()
	if l < 1e-8 {
		return QuatIdentity()
	}
	return a.Scale(1 / l)
}

// Conjugate returns (w, -x, -y, -z).
func (a Quat) Conjugate() Quat {
	return Quat{a.W, -a.X, -a.Y, -a.Z}
}

// Inverse is the conjugate for a unit quaternion (spec.md §3).
func (a Quat) Inverse() Quat {
	return a.Conjugate()
}

// RotateVector rotates v by q using v' = q·v·q* with v embedded as a pure
// imaginary quaternion.
func (a Quat) RotateVector(v Vec3) Vec3 {
	p := Quat{0, v.X, v.Y, v.Z}
	r := a.Mul(p).Mul(a.Conjugate())
	return Vec3{r.X, r.Y, r.Z}
}

// Slerp performs shortest-arc spherical interpolation between a and b at
// parameter t∈[0,1], falling back to QuatLerp when the quaternions
// are nearly parallel (spec.md §4.1).
func Slerp(a, b Quat, t float32) Quat {
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b.W, -b.X, -b.Y, -b.Z}
		d = -d
	}
	if d > 1-1e-5 {
		return QuatLerp(a, b, t)
	}
	theta := float32(math.Acos(float64(d)))
	sinTheta := float32(math.Sin(float64(theta)))
	s0 := float32(math.Sin(float64((1-t)*theta))) / sinTheta
	s1 := float32(math.Sin(float64(t*theta))) / sinTheta
	return a.Scale(s0).Add(b.Scale(s1)).Normalize()
}

// QuatLerp performs normalized linear interpolation between a and b.
func QuatLerp(a, b Quat, t float32) Quat {
	return Quat{
		a.W + (b.W-a.W)*t,
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}.Normalize()
}

// FromAxisAngle builds a rotation of `angle` radians about `axis` (need not
// be unit length).
func FromAxisAngle(axis Vec3, angle float32) Quat {
	u := axis.Unit()
	half := angle * 0.5
	s := float32(math.Sin(float64(half)))
	c := float32(math.Cos(float64(half)))
	return Quat{c, u.X * s, u.Y * s, u.Z * s}
}

// FromAngularVelocity builds the rotation accumulated over dt seconds at
// angular velocity ω, returning identity when the rotation is below the
// numerical noise floor (spec.md §4.1).
func FromAngularVelocity(omega Vec3, dt float32) Quat {
	speed := omega.Length()
	angle := speed * dt
	if angle < 1e-5 {
		return QuatIdentity()
	}
	return FromAxisAngle(omega.Scale(1/speed), angle)
}

// ToAxisAngle extracts the rotation axis and angle. The zero rotation
// yields an arbitrary unit axis (+X) and angle 0.
func (a Quat) ToAxisAngle() (axis Vec3, angle float32) {
	q := a.Normalize()
	angle = 2 * float32(math.Acos(clamp32(float64(q.W), -1, 1)))
	s := float32(math.Sqrt(float64(1 - q.W*q.W)))
	if s < 1e-6 {
		return Vec3{1, 0, 0}, angle
	}
	return Vec3{q.X / s, q.Y / s, q.Z / s}, angle
}

func clamp32(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FromEuler constructs a quaternion from Euler angles (radians) applied in
// the given order. ZYX (the library default) composes as Rz * Ry * Rx.
func FromEuler(x, y, z float32, order EulerOrder) Quat {
	hx, hy, hz := x*0.5, y*0.5, z*0.5
	sx, cx := math.Sincos(float64(hx))
	sy, cy := math.Sincos(float64(hy))
	sz, cz := math.Sincos(float64(hz))
	qx := Quat{float32(cx), float32(sx), 0, 0}
	qy := Quat{float32(cy), 0, float32(sy), 0}
	qz := Quat{float32(cz), 0, 0, float32(sz)}
	switch order {
	case EulerOrderXYZ:
		return qx.Mul(qy).Mul(qz)
	case EulerOrderZXY:
		return qy.Mul(qx).Mul(qz)
	default: // EulerOrderZYX
		return qz.Mul(qy).Mul(qx)
	}
}

// ToEuler extracts Euler angles (radians) in the given order, the inverse
// of FromEuler for that same order. Uses the standard asin-based
// extraction with a gimbal-lock clamp.
func (a Quat) ToEuler(order EulerOrder) (x, y, z float32) {
	q := a.Normalize()
	switch order {
	case EulerOrderXYZ:
		sinp := 2 * (q.W*q.Y + q.X*q.Z)
		if sinp > 1 {
			sinp = 1
		} else if sinp < -1 {
			sinp = -1
		}
		sinxCosp := 2 * (q.W*q.X - q.Z*q.Y)
		cosxCosp := 1 - 2*(q.Y*q.Y+q.X*q.X)
		x = float32(math.Atan2(float64(sinxCosp), float64(cosxCosp)))
		y = float32(math.Asin(float64(sinp)))
		sinzCosp := 2 * (q.W*q.Z - q.Y*q.X)
		coszCosp := 1 - 2*(q.Z*q.Z+q.Y*q.Y)
		z = float32(math.Atan2(float64(sinzCosp), float64(coszCosp)))
		return x, y, z
	case EulerOrderZXY:
		sinp := 2 * (q.W*q.X - q.Y*q.Z)
		if sinp > 1 {
			sinp = 1
		} else if sinp < -1 {
			sinp = -1
		}
		sinyCosp := 2 * (q.W*q.Y + q.Z*q.X)
		cosyCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
		y = float32(math.Atan2(float64(sinyCosp), float64(cosyCosp)))
		x = float32(math.Asin(float64(sinp)))
		sinzCosp := 2 * (q.W*q.Z + q.X*q.Y)
		coszCosp := 1 - 2*(q.Z*q.Z+q.X*q.X)
		z = float32(math.Atan2(float64(sinzCosp), float64(coszCosp)))
		return x, y, z
	default: // EulerOrderZYX, the library-wide default (spec.md §9).
		sinp := 2 * (q.W*q.Y - q.Z*q.X)
		if sinp > 1 {
			sinp = 1
		} else if sinp < -1 {
			sinp = -1
		}
		sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
		cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
		roll := float32(math.Atan2(float64(sinrCosp), float64(cosrCosp)))
		pitch := float32(math.Asin(float64(sinp)))
		sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
		cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
		yaw := float32(math.Atan2(float64(sinyCosp), float64(cosyCosp)))
		return roll, pitch, yaw
	}
}

// Forward, Up, Right extract the body-frame basis vectors implied by the
// orientation (local -Z / +Y / +X rotated into world space, matching the
// source's `quat_get_forward/up/right`).
func (a Quat) Forward() Vec3 { return a.RotateVector(Vec3{0, 0, -1}) }
func (a Quat) Up() Vec3      { return a.RotateVector(Vec3{0, 1, 0}) }
func (a Quat) Right() Vec3   { return a.RotateVector(Vec3{1, 0, 0}) }

// String implements fmt.Stringer.
func (a Quat) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f, %.6f)", a.W, a.X, a.Y, a.Z)
}
