// Package model implements the physics force model: drag, total and
// external-only acceleration, closed-form prediction at time t, spin
// coupling, and the sphere/sphere and sphere/plane continuous collision
// checks (spec.md §4.2, §4.3), grounded on numeq_model.cpp and
// numeq_model_motion.cpp.
package model

import (
	"math"

	"byul/bodyprops"
	"byul/environ"
	"byul/motion"
	"byul/numeq/solver"
	"byul/vecmath"
)

const epsLen = 1e-6

// DragAccel returns the drag acceleration for the given linear state,
// using the relative wind (v - env.WindVel) when env is non-nil. Returns
// zero when the relative speed is below epsLen (spec.md §4.2).
func DragAccel(state motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) vecmath.Vec3 {
	relVel := state.Velocity
	airDensity := float32(1.225)
	if env != nil {
		relVel = state.Velocity.Sub(env.WindVel)
		airDensity = env.AirDensity
	}
	speed := relVel.Length()
	if speed < epsLen {
		return vecmath.Zero
	}
	dragMag := 0.5 * airDensity * speed * speed * body.DragCoef * body.CrossSection
	accelMag := dragMag / body.EffectiveMass()
	return relVel.Unit().Scale(-accelMag)
}

// Accel computes the total linear acceleration: gravity + drag +
// state.Acceleration, then applies the environment's distortion model
// (spec.md §4.2 `model_accel`).
func Accel(state motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) vecmath.Vec3 {
	return AccelScaled(state, env, body, 1)
}

// AccelScaled is Accel with the drag term scaled by dragScale — the hook
// MotionDragScale's spin-vs-relative-wind alignment factor feeds into, so
// a spinning body's drag isn't computed as if it weren't spinning
// (spec.md §4.3 `motion_drag_scale`).
func AccelScaled(state motion.LinearState, env *environ.Environ, body bodyprops.BodyProps, dragScale float32) vecmath.Vec3 {
	g := vecmath.Zero
	if env != nil {
		g = env.Gravity
	}
	a := g.Add(DragAccel(state, env, body).Scale(dragScale)).Add(state.Acceleration)
	if env != nil {
		a = env.DistortAccel(a)
	}
	return a
}

// AccelExceptGravity computes drag + state.Acceleration with gravity
// excluded, via DistortAccelExceptGravity(includeGravity=true) followed by
// subtracting gravity back out (spec.md §4.2 `model_accel_except_gravity`).
func AccelExceptGravity(state motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) vecmath.Vec3 {
	g := vecmath.Zero
	if env != nil {
		g = env.Gravity
	}
	a := g.Add(DragAccel(state, env, body))
	if env != nil {
		a = env.DistortAccelExceptGravity(true, a)
	}
	a = a.Sub(g)
	return a.Add(state.Acceleration)
}

// VelAt returns v(t) = apply_friction(v0,t) + a0*t, where a0 is the total
// acceleration computed at state0 (spec.md §4.3).
func VelAt(t float32, state0 motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) vecmath.Vec3 {
	a0 := Accel(state0, env, body)
	v0 := body.ApplyFriction(state0.Velocity, t)
	return v0.Add(a0.Scale(t))
}

// PosAt returns p(t) = p0 + v0*t + 0.5*a0*t^2 (spec.md §4.3).
func PosAt(t float32, state0 motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) vecmath.Vec3 {
	a0 := Accel(state0, env, body)
	return state0.Position.Add(state0.Velocity.Scale(t)).Add(a0.Scale(0.5 * t * t))
}

// AccelAt returns a(t), recomputing drag from v(t) so drag is not frozen
// at t=0 (spec.md §4.3).
func AccelAt(t float32, state0 motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) vecmath.Vec3 {
	if t <= 0 {
		return Accel(state0, env, body)
	}
	v := VelAt(t, state0, env, body)
	atState := motion.LinearState{Velocity: v}
	g := vecmath.Zero
	if env != nil {
		g = env.Gravity
	}
	a := g.Add(DragAccel(atState, env, body))
	if env != nil {
		a = env.DistortAccel(a)
	}
	return a
}

// PredictAt fills position/velocity/acceleration at time t in one call.
func PredictAt(t float32, state0 motion.LinearState, env *environ.Environ, body bodyprops.BodyProps) motion.LinearState {
	return motion.LinearState{
		Position:     PosAt(t, state0, env, body),
		Velocity:     VelAt(t, state0, env, body),
		Acceleration: AccelAt(t, state0, env, body),
	}
}

// PredictRK4 integrates state0 forward by t seconds using `steps`
// RK4-env sub-steps (spec.md §4.3 `predict_rk4`).
func PredictRK4(t float32, state0 motion.LinearState, env *environ.Environ, body bodyprops.BodyProps, steps int) motion.LinearState {
	if steps <= 0 || t <= 0 {
		return state0
	}
	dt := t / float32(steps)
	s := state0
	deriv := func(st motion.LinearState) (dp, dv vecmath.Vec3) {
		st.Acceleration = state0.Acceleration
		return st.Velocity, Accel(st, env, body)
	}
	for i := 0; i < steps; i++ {
		p0, v0 := s.Position, s.Velocity
		dp1, dv1 := deriv(s)

		s1 := motion.LinearState{Position: p0.Add(dp1.Scale(dt / 2)), Velocity: v0.Add(dv1.Scale(dt / 2))}
		dp2, dv2 := deriv(s1)

		s2 := motion.LinearState{Position: p0.Add(dp2.Scale(dt / 2)), Velocity: v0.Add(dv2.Scale(dt / 2))}
		dp3, dv3 := deriv(s2)

		s3 := motion.LinearState{Position: p0.Add(dp3.Scale(dt)), Velocity: v0.Add(dv3.Scale(dt))}
		dp4, dv4 := deriv(s3)

		s.Position = p0.Add(dp1.Add(dp2.Scale(2)).Add(dp3.Scale(2)).Add(dp4).Scale(dt / 6))
		s.Velocity = v0.Add(dv1.Add(dv2.Scale(2)).Add(dv3.Scale(2)).Add(dv4).Scale(dt / 6))
		s.Acceleration = dv4
	}
	return s
}

// Bounce computes the post-collision velocity from a vector reflection
// with restitution e (clamped to [0,1]). Returns velocityIn unchanged and
// false when normal is degenerate (SPEC_FULL §4.C — supplemented from numeq_model_bounce).
func Bounce(velocityIn, normal vecmath.Vec3, restitution float32) (vecmath.Vec3, bool) {
	e := restitution
	if e < 0 {
		e = 0
	} else if e > 1 {
		e = 1
	}
	n := normal
	nLen := n.Length()
	if nLen < epsLen {
		return velocityIn, false
	}
	n = n.Scale(1 / nLen)
	vn := velocityIn.Dot(n)
	vNormal := n.Scale(vn)
	vTangent := velocityIn.Sub(vNormal)
	return vTangent.Sub(vNormal.Scale(e)), true
}

// PredictCollision solves for the earliest non-negative time two spheres
// (my/other, combined radius radiusSum) collide under constant relative
// velocity (spec.md §4.3). When the relative acceleration is non-zero,
// the current spec treats this as "no prediction" and returns ok=false —
// the ticker's per-substep CCD covers the accelerated case.
func PredictCollision(my, other motion.LinearState, radiusSum float32) (t float32, point vecmath.Vec3, ok bool) {
	pRel := my.Position.Sub(other.Position)
	vRel := my.Velocity.Sub(other.Velocity)
	aRel := my.Acceleration.Sub(other.Acceleration)

	distSq := pRel.LengthSq()
	if distSq <= radiusSum*radiusSum {
		mid := my.Position.Add(other.Position).Scale(0.5)
		return 0, mid, true
	}

	if aRel != vecmath.Zero {
		return 0, vecmath.Zero, false
	}

	A := vRel.LengthSq()
	B := 2 * pRel.Dot(vRel)
	C := distSq - radiusSum*radiusSum

	x1, x2, qok := solver.Quadratic(A, B, C)
	if !qok {
		return 0, vecmath.Zero, false
	}
	time, tok := solver.SmallestNonNegative(x1, x2)
	if !tok {
		return 0, vecmath.Zero, false
	}
	pa := my.Position.Add(my.Velocity.Scale(time))
	pb := other.Position.Add(other.Velocity.Scale(time))
	return time, pa.Add(pb).Scale(0.5), true
}

// PredictCollisionPlane solves for the earliest forward-time intersection
// of a moving sphere (radiusSum) with a half-space plane (spec.md §4.3).
func PredictCollisionPlane(my motion.LinearState, planePoint, planeNormal vecmath.Vec3, radiusSum float32) (t float32, point vecmath.Vec3, ok bool) {
	dist := pointPlaneDistance(my.Position, planePoint, planeNormal)
	if absf(dist) <= radiusSum {
		return 0, my.Position, true
	}
	if my.Velocity == vecmath.Zero {
		return 0, vecmath.Zero, false
	}
	denom := my.Velocity.Dot(planeNormal)
	if absf(denom) < 1e-6 {
		return 0, vecmath.Zero, false
	}
	offsetPoint := planePoint.Sub(planeNormal.Scale(radiusSum))
	time, hit, rok := rayPlaneIntersect(my.Position, my.Velocity, offsetPoint, planeNormal)
	if !rok || time < 0 {
		return 0, vecmath.Zero, false
	}
	return time, hit, true
}

func pointPlaneDistance(p, planePoint, planeNormal vecmath.Vec3) float32 {
	n := planeNormal.Unit()
	return p.Sub(planePoint).Dot(n)
}

func rayPlaneIntersect(origin, dir, planePoint, planeNormal vecmath.Vec3) (t float32, hit vecmath.Vec3, ok bool) {
	n := planeNormal.Unit()
	denom := dir.Dot(n)
	if absf(denom) < 1e-9 {
		return 0, vecmath.Zero, false
	}
	t = planePoint.Sub(origin).Dot(n) / denom
	return t, origin.Add(dir.Scale(t)), true
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// CalcSpinAccel returns the Magnus + gyroscopic acceleration contribution
// for one integration step (spec.md §4.3 `calc_spin_accel`).
func CalcSpinAccel(velocity, angularVelocity, angularAccel vecmath.Vec3, dt, kMagnus, kGyro float32) vecmath.Vec3 {
	if dt <= 0 {
		return vecmath.Zero
	}
	magnus := angularVelocity.Cross(velocity).Scale(kMagnus)
	gyro := angularAccel.Cross(velocity).Scale(kGyro * dt)
	return magnus.Add(gyro)
}

// Drag-scale-under-spin tunables (spec.md §9 Open Questions — retained
// verbatim from the source as magic constants, flagged as tunables).
const (
	SpinDragReductionCap = 0.30
	SpinDragPenaltyCap   = 0.15
	MaxEffectiveSpin     = 50.0
)

// MotionDragScale computes the drag scale factor induced by spin-axis vs
// relative-wind alignment (spec.md §4.3 `motion_drag_scale`).
func MotionDragScale(state motion.State, env *environ.Environ) float32 {
	if env == nil {
		return 1
	}
	relVel := state.Linear.Velocity.Sub(env.WindVel)
	vSq := relVel.LengthSq()
	wSq := state.Angular.AngularVelocity.LengthSq()
	if vSq <= epsLen || wSq <= epsLen {
		return 1
	}
	vDir := relVel.Unit()
	spinDir := state.Angular.AngularVelocity.Unit()
	alignment := vDir.Dot(spinDir)
	alignmentAbs := absf(alignment)

	spinMag := float32(math.Sqrt(float64(wSq)))
	spinFactor := spinMag / MaxEffectiveSpin
	if spinFactor > 1 {
		spinFactor = 1
	}

	var reduction float32
	if alignment > 0 {
		reduction = SpinDragReductionCap * alignmentAbs * spinFactor
	}

	var penalty float32
	if alignment < 0.5 {
		misalign := (0.5 - alignment) / 1.5
		penalty = SpinDragPenaltyCap * misalign * spinFactor
	}

	scale := 1 - reduction + penalty
	if scale < 0 {
		scale = 0
	} else if scale > 2 {
		scale = 2
	}
	return scale
}
