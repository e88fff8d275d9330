// Package guidance computes the unit direction a projectile should steer
// toward, from no guidance through moving-target intercept prediction
// (spec.md §4.8), grounded on guidance.{h,cpp} and projectile_guidance.cpp.
package guidance

import (
	"math"

	"byul/bodyprops"
	"byul/environ"
	"byul/motion"
	"byul/numeq/model"
	"byul/numeq/solver"
	"byul/vecmath"
)

// Func computes a unit direction vector for the current projectile state
// and time step. Per spec.md §9 guidance kinds are an open, caller-
// extensible set, so Func stays a plain closure type (mirroring
// environ.Func) rather than a closed sum type.
type Func func(current motion.State, dt float32) vecmath.Vec3

const epsLen = 1e-5

func unitOrZero(v vecmath.Vec3) vecmath.Vec3 {
	if v.Length() < epsLen {
		return vecmath.Zero
	}
	return v.Unit()
}

// None always returns the zero vector: the projectile holds its current
// heading.
func None() Func {
	return func(current motion.State, dt float32) vecmath.Vec3 {
		return vecmath.Zero
	}
}

// Point steers toward a fixed target position.
func Point(targetPos vecmath.Vec3) Func {
	return func(current motion.State, dt float32) vecmath.Vec3 {
		return unitOrZero(targetPos.Sub(current.Linear.Position))
	}
}

// Lead steers toward a moving target's extrapolated position, using the
// time-to-close at the projectile's current speed as the lead time.
func Lead(targetPos, targetVel vecmath.Vec3) Func {
	return func(current motion.State, dt float32) vecmath.Vec3 {
		missileSpeed := current.Linear.Velocity.Length()
		toTarget := targetPos.Sub(current.Linear.Position)
		if missileSpeed < epsLen {
			return unitOrZero(toTarget)
		}
		distance := toTarget.Length()
		leadTime := distance / missileSpeed
		predicted := targetPos.Add(targetVel.Scale(leadTime))
		return unitOrZero(predicted.Sub(current.Linear.Position))
	}
}

// TargetInfo bundles a moving target's kinematic state with the
// environment the intercept prediction runs against (spec.md §4.8
// guidance_target_info_t).
type TargetInfo struct {
	Target      motion.State
	Env         *environ.Environ
	CurrentTime float32
}

func computeInterceptTime(missilePos vecmath.Vec3, missileSpeed float32, targetPos, targetVel vecmath.Vec3) float32 {
	relPos := targetPos.Sub(missilePos)
	a := targetVel.Dot(targetVel) - missileSpeed*missileSpeed
	b := 2.0 * relPos.Dot(targetVel)
	c := relPos.Dot(relPos)

	fallback := relPos.Length() / missileSpeed

	t1, t2, ok := solver.Quadratic(a, b, c)
	if !ok {
		return fallback
	}
	t := t2
	if t1 > 0 {
		t = t1
	}
	if t < 0 {
		return fallback
	}
	return t
}

// Predict steers toward a moving target's intercept point, solving the
// closing-distance quadratic for intercept time (spec.md §4.8
// guidance_predict).
func Predict(info TargetInfo) Func {
	return func(current motion.State, dt float32) vecmath.Vec3 {
		missilePos := current.Linear.Position
		missileSpeed := current.Linear.Velocity.Length()
		if missileSpeed < 0.01 {
			missileSpeed = 0.01
		}

		targetPos := info.Target.Linear.Position
		targetVel := info.Target.Linear.Velocity

		t := computeInterceptTime(missilePos, missileSpeed, targetPos, targetVel)
		predicted := targetPos.Add(targetVel.Scale(t))
		return unitOrZero(predicted.Sub(missilePos))
	}
}

func computeInterceptTimeAccel(missilePos vecmath.Vec3, missileSpeed float32, targetPos, targetVel, targetAcc vecmath.Vec3) float32 {
	p0 := targetPos.Sub(missilePos)
	fallback := p0.Length() / missileSpeed

	A := 0.25 * targetAcc.Dot(targetAcc)
	B := targetVel.Dot(targetAcc)
	C := p0.Dot(targetAcc) + targetVel.Dot(targetVel) - missileSpeed*missileSpeed
	D := 2.0 * p0.Dot(targetVel)
	E := p0.Dot(p0)

	if float32(math.Abs(float64(A))) < 1e-6 {
		x1, x2, ok := solver.Quadratic(C, D, E)
		if !ok {
			return fallback
		}
		t := x2
		if x1 > 0 {
			t = x1
		}
		if t <= 0 {
			return fallback
		}
		return t
	}

	roots, ok := solver.Cubic(A, B, C, D)
	if !ok {
		return fallback
	}
	best, anyFound := float32(math.MaxFloat32), false
	for _, r := range roots {
		if r > 0 && r < best {
			best, anyFound = r, true
		}
	}
	if !anyFound {
		return fallback
	}
	return best
}

func predictedTargetWithAccel(targetPos, targetVel, targetAcc vecmath.Vec3, t float32) vecmath.Vec3 {
	termV := targetVel.Scale(t)
	termA := targetAcc.Scale(0.5 * t * t)
	return targetPos.Add(termV).Add(termA)
}

// PredictAccel steers toward a moving target's intercept point accounting
// for the target's own acceleration, solving the resulting cubic via
// Cardano's method with a quadratic fallback when acceleration is
// negligible (spec.md §4.8 guidance_predict_accel).
func PredictAccel(info TargetInfo) Func {
	return func(current motion.State, dt float32) vecmath.Vec3 {
		missilePos := current.Linear.Position
		missileSpeed := current.Linear.Velocity.Length()
		if missileSpeed < 0.01 {
			missileSpeed = 0.01
		}

		targetPos := info.Target.Linear.Position
		targetVel := info.Target.Linear.Velocity
		targetAcc := info.Target.Linear.Acceleration

		t := computeInterceptTimeAccel(missilePos, missileSpeed, targetPos, targetVel, targetAcc)
		predicted := predictedTargetWithAccel(targetPos, targetVel, targetAcc, t)
		return unitOrZero(predicted.Sub(missilePos))
	}
}

// PredictAccelEnv is PredictAccel, but derives the target's acceleration
// from the environment (gravity, wind, drag) instead of trusting the
// target's stored acceleration field (spec.md §4.8
// guidance_predict_accel_env).
func PredictAccelEnv(info TargetInfo, targetBody bodyprops.BodyProps) Func {
	return func(current motion.State, dt float32) vecmath.Vec3 {
		missilePos := current.Linear.Position
		missileSpeed := current.Linear.Velocity.Length()
		if missileSpeed < 0.01 {
			missileSpeed = 0.01
		}

		targetPos := info.Target.Linear.Position
		targetVel := info.Target.Linear.Velocity
		targetAcc := model.Accel(info.Target.Linear, info.Env, targetBody)

		t := computeInterceptTimeAccel(missilePos, missileSpeed, targetPos, targetVel, targetAcc)
		predicted := predictedTargetWithAccel(targetPos, targetVel, targetAcc, t)
		return unitOrZero(predicted.Sub(missilePos))
	}
}
