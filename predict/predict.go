// Package predict runs an offline, fixed-dt forward simulation of a
// projectile against an optional target and a ground plane at y=0,
// recording a trajectory and the first ground or target impact (spec.md
// §4.10), grounded on projectile_predict.cpp.
package predict

import (
	"math"

	"byul/entity"
	"byul/environ"
	"byul/guidance"
	"byul/propulsion"
	"byul/trajectory"
	"byul/vecmath"

	kitlog "github.com/go-kit/kit/log"
)

// Result mirrors projectile_result_t: the run's inputs, its outcome, and
// the recorded trajectory.
type Result struct {
	StartPos        vecmath.Vec3
	TargetPos       vecmath.Vec3
	InitialVelocity vecmath.Vec3

	Impacted   bool
	ImpactTime float32 // -1 when Impacted is false
	ImpactPos  vecmath.Vec3

	Trajectory *trajectory.Trajectory
}

// stepCapacity sizes a trajectory buffer for maxTime/dt fixed steps plus
// the initial sample (max_steps = ceil(max_time/dt)).
func stepCapacity(maxTime, dt float32) int {
	steps := int(math.Ceil(float64(maxTime / dt)))
	if steps < 1 {
		steps = 1
	}
	return steps + 1
}

func newResult(proj *entity.Projectile, target *entity.Dynamic, capacity int) *Result {
	targetPos := vecmath.Zero
	if target != nil {
		targetPos = target.State.Linear.Position
	}
	traj, _ := trajectory.New(capacity)
	return &Result{
		StartPos:        proj.Base.State.Linear.Position,
		TargetPos:       targetPos,
		InitialVelocity: proj.Base.State.Linear.Velocity,
		ImpactTime:      -1,
		Trajectory:      traj,
	}
}

// ForceScalar estimates the initial propulsive force from the first two
// trajectory samples (spec.md §4.10 `projectile_result_calc_initial_force_scalar`).
func (r *Result) ForceScalar(mass float32) float32 {
	if r.Trajectory == nil || r.Trajectory.Len() < 2 {
		return 0
	}
	s0, s1 := r.Trajectory.Sample(0), r.Trajectory.Sample(1)
	dt := s1.T - s0.T
	if dt <= 1e-6 {
		return 0
	}
	dv := s1.State.Linear.Velocity.Sub(s0.State.Linear.Velocity).Scale(1 / dt)
	return mass * dv.Length()
}

// --- ground-plane continuous collision detection --------------------------

// solveGroundHitTimeInterval finds the fraction alpha in [0,1] at which
// y(t) = y0 + vy*t + 0.5*ay*t^2 crosses zero within [0,dt]
// (solve_ground_hit_time_interval).
func solveGroundHitTimeInterval(y0, vy, ay, dt float32) (alpha float32, ok bool) {
	if absf32(ay) < 1e-6 {
		if absf32(vy) < 1e-6 {
			return 0, false
		}
		a := -y0 / (vy * dt)
		return a, a >= 0 && a <= 1
	}

	a := 0.5 * ay
	b := vy
	c := y0
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	tHit := float32(-1)
	if t1 >= 0 && t1 <= dt {
		tHit = t1
	} else if t2 >= 0 && t2 <= dt {
		tHit = t2
	}
	if tHit < 0 {
		return 0, false
	}
	return tHit / dt, true
}

// detectGroundCollision checks whether the projectile crossed y=0 during
// this step and, if so, solves for the precise crossing point
// (detect_ground_collision_precise).
func detectGroundCollision(posPrev, posCurr, velPrev, accel vecmath.Vec3, tPrev, dt float32) (impactPos vecmath.Vec3, impactTime float32, ok bool) {
	if !(posPrev.Y > 0 && posCurr.Y <= 0) {
		return vecmath.Zero, 0, false
	}
	alpha, solved := solveGroundHitTimeInterval(posPrev.Y, velPrev.Y, accel.Y, dt)
	if !solved {
		return vecmath.Zero, 0, false
	}
	impactTime = tPrev + alpha*dt
	impactPos = vecmath.Lerp(posPrev, posCurr, alpha)
	impactPos.Y = 0
	return impactPos, impactTime, true
}

// --- target-sphere continuous collision detection --------------------------

// solveEntityHitTime solves |relP + relV*t + 0.5*relA*t^2|^2 = R^2 for the
// smallest t in [0,dt] (solve_entity_hit_time).
func solveEntityHitTime(relP, relV, relA vecmath.Vec3, radius, dt float32) (tHit float32, ok bool) {
	halfA := relA.Scale(0.5)

	a := relV.Dot(relV) + 2*relV.Dot(halfA) + halfA.Dot(halfA)
	b := 2 * (relP.Dot(relV) + relP.Dot(halfA))
	c := relP.Dot(relP) - radius*radius

	if absf32(a) < epsFloat {
		t, lok := solveLinear(b, c)
		if !lok {
			return 0, false
		}
		if t >= 0 && t <= dt {
			return t, true
		}
		return 0, false
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))
	x1 := (-b - sqrtDisc) / (2 * a)
	x2 := (-b + sqrtDisc) / (2 * a)

	found := false
	best := dt + 1
	if x1 >= 0 && x1 <= dt {
		best, found = x1, true
	}
	if x2 >= 0 && x2 <= dt && (!found || x2 < best) {
		best, found = x2, true
	}
	if !found {
		return 0, false
	}
	return best, true
}

func solveLinear(b, c float32) (float32, bool) {
	if absf32(b) < epsFloat {
		return 0, false
	}
	return -c / b, true
}

const epsFloat = 1e-6

func posAtQuadratic(p, v, a vecmath.Vec3, t float32) vecmath.Vec3 {
	return p.Add(v.Scale(t)).Add(a.Scale(0.5 * t * t))
}

// detectEntityCollision checks whether the projectile entered the target
// sphere during this step, with an immediate-overlap fast path and a
// linear-interpolation fallback for coarse sampling intervals
// (detect_entity_collision_precise).
func detectEntityCollision(projPosPrev, projVelPrev, projAccel, targetPos vecmath.Vec3, targetRadius, dt, tPrev float32) (impactPos vecmath.Vec3, impactTime float32, ok bool) {
	relP := projPosPrev.Sub(targetPos)
	relV := projVelPrev
	relA := projAccel

	dPrev := relP.Length()
	relCurr := posAtQuadratic(relP, relV, relA, dt)
	dCurr := relCurr.Length()

	if dPrev <= targetRadius {
		return projPosPrev, tPrev, true
	}

	if tLocal, solved := solveEntityHitTime(relP, relV, relA, targetRadius, dt); solved {
		impactTime = tPrev + tLocal
		impactPos = posAtQuadratic(relP, relV, relA, tLocal).Add(targetPos)
		return impactPos, impactTime, true
	}

	if dPrev > targetRadius && dCurr < targetRadius {
		ratio := (dPrev - targetRadius) / (dPrev - dCurr)
		approxT := ratio * dt
		if approxT < 0 {
			approxT = 0
		} else if approxT > dt {
			approxT = dt
		}
		impactTime = tPrev + approxT
		impactPos = posAtQuadratic(relP, relV, relA, approxT).Add(targetPos)
		return impactPos, impactTime, true
	}
	return vecmath.Zero, 0, false
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// thrustAccel computes the guidance-directed thrust acceleration for this
// step, or zero when there's no fuel or no propulsion plant.
func thrustAccel(prop *propulsion.Propulsion, dir vecmath.Vec3, mass float32) vecmath.Vec3 {
	if prop == nil || prop.FuelRemaining <= 0 {
		return vecmath.Zero
	}
	return dir.Scale(prop.Thrust() / mass)
}

func envAccel(env *environ.Environ) vecmath.Vec3 {
	if env == nil {
		return vecmath.Zero
	}
	return env.Accel()
}

func guidanceDirection(fn guidance.Func, proj *entity.Projectile, target *entity.Dynamic, dt float32) vecmath.Vec3 {
	current := proj.Base.State
	if fn != nil {
		return fn(current, dt)
	}
	if target != nil {
		d := target.State.Linear.Position.Sub(current.Linear.Position)
		if d.Length() > vecmath.EpsLen {
			return d.Unit()
		}
	}
	return vecmath.Zero
}

func logImpact(logger kitlog.Logger, kind string, r *Result) {
	if logger == nil {
		return
	}
	logger.Log("event", kind, "impact_time", r.ImpactTime, "impact_pos", r.ImpactPos)
}
