package predict

import (
	"byul/entity"
	"byul/environ"
	"byul/filters"
	"byul/guidance"
	"byul/numeq/integrator"
	"byul/propulsion"
	"byul/trajectory"
	"byul/vecmath"

	kitlog "github.com/go-kit/kit/log"
)

// stepLoop runs the fixed-dt driver shared by the filtered variants: per
// step it accumulates environment + guided thrust acceleration, lets
// smooth reassign the (possibly filtered) position/velocity before the
// RK4-env integrator advances the state, records a sample, and checks
// ground/target collision (projectile_predict_with_kalman_filter /
// projectile_predict_with_filter).
func stepLoop(proj *entity.Projectile, target *entity.Dynamic, env *environ.Environ, prop *propulsion.Propulsion, guidanceFn guidance.Func, maxTime, dt float32, logger kitlog.Logger, smooth func(pos, vel vecmath.Vec3) (vecmath.Vec3, vecmath.Vec3)) *Result {
	if dt <= 0 || maxTime <= 0 {
		return newResult(proj, target, trajectory.DefaultCapacity)
	}
	result := newResult(proj, target, stepCapacity(maxTime, dt))

	targetRadius := float32(0)
	if target != nil {
		targetRadius = target.Size()
	}
	mass := proj.Base.Props.EffectiveMass()
	step := integrator.NewMotionRK4Env(dt, env, proj.Base.Props)

	maxSteps := stepCapacity(maxTime, dt) - 1
	t := float32(0)
	for i := 0; i < maxSteps; i, t = i+1, t+dt {
		posPrev := proj.Base.State.Linear.Position
		velPrev := proj.Base.State.Linear.Velocity

		dir := guidanceDirection(guidanceFn, proj, target, dt)
		if prop != nil {
			prop.Update(prop.MaxThrust, dt)
		}
		accel := envAccel(env).Add(thrustAccel(prop, dir, mass))
		proj.Base.State.Linear.Acceleration = accel

		filteredPos, filteredVel := smooth(proj.Base.State.Linear.Position, proj.Base.State.Linear.Velocity)
		proj.Base.State.Linear.Position = filteredPos
		proj.Base.State.Linear.Velocity = filteredVel

		result.Trajectory.Append(trajectory.Sample{T: t, State: proj.Base.State})

		next, _ := step.Step(proj.Base.State)
		proj.Base.State = next

		if target != nil {
			distPrev := posPrev.Sub(target.State.Linear.Position).Length()
			distCurr := proj.Base.State.Linear.Position.Sub(target.State.Linear.Position).Length()
			if distPrev > targetRadius && distCurr <= targetRadius {
				if impactPos, impactTime, ok := detectEntityCollision(posPrev, velPrev, accel, target.State.Linear.Position, targetRadius, dt, t); ok {
					result.Impacted = true
					result.ImpactPos = impactPos
					result.ImpactTime = impactTime
					logImpact(logger, "target_impact", result)
					return result
				}
			}
		}
		if impactPos, impactTime, ok := detectGroundCollision(posPrev, proj.Base.State.Linear.Position, velPrev, accel, t, dt); ok {
			result.Impacted = true
			result.ImpactPos = impactPos
			result.ImpactTime = impactTime
			logImpact(logger, "ground_impact", result)
			return result
		}
	}
	return result
}

// SimulateWithKalman runs the same prediction as Simulate, but smooths
// the projectile's position/velocity through a 3-axis constant-velocity
// Kalman filter each step before integrating
// (projectile_predict_with_kalman_filter).
func SimulateWithKalman(proj *entity.Projectile, target *entity.Dynamic, env *environ.Environ, prop *propulsion.Propulsion, guidanceFn guidance.Func, maxTime, dt float32, logger kitlog.Logger) *Result {
	kf := filters.NewKalmanVec3Full(proj.Base.State.Linear.Position, proj.Base.State.Linear.Velocity, 0.01, 1.0, dt)
	return stepLoop(proj, target, env, prop, guidanceFn, maxTime, dt, logger, func(pos, vel vecmath.Vec3) (vecmath.Vec3, vecmath.Vec3) {
		kf.TimeUpdate()
		kf.MeasurementUpdate(pos)
		return kf.Position, kf.Velocity
	})
}

// SimulateWithFilter is SimulateWithKalman generalized to any
// filters.FilterInterface implementation (projectile_predict_with_filter).
// A nil filter degrades to the unfiltered state, same as the source's
// null filter_interface_t.
func SimulateWithFilter(proj *entity.Projectile, target *entity.Dynamic, env *environ.Environ, prop *propulsion.Propulsion, guidanceFn guidance.Func, maxTime, dt float32, logger kitlog.Logger, filter filters.FilterInterface) *Result {
	return stepLoop(proj, target, env, prop, guidanceFn, maxTime, dt, logger, func(pos, vel vecmath.Vec3) (vecmath.Vec3, vecmath.Vec3) {
		if filter == nil {
			return pos, vel
		}
		filteredPos := filter.Predict(pos)
		return filteredPos, vel
	})
}
