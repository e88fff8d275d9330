package predict

import (
	"byul/bodyprops"
	"byul/entity"
	"byul/environ"
	"byul/guidance"
	"byul/motion"
	"byul/numeq/model"
	"byul/propulsion"
	"byul/trajectory"
	"byul/vecmath"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

// integrable adapts one predicted run onto ode.Integrable, committing
// guidance/propulsion/CCD bookkeeping in SetState the same way
// OrbitEstimate hooks STM bookkeeping into SetState: Func stays a pure
// derivative, SetState is where side effects happen exactly once per
// accepted step.
type integrable struct {
	env  *environ.Environ
	body bodyprops.BodyProps

	guidanceFn guidance.Func
	proj       *entity.Projectile
	target     *entity.Dynamic
	prop       *propulsion.Propulsion
	logger     kitlog.Logger

	mass         float32
	targetRadius float32
	maxTime      float64

	t float64
	// thrustAccel is the guidance-directed thrust term, held fixed across
	// Func's RK4 sub-stages (guidance/propulsion update once per accepted
	// step, same as the source). Gravity and drag are NOT folded in here:
	// Func recomputes them fresh at every sub-stage via model.Accel, so
	// velocity-squared drag tracks the sub-stage velocity instead of being
	// frozen at the step's entry state.
	thrustAccel vecmath.Vec3
	// ccdAccel is gravity+drag+thrust evaluated once at the start of each
	// accepted step, used as the step's locally-constant acceleration by
	// the ground/target collision quadratics (which assume constant
	// acceleration over the interval, same approximation the source
	// makes).
	ccdAccel vecmath.Vec3
	prevPos  vecmath.Vec3
	prevVel  vecmath.Vec3

	result  *Result
	stopped bool
}

func (in *integrable) GetState() []float64 {
	l := in.proj.Base.State.Linear
	return []float64{
		float64(l.Position.X), float64(l.Position.Y), float64(l.Position.Z),
		float64(l.Velocity.X), float64(l.Velocity.Y), float64(l.Velocity.Z),
	}
}

func (in *integrable) Func(t float64, s []float64) []float64 {
	vel := vecmath.New(float32(s[3]), float32(s[4]), float32(s[5]))
	a := model.Accel(motion.LinearState{Velocity: vel, Acceleration: in.thrustAccel}, in.env, in.body)
	return []float64{
		float64(vel.X), float64(vel.Y), float64(vel.Z),
		float64(a.X), float64(a.Y), float64(a.Z),
	}
}

func (in *integrable) SetState(t float64, s []float64) {
	dt := float32(t - in.t)
	in.t = t

	pos := vecmath.New(float32(s[0]), float32(s[1]), float32(s[2]))
	vel := vecmath.New(float32(s[3]), float32(s[4]), float32(s[5]))
	if dt > 0 {
		vel = in.body.ApplyFriction(vel, dt)
	}

	posPrev, velPrev, accelPrev := in.prevPos, in.prevVel, in.ccdAccel

	in.proj.Base.State.Linear.Position = pos
	in.proj.Base.State.Linear.Velocity = vel
	in.prevPos, in.prevVel = pos, vel

	in.result.Trajectory.Append(trajectory.Sample{T: float32(t), State: in.proj.Base.State})

	tPrev := float32(in.t) - dt
	if in.target != nil {
		if impactPos, impactTime, ok := detectEntityCollision(posPrev, velPrev, accelPrev, in.target.State.Linear.Position, in.targetRadius, dt, tPrev); ok {
			in.finish(impactPos, impactTime, "target_impact")
			return
		}
	}
	if impactPos, impactTime, ok := detectGroundCollision(posPrev, pos, velPrev, accelPrev, tPrev, dt); ok {
		in.finish(impactPos, impactTime, "ground_impact")
		return
	}

	dir := guidanceDirection(in.guidanceFn, in.proj, in.target, dt)
	if in.prop != nil {
		in.prop.Update(in.prop.MaxThrust, dt)
	}
	in.thrustAccel = thrustAccel(in.prop, dir, in.mass)
	in.ccdAccel = model.Accel(motion.LinearState{Velocity: vel, Acceleration: in.thrustAccel}, in.env, in.body)
}

func (in *integrable) finish(impactPos vecmath.Vec3, impactTime float32, kind string) {
	in.stopped = true
	in.result.Impacted = true
	in.result.ImpactPos = impactPos
	in.result.ImpactTime = impactTime
	logImpact(in.logger, kind, in.result)
}

func (in *integrable) Stop(t float64) bool {
	return in.stopped || t >= in.maxTime
}

// Simulate runs an offline forward prediction of proj against an optional
// target and the ground plane at y=0, for at most maxTime seconds in steps
// of dt, coupling environment/guidance/propulsion each step and logging
// impacts via go-kit. Translational integration is driven by
// ode.NewRK4, mirroring how estimate.go drives OrbitEstimate (spec.md
// §4.10 `projectile_predict`).
func Simulate(proj *entity.Projectile, target *entity.Dynamic, env *environ.Environ, prop *propulsion.Propulsion, guidanceFn guidance.Func, maxTime, dt float32, logger kitlog.Logger) *Result {
	if dt <= 0 || maxTime <= 0 {
		return newResult(proj, target, trajectory.DefaultCapacity)
	}
	result := newResult(proj, target, stepCapacity(maxTime, dt))

	targetRadius := float32(0)
	if target != nil {
		targetRadius = target.Size()
	}

	in := &integrable{
		env:          env,
		body:         proj.Base.Props,
		guidanceFn:   guidanceFn,
		proj:         proj,
		target:       target,
		prop:         prop,
		logger:       logger,
		mass:         proj.Base.Props.EffectiveMass(),
		targetRadius: targetRadius,
		maxTime:      float64(maxTime),
		prevPos:      proj.Base.State.Linear.Position,
		prevVel:      proj.Base.State.Linear.Velocity,
		result:       result,
	}
	in.thrustAccel = thrustAccel(prop, guidanceDirection(guidanceFn, proj, target, dt), in.mass)
	in.ccdAccel = model.Accel(motion.LinearState{Velocity: in.prevVel, Acceleration: in.thrustAccel}, env, proj.Base.Props)
	result.Trajectory.Append(trajectory.Sample{T: 0, State: proj.Base.State})

	ode.NewRK4(0, float64(dt), in).Solve()

	return result
}
