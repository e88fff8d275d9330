// Package tick drives a single projectile through time one step at a
// time, attached to an external timing driver, as opposed to predict's
// offline fixed-horizon simulation (spec.md §4.11), grounded on
// projectile_tick.{h,cpp}.
package tick

import (
	"math"

	"byul/entity"
	"byul/environ"
	"byul/guidance"
	"byul/numeq/integrator"
	"byul/propulsion"
	"byul/trajectory"
	"byul/vecmath"
)

// Driver is the external tick-driver contract this package attaches to.
// The driver is out of scope for this spec beyond this callback shape
// (spec.md §4.11 "tick driver contract").
type Driver interface {
	Attach(onTick func(dt float32))
	RequestDetach()
}

// Tick is a stateful, attachable online projectile simulation: the same
// per-step physics as predict, but advanced one step at a time by a
// Driver rather than run to completion (spec.md §4.11).
type Tick struct {
	Proj       *entity.Projectile
	Target     *entity.Dynamic
	Env        *environ.Environ
	Ground     GroundRaycaster // nil falls back to DefaultGround()
	Propulsion *propulsion.Propulsion
	GuidanceFn guidance.Func

	Debug      bool
	Trajectory *trajectory.Trajectory

	ImpactPos  vecmath.Vec3
	ImpactTime float32
	Impacted   bool

	integrator integrator.Integrator
	driver     Driver
}

// New returns a Tick with a default motion-RK4-env integrator
// (projectile_tick_init_full). target/env/ground/propulsion/guidanceFn may
// all be nil.
func New(proj *entity.Projectile, target *entity.Dynamic, env *environ.Environ, ground GroundRaycaster, prop *propulsion.Propulsion, guidanceFn guidance.Func, debug bool) *Tick {
	if proj == nil {
		proj = entity.NewProjectile()
	}
	if target == nil {
		target = entity.NewDynamic()
	}
	tk := &Tick{
		Proj:       proj,
		Target:     target,
		Env:        env,
		Ground:     ground,
		Propulsion: prop,
		GuidanceFn: guidanceFn,
		Debug:      debug,
		ImpactTime: -1,
		integrator: integrator.NewMotionRK4Env(dtPlaceholder, env, proj.Base.Props),
	}
	if debug {
		tk.Trajectory = trajectory.NewDefault()
	}
	return tk
}

// dtPlaceholder seeds the stored integrator; Step rebuilds it with the
// real per-call dt since RK4-env kernels are constructed with a fixed
// step size (numeq/integrator.NewMotionRK4Env panics on dt<=0).
const dtPlaceholder = 1.0

// Assign deep-copies src into the receiver, cloning its owned
// environ/propulsion (ground and trajectory, like the driver, are shared
// references per spec.md §4.11 "duplicating a ticker clones its
// environ/ground/propulsion" — ground here is an interface value, cloned
// by reference since GroundRaycaster implementations are typically
// immutable geometry).
func (tk *Tick) Assign(src *Tick) {
	projCopy := *src.Proj
	baseCopy := *src.Proj.Base
	projCopy.Base = &baseCopy
	targetCopy := *src.Target

	*tk = *src
	tk.Proj = &projCopy
	tk.Target = &targetCopy

	if src.Env != nil {
		env := &environ.Environ{}
		env.Assign(src.Env)
		tk.Env = env
	}
	if src.Propulsion != nil {
		p := &propulsion.Propulsion{}
		p.Assign(src.Propulsion)
		tk.Propulsion = p
	}
	tk.integrator = integrator.NewMotionRK4Env(dtPlaceholder, tk.Env, tk.Proj.Base.Props)
}

// Prepare attaches the ticker to driver: each driver callback advances
// the simulation by Step (projectile_tick_prepare).
func (tk *Tick) Prepare(driver Driver) bool {
	if driver == nil {
		return false
	}
	tk.Impacted = false
	tk.driver = driver
	if tk.Debug && tk.Trajectory != nil {
		tk.Trajectory.Append(trajectory.Sample{T: tk.Proj.Base.Age, State: tk.Proj.Base.State})
	}
	driver.Attach(func(dt float32) { tk.Step(dt) })
	return true
}

// Complete detaches from the driver (projectile_tick_complete).
func (tk *Tick) Complete() {
	tk.Impacted = false
	if tk.driver != nil {
		tk.driver.RequestDetach()
	}
}

// Step advances the simulation by dt: aging/expiry, env+guidance+
// propulsion acceleration assembly, one fixed integration step, optional
// debug sampling, then target-sphere and ground CCD (spec.md §4.11
// `projectile_tick`). Returns true when an impact is detected on this call
// or was already recorded; expiry completes the tick and returns false.
func (tk *Tick) Step(dt float32) bool {
	if dt <= 0 {
		return false
	}
	if tk.Impacted {
		tk.Complete()
		return true
	}

	tk.Proj.Base.Age += dt
	if tk.Proj.Base.Expired() {
		if tk.Proj.OnExpiry != nil {
			tk.Proj.OnExpiry(tk.Proj)
		} else {
			entity.DefaultExpiryCallback(tk.Proj)
		}
		tk.Complete()
		return false
	}

	state := tk.Proj.Base.State
	posPrev := state.Linear.Position
	velPrev := state.Linear.Velocity

	accel := vecmath.Zero
	if tk.Env != nil {
		accel = tk.Env.Accel()
	}

	if tk.Propulsion != nil && tk.Propulsion.FuelRemaining > 0 {
		dir := tk.guidanceDirection(dt)
		tk.Propulsion.Update(tk.Propulsion.MaxThrust, dt)
		mass := tk.Proj.Base.Props.EffectiveMass()
		accel = accel.Add(dir.Scale(tk.Propulsion.Thrust() / mass))
	}

	state.Linear.Acceleration = accel
	tk.Proj.Base.State = state

	tk.integrator = integrator.NewMotionRK4Env(dt, tk.Env, tk.Proj.Base.Props)
	next, _ := tk.integrator.Step(tk.Proj.Base.State)
	tk.Proj.Base.State = next

	if tk.Debug && tk.Trajectory != nil {
		tk.Trajectory.Append(trajectory.Sample{T: tk.Proj.Base.Age, State: tk.Proj.Base.State})
	}

	tPrev := tk.Proj.Base.Age - dt

	if radius := tk.Target.Size(); radius > 0 {
		if impactPos, impactTime, ok := detectSphereHit(posPrev, velPrev, accel, tk.Target.State.Linear.Position, radius, dt, tPrev); ok {
			tk.finish(impactPos, impactTime)
			return true
		}
	}

	ground := tk.Ground
	if ground == nil {
		g := DefaultGround()
		ground = g
	}
	stepVec := tk.Proj.Base.State.Linear.Position.Sub(posPrev)
	segLen := stepVec.Length()
	if segLen > vecmath.EpsLen {
		dir := stepVec.Scale(1 / segLen)
		if hitPos, _, t, ok := ground.Raycast(posPrev, dir, segLen); ok {
			tk.finish(hitPos, tPrev+t)
			return true
		}
	}

	return false
}

func (tk *Tick) guidanceDirection(dt float32) vecmath.Vec3 {
	if tk.GuidanceFn != nil {
		return tk.GuidanceFn(tk.Proj.Base.State, dt)
	}
	d := tk.Target.State.Linear.Position.Sub(tk.Proj.Base.State.Linear.Position)
	if d.Length() < vecmath.EpsLen {
		return vecmath.Zero
	}
	return d.Unit()
}

func (tk *Tick) finish(impactPos vecmath.Vec3, impactTime float32) {
	tk.ImpactPos = impactPos
	tk.ImpactTime = impactTime
	tk.Impacted = true
	tk.Proj.Hit()
}

// --- target-sphere continuous collision, sharing the quadratic form
// predict uses, specified independently in spec.md §4.11 step 8a --------

func detectSphereHit(posPrev, velPrev, accel, targetPos vecmath.Vec3, radius, dt, tPrev float32) (impactPos vecmath.Vec3, impactTime float32, ok bool) {
	relP := posPrev.Sub(targetPos)
	relV := velPrev
	relA := accel

	if relP.Length() <= radius {
		return posPrev, tPrev, true
	}

	halfA := relA.Scale(0.5)
	a := relV.Dot(relV) + 2*relV.Dot(halfA) + halfA.Dot(halfA)
	b := 2 * (relP.Dot(relV) + relP.Dot(halfA))
	c := relP.Dot(relP) - radius*radius

	if absf(a) < 1e-6 {
		if absf(b) < 1e-6 {
			return vecmath.Zero, 0, false
		}
		t := -c / b
		if t < 0 || t > dt {
			return vecmath.Zero, 0, false
		}
		return relAtQuadratic(relP, relV, relA, t).Add(targetPos), tPrev + t, true
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return vecmath.Zero, 0, false
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
		return vecmath.Zero, 0, false
	}
	return relAtQuadratic(relP, relV, relA, best).Add(targetPos), tPrev + best, true
}

func relAtQuadratic(p, v, a vecmath.Vec3, t float32) vecmath.Vec3 {
	return p.Add(v.Scale(t)).Add(a.Scale(0.5 * t * t))
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
