// Package integrator provides stateful numerical integrators for motion
// state: Euler, semi-implicit Euler, Verlet, RK4, and an RK4 variant that
// recomputes acceleration from the environment at every sub-stage instead
// of holding it fixed (spec.md §4.4), grounded on numeq_integrator.{h,cpp}.
package integrator

import (
	"errors"

	"byul/bodyprops"
	"byul/environ"
	"byul/motion"
	"byul/numeq/model"
	"byul/vecmath"
)

// ErrPreconditionViolated is returned by Verlet-family integrators stepped
// before a previous state is available (spec.md §7).
var ErrPreconditionViolated = errors.New("integrator: precondition violated")

// Integrator is the closed set of integration kernels (spec.md §9: closed
// sets realize as a Go sum type — an interface with unexported
// implementations constructed only through the New* functions below).
type Integrator interface {
	// Step advances state by one time step and returns the new state.
	// Linear-only kernels leave state.Angular untouched; Motion kernels
	// advance both.
	Step(state motion.State) (motion.State, error)
}

func mustPositive(dt float32, who string) {
	if dt <= 0 {
		panic(who + ": time_step must be > 0")
	}
}

// --- Euler -----------------------------------------------------------

type euler struct{ dt float32 }

// NewEuler returns the simplest, least stable integrator: v+=a*dt using
// the old velocity for the position update. Panics if dt<=0.
func NewEuler(dt float32) Integrator {
	mustPositive(dt, "NewEuler")
	return euler{dt}
}

func (k euler) Step(s motion.State) (motion.State, error) {
	l := s.Linear
	a := l.Acceleration
	vNext := l.Velocity.Add(a.Scale(k.dt))
	pNext := l.Position.Add(l.Velocity.Scale(k.dt))
	s.Linear = motion.LinearState{Position: pNext, Velocity: vNext, Acceleration: a}
	return s, nil
}

// --- Semi-implicit Euler ----------------------------------------------

type semiImplicit struct{ dt float32 }

// NewSemiImplicit returns the recommended real-time integrator: velocity
// updates first, then position uses the new velocity. Panics if dt<=0.
func NewSemiImplicit(dt float32) Integrator {
	mustPositive(dt, "NewSemiImplicit")
	return semiImplicit{dt}
}

func (k semiImplicit) Step(s motion.State) (motion.State, error) {
	l := s.Linear
	a := l.Acceleration
	v := l.Velocity.Add(a.Scale(k.dt))
	p := l.Position.Add(v.Scale(k.dt))
	s.Linear = motion.LinearState{Position: p, Velocity: v, Acceleration: a}
	return s, nil
}

// --- Verlet -------------------------------------------------------------

type verlet struct {
	dt   float32
	prev *motion.LinearState
}

// NewVerlet returns the position-history integrator. prev must be supplied
// (the previous step's LinearState); Step returns ErrPreconditionViolated
// when prev is nil, matching the source's assert on a missing prev_state.
// Panics if dt<=0.
func NewVerlet(dt float32, prev *motion.LinearState) Integrator {
	mustPositive(dt, "NewVerlet")
	return &verlet{dt: dt, prev: prev}
}

func (k *verlet) Step(s motion.State) (motion.State, error) {
	if k.prev == nil {
		return motion.State{}, ErrPreconditionViolated
	}
	l := s.Linear
	a := l.Acceleration
	newPos := l.Position.Scale(2).Sub(k.prev.Position).Add(a.Scale(k.dt * k.dt))
	v := newPos.Sub(k.prev.Position).Scale(1 / (2 * k.dt))
	*k.prev = l
	s.Linear = motion.LinearState{Position: newPos, Velocity: v, Acceleration: a}
	return s, nil
}

// --- RK4 (fixed acceleration) -------------------------------------------

type rk4 struct{ dt float32 }

// NewRK4 returns an RK4 stepper that holds the incoming state's
// acceleration fixed across all four stages, matching the source's
// constant-force RK4 (the velocity sub-stages still vary, shaping the
// position update). Panics if dt<=0.
func NewRK4(dt float32) Integrator {
	mustPositive(dt, "NewRK4")
	return rk4{dt}
}

func (k rk4) Step(s motion.State) (motion.State, error) {
	l := s.Linear
	v0, a0, p0 := l.Velocity, l.Acceleration, l.Position
	dt := k.dt

	k1v, k1p := a0.Scale(dt), v0.Scale(dt)
	k2v, k2p := a0.Scale(dt), v0.Add(k1v.Scale(0.5)).Scale(dt)
	k3v, k3p := a0.Scale(dt), v0.Add(k2v.Scale(0.5)).Scale(dt)
	k4v, k4p := a0.Scale(dt), v0.Add(k3v).Scale(dt)

	deltaV := k1v.Add(k2v.Add(k3v).Scale(2)).Add(k4v).Scale(1.0 / 6)
	deltaP := k1p.Add(k2p.Add(k3p).Scale(2)).Add(k4p).Scale(1.0 / 6)

	s.Linear = motion.LinearState{Position: p0.Add(deltaP), Velocity: v0.Add(deltaV), Acceleration: a0}
	return s, nil
}

// --- RK4-env (acceleration recomputed per stage) -------------------------

type rk4Env struct {
	dt   float32
	env  *environ.Environ
	body bodyprops.BodyProps
}

// NewRK4Env returns an RK4 stepper that recomputes acceleration from env
// and body at every sub-stage, so drag and gravity are not frozen at the
// step's entry state (spec.md §4.3/§4.4). Panics if dt<=0.
func NewRK4Env(dt float32, env *environ.Environ, body bodyprops.BodyProps) Integrator {
	mustPositive(dt, "NewRK4Env")
	return rk4Env{dt: dt, env: env, body: body}
}

func (k rk4Env) Step(s motion.State) (motion.State, error) {
	// forcing is the caller-supplied external term (e.g. thrust) riding on
	// top of env+body's gravity/drag; it must be carried into every
	// sub-stage's LinearState, since model.Accel adds state.Acceleration
	// as the forcing contribution and otherwise only stage 1 would see it.
	forcing := s.Linear.Acceleration
	deriv := func(l motion.LinearState) (dp, dv vecmath.Vec3) {
		l.Acceleration = forcing
		return l.Velocity, model.Accel(l, k.env, k.body)
	}
	l := s.Linear
	dt := k.dt
	p0, v0 := l.Position, l.Velocity

	dp1, dv1 := deriv(l)
	l2 := motion.LinearState{Position: p0.Add(dp1.Scale(dt / 2)), Velocity: v0.Add(dv1.Scale(dt / 2))}
	dp2, dv2 := deriv(l2)
	l3 := motion.LinearState{Position: p0.Add(dp2.Scale(dt / 2)), Velocity: v0.Add(dv2.Scale(dt / 2))}
	dp3, dv3 := deriv(l3)
	l4 := motion.LinearState{Position: p0.Add(dp3.Scale(dt)), Velocity: v0.Add(dv3.Scale(dt))}
	dp4, dv4 := deriv(l4)

	p := p0.Add(dp1.Add(dp2.Scale(2)).Add(dp3.Scale(2)).Add(dp4).Scale(dt / 6))
	v := v0.Add(dv1.Add(dv2.Scale(2)).Add(dv3.Scale(2)).Add(dv4).Scale(dt / 6))

	s.Linear = motion.LinearState{Position: p, Velocity: v, Acceleration: forcing}
	return s, nil
}

// --- Attitude helpers, shared by the Motion kernels ----------------------

func attitudeEulerStep(att motion.AttitudeState, dt float32) motion.AttitudeState {
	w := att.AngularVelocity.Add(att.AngularAcceleration.Scale(dt))
	dq := vecmath.FromAngularVelocity(w, dt)
	return motion.AttitudeState{
		Orientation:         att.Orientation.Mul(dq).Normalize(),
		AngularVelocity:     w,
		AngularAcceleration: att.AngularAcceleration,
	}
}

func attitudeRK4Step(att motion.AttitudeState, dt float32) motion.AttitudeState {
	// The source holds angular acceleration fixed across the four stages
	// (same simplification as the linear RK4 above), so the weighted
	// average degenerates to a single Euler-equivalent update in ω; kept
	// for fidelity with numeq_integrate_attitude_rk4.
	a0 := att.AngularAcceleration
	k1, k2, k3, k4 := a0, a0, a0, a0
	delta := k1.Add(k2.Add(k3).Scale(2)).Add(k4).Scale(dt / 6)
	w := att.AngularVelocity.Add(delta)
	dq := vecmath.FromAngularVelocity(w, dt)
	return motion.AttitudeState{
		Orientation:         att.Orientation.Mul(dq).Normalize(),
		AngularVelocity:     w,
		AngularAcceleration: a0,
	}
}

type attitudeVerletCarry struct {
	angularVelocity vecmath.Vec3
}

func attitudeVerletStep(att motion.AttitudeState, prev *attitudeVerletCarry, dt float32) motion.AttitudeState {
	a := att.AngularAcceleration
	wNew := att.AngularVelocity.Scale(2).Sub(prev.angularVelocity).Add(a.Scale(dt * dt))
	prev.angularVelocity = att.AngularVelocity
	dq := vecmath.FromAngularVelocity(wNew, dt)
	return motion.AttitudeState{
		Orientation:         att.Orientation.Mul(dq).Normalize(),
		AngularVelocity:     wNew,
		AngularAcceleration: a,
	}
}

// --- Motion Euler (linear + rotation) ------------------------------------

type motionEuler struct{ dt float32 }

// NewMotionEuler integrates both linear and rotational state with simple
// Euler stepping. Panics if dt<=0.
func NewMotionEuler(dt float32) Integrator {
	mustPositive(dt, "NewMotionEuler")
	return motionEuler{dt}
}

func (k motionEuler) Step(s motion.State) (motion.State, error) {
	ls, _ := euler{k.dt}.Step(s)
	ls.Angular = attitudeEulerStep(s.Angular, k.dt)
	return ls, nil
}

// --- Motion semi-implicit Euler -------------------------------------------

type motionSemiImplicit struct{ dt float32 }

// NewMotionSemiImplicit integrates linear state semi-implicitly and
// rotation via the same angular-velocity-first update. Panics if dt<=0.
func NewMotionSemiImplicit(dt float32) Integrator {
	mustPositive(dt, "NewMotionSemiImplicit")
	return motionSemiImplicit{dt}
}

func (k motionSemiImplicit) Step(s motion.State) (motion.State, error) {
	ls, _ := semiImplicit{k.dt}.Step(s)
	ls.Angular = attitudeEulerStep(s.Angular, k.dt)
	return ls, nil
}

// --- Motion Verlet ---------------------------------------------------------

type motionVerlet struct {
	dt      float32
	prevLin *motion.LinearState
	prevAng *attitudeVerletCarry
}

// NewMotionVerlet integrates position/orientation history together. prev
// must be supplied; Step returns ErrPreconditionViolated when prev is nil,
// matching the source's assert on a missing prev_state. Panics if dt<=0.
func NewMotionVerlet(dt float32, prev *motion.State) Integrator {
	mustPositive(dt, "NewMotionVerlet")
	mv := &motionVerlet{dt: dt}
	if prev != nil {
		lin := prev.Linear
		mv.prevLin = &lin
		mv.prevAng = &attitudeVerletCarry{angularVelocity: prev.Angular.AngularVelocity}
	}
	return mv
}

func (k *motionVerlet) Step(s motion.State) (motion.State, error) {
	if k.prevLin == nil || k.prevAng == nil {
		return motion.State{}, ErrPreconditionViolated
	}
	lin := verlet{dt: k.dt, prev: k.prevLin}
	newLin, err := lin.Step(s)
	if err != nil {
		return motion.State{}, err
	}
	k.prevLin = lin.prev
	newLin.Angular = attitudeVerletStep(s.Angular, k.prevAng, k.dt)
	return newLin, nil
}

// --- Motion RK4 (fixed acceleration) ----------------------------------------

type motionRK4 struct{ dt float32 }

// NewMotionRK4 integrates linear and rotational state with the fixed-
// acceleration RK4 kernel (see NewRK4). Panics if dt<=0.
func NewMotionRK4(dt float32) Integrator {
	mustPositive(dt, "NewMotionRK4")
	return motionRK4{dt}
}

func (k motionRK4) Step(s motion.State) (motion.State, error) {
	ls, _ := rk4{k.dt}.Step(s)
	ls.Angular = attitudeRK4Step(s.Angular, k.dt)
	return ls, nil
}

// --- Motion RK4-env ------------------------------------------------------

type motionRK4Env struct {
	dt   float32
	env  *environ.Environ
	body bodyprops.BodyProps
}

// NewMotionRK4Env integrates linear state with the environment-aware RK4
// kernel (acceleration recomputed per stage), folding in the spin-induced
// Magnus/gyroscopic acceleration and spin-vs-wind drag scaling
// (numeq/model.CalcSpinAccel, MotionDragScale) from the entry angular
// state, held fixed across sub-stages the same way thrust is; rotation
// itself advances with the fixed-acceleration RK4 kernel. Panics if dt<=0.
func NewMotionRK4Env(dt float32, env *environ.Environ, body bodyprops.BodyProps) Integrator {
	mustPositive(dt, "NewMotionRK4Env")
	return motionRK4Env{dt: dt, env: env, body: body}
}

func (k motionRK4Env) Step(s motion.State) (motion.State, error) {
	ang := s.Angular
	forcing := s.Linear.Acceleration
	dragScale := model.MotionDragScale(s, k.env)
	spin := model.CalcSpinAccel(s.Linear.Velocity, ang.AngularVelocity, ang.AngularAcceleration, k.dt, k.body.KMagnus, k.body.KGyro)

	deriv := func(l motion.LinearState) (dp, dv vecmath.Vec3) {
		l.Acceleration = forcing
		return l.Velocity, model.AccelScaled(l, k.env, k.body, dragScale).Add(spin)
	}

	l := s.Linear
	dt := k.dt
	p0, v0 := l.Position, l.Velocity

	dp1, dv1 := deriv(l)
	l2 := motion.LinearState{Position: p0.Add(dp1.Scale(dt / 2)), Velocity: v0.Add(dv1.Scale(dt / 2))}
	dp2, dv2 := deriv(l2)
	l3 := motion.LinearState{Position: p0.Add(dp2.Scale(dt / 2)), Velocity: v0.Add(dv2.Scale(dt / 2))}
	dp3, dv3 := deriv(l3)
	l4 := motion.LinearState{Position: p0.Add(dp3.Scale(dt)), Velocity: v0.Add(dv3.Scale(dt))}
	dp4, dv4 := deriv(l4)

	p := p0.Add(dp1.Add(dp2.Scale(2)).Add(dp3.Scale(2)).Add(dp4).Scale(dt / 6))
	v := v0.Add(dv1.Add(dv2.Scale(2)).Add(dv3.Scale(2)).Add(dv4).Scale(dt / 6))

	var out motion.State
	out.Linear = motion.LinearState{Position: p, Velocity: v, Acceleration: forcing}
	out.Angular = attitudeRK4Step(s.Angular, k.dt)
	return out, nil
}
