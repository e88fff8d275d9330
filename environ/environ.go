// Package environ models the simulated atmosphere and force field a body
// moves through: gravity, wind, air density, and a pluggable external
// acceleration function (spec.md §3, §4.2).
package environ

import (
	"math"

	"byul/vecmath"
)

// Func is the open-set external-acceleration producer contract
// (spec.md §6 `environ_func`). Implementations must not mutate env.
type Func func(env *Environ) vecmath.Vec3

// Environ bundles atmospheric/gravitational state with a pluggable
// acceleration function. The zero value is NOT ready to use; call
// Default() or Init().
type Environ struct {
	Gravity     vecmath.Vec3
	WindVel     vecmath.Vec3
	AirDensity  float32
	Humidity    float32
	Temperature float32
	Pressure    float32

	// Fn computes the external acceleration this environment contributes
	// beyond what numeq/model already folds in (gravity + drag). May be
	// nil, in which case it is treated as CalcNone.
	Fn Func

	// Periodic carries the mutable gust state consumed by CalcPeriodic.
	// It must be paired 1:1 with the Environ that owns it (spec.md §5).
	Periodic *PeriodicState
}

// Default constructs the spec's default environment: gravity (0,-9.81,0),
// no wind, standard sea-level air density, CalcGravity as the external
// acceleration function.
func Default() *Environ {
	e := &Environ{
		Gravity:    vecmath.New(0, -9.81, 0),
		AirDensity: 1.225,
	}
	e.Fn = CalcGravity
	return e
}

// Assign deep-copies src into the receiver, including a fresh Periodic
// state if present.
func (e *Environ) Assign(src *Environ) {
	*e = *src
	if src.Periodic != nil {
		cp := *src.Periodic
		e.Periodic = &cp
	}
}

// Accel evaluates the environment's external-acceleration function,
// returning the zero vector when none is set.
func (e *Environ) Accel() vecmath.Vec3 {
	if e == nil || e.Fn == nil {
		return vecmath.Zero
	}
	return e.Fn(e)
}

// CalcNone always returns zero.
func CalcNone(*Environ) vecmath.Vec3 { return vecmath.Zero }

// CalcGravity returns env.Gravity.
func CalcGravity(env *Environ) vecmath.Vec3 { return env.Gravity }

// CalcGravityWind returns env.Gravity only; it adds no wind term. Wind
// enters through the relative velocity in numeq/model's drag calculation.
func CalcGravityWind(env *Environ) vecmath.Vec3 {
	return env.Gravity
}

// PeriodicState is the mutable gust state driving CalcPeriodic. Exactly
// one Environ should reference a given PeriodicState (spec.md §5).
type PeriodicState struct {
	BaseWind      vecmath.Vec3
	GustAmplitude vecmath.Vec3
	GustFrequency float32
	Elapsed       float32
}

// NewPeriodic builds a default periodic gust state.
func NewPeriodic() *PeriodicState {
	return &PeriodicState{GustFrequency: 1.0}
}

// Advance steps the periodic state's elapsed-time clock. Callers drive
// this once per simulation step before evaluating CalcPeriodic.
func (p *PeriodicState) Advance(dt float32) {
	p.Elapsed += dt
}

// CalcPeriodic returns gravity plus a sinusoidal gust layered on the base
// wind. It requires env.Periodic to be set; if it is nil this degrades to
// CalcGravity.
func CalcPeriodic(env *Environ) vecmath.Vec3 {
	if env.Periodic == nil {
		return env.Gravity
	}
	p := env.Periodic
	phase := twoPi * p.GustFrequency * p.Elapsed
	s := sinf(phase)
	gust := p.GustAmplitude.Scale(s)
	return env.Gravity.Add(p.BaseWind).Add(gust)
}

const twoPi = 2 * math.Pi

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}
