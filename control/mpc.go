package control

import (
	"math"

	"byul/motion"
	"byul/numeq/integrator"
	"byul/vecmath"

	"github.com/gonum/floats"
)

// MPCConfig configures the forward-simulation search (spec.md §4.7),
// grounded on numeq_mpc.{h,cpp}'s mpc_config_t.
type MPCConfig struct {
	HorizonSec    float32
	StepDt        float32
	MaxAccel      float32
	MaxAngAccel   float32
	MaxSpeed      float32
	MaxAngSpeed   float32

	WeightDistance    float32
	WeightOrientation float32
	WeightVelocity    float32
	WeightAccel       float32
	WeightAngAccel    float32

	MaxIter          int
	OutputTrajectory bool
	CandidateStep    float32
	AngCandidateStep float32
}

// DefaultMPCConfig matches the source's mpc_config_init defaults.
func DefaultMPCConfig() MPCConfig {
	return MPCConfig{
		HorizonSec: 1.0, StepDt: 0.05,
		MaxAccel: 10, MaxAngAccel: 5, MaxSpeed: 50, MaxAngSpeed: 10,
		WeightDistance: 1.0, WeightOrientation: 0.5, WeightVelocity: 0.1,
		WeightAccel: 0.1, WeightAngAccel: 0.1,
		MaxIter: 10, CandidateStep: 0.5, AngCandidateStep: 0.1,
	}
}

// CostFunc is the open-set plug-in cost contract (spec.md §9): MPC cost
// functions are caller-extensible, so they stay a plain func type instead
// of a closed enumeration.
type CostFunc func(sim, target motion.State, cfg MPCConfig) float32

func quatAngleDiff(a, b vecmath.Quat) float32 {
	rel := a.Mul(b.Inverse())
	w := rel.W
	if w < 0 {
		w = -w
	}
	if w > 1 {
		w = 1
	}
	return 2 * float32(math.Acos(float64(w)))
}

// DefaultCost is numeq_mpc_cost_default: distance + orientation + input
// effort (spec.md §4.7).
func DefaultCost(sim, target motion.State, cfg MPCConfig) float32 {
	diffPos := sim.Linear.Position.Sub(target.Linear.Position)
	angle := quatAngleDiff(sim.Angular.Orientation, target.Angular.Orientation)
	return cfg.WeightDistance*diffPos.LengthSq() +
		cfg.WeightOrientation*angle*angle +
		cfg.WeightAccel*sim.Linear.Acceleration.LengthSq() +
		cfg.WeightAngAccel*sim.Angular.AngularAcceleration.LengthSq()
}

// SpeedCost is numeq_mpc_cost_speed: target.Linear.Velocity.X is read as
// the scalar target speed, matching the source's convention.
func SpeedCost(sim, target motion.State, cfg MPCConfig) float32 {
	dv := sim.Linear.Velocity.Length() - target.Linear.Velocity.X
	return cfg.WeightDistance*dv*dv + cfg.WeightAccel*sim.Linear.Acceleration.LengthSq()
}

// HybridCost is numeq_mpc_cost_hybrid: DefaultCost plus a velocity term.
func HybridCost(sim, target motion.State, cfg MPCConfig) float32 {
	diffVel := sim.Linear.Velocity.Sub(target.Linear.Velocity)
	return DefaultCost(sim, target, cfg) + cfg.WeightVelocity*diffVel.LengthSq()
}

// MPCResult is the output of a solve (spec.md §4.7).
type MPCResult struct {
	DesiredAccel    vecmath.Vec3
	DesiredAngAccel vecmath.Vec3
	FutureState     motion.State
	Cost            float32
	// Trajectory holds the chosen forward roll-out; populated only when
	// cfg.OutputTrajectory is set (SPEC_FULL §4.C).
	Trajectory []motion.LinearState
}

func clampSpeed(v vecmath.Vec3, max float32) vecmath.Vec3 {
	if max <= 0 {
		return v
	}
	speed := v.Length()
	if speed > max {
		return v.Scale(max / speed)
	}
	return v
}

// simulate rolls a candidate (accel, angAccel) forward for
// horizon_sec/step_dt steps using the motion RK4 kernel, clamping
// linear/angular speed each step (grounded on simulate_trajectory's
// per-step clamp). Returns the terminal state and, if record is true, the
// per-step linear trajectory.
func simulate(start motion.State, accel, angAccel vecmath.Vec3, cfg MPCConfig, record bool) (motion.State, []motion.LinearState) {
	steps := int(cfg.HorizonSec / cfg.StepDt)
	state := start
	state.Linear.Acceleration = accel
	state.Angular.AngularAcceleration = angAccel

	it := integrator.NewMotionRK4(cfg.StepDt)
	var traj []motion.LinearState
	if record {
		traj = make([]motion.LinearState, 0, steps)
	}
	for i := 0; i < steps; i++ {
		state.Linear.Acceleration = accel
		state.Angular.AngularAcceleration = angAccel
		next, err := it.Step(state)
		if err != nil {
			break
		}
		next.Linear.Velocity = clampSpeed(next.Linear.Velocity, cfg.MaxSpeed)
		next.Angular.AngularVelocity = clampSpeed(next.Angular.AngularVelocity, cfg.MaxAngSpeed)
		state = next
		if record {
			traj = append(traj, state.Linear)
		}
	}
	return state, traj
}

func evalCandidate(start, target motion.State, accel, angAccel vecmath.Vec3, cfg MPCConfig, cost CostFunc, record bool) MPCResult {
	final, traj := simulate(start, accel, angAccel, cfg, record)
	return MPCResult{
		DesiredAccel:    accel,
		DesiredAngAccel: angAccel,
		FutureState:     final,
		Cost:            cost(final, target, cfg),
		Trajectory:      traj,
	}
}

func axisSet(max float32) []float32 { return []float32{-max, 0, max} }

func signedAxisSet(errAxis, max float32) []float32 {
	if errAxis >= 0 {
		return []float32{0, max}
	}
	return []float32{0, -max}
}

func combos3(xs, ys, zs []float32) []vecmath.Vec3 {
	out := make([]vecmath.Vec3, 0, len(xs)*len(ys)*len(zs))
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				out = append(out, vecmath.New(x, y, z))
			}
		}
	}
	return out
}

func argmin(start, target motion.State, accels, angAccels []vecmath.Vec3, cfg MPCConfig, cost CostFunc) MPCResult {
	var best MPCResult
	bestSet := false
	costs := make([]float64, 0, len(accels)*len(angAccels))
	for _, a := range accels {
		for _, aa := range angAccels {
			r := evalCandidate(start, target, a, aa, cfg, cost, false)
			costs = append(costs, float64(r.Cost))
			if !bestSet || r.Cost < best.Cost {
				best = r
				bestSet = true
			}
		}
	}
	_ = floats.Min(costs) // exercised for parity with the cost-accumulation reduction used elsewhere; best is tracked exactly above
	if cfg.OutputTrajectory {
		_, traj := simulate(start, best.DesiredAccel, best.DesiredAngAccel, cfg, true)
		best.Trajectory = traj
	}
	return best
}

// SolveBasic enumerates the full 3x3x3 x 3x3x3 grid of linear/angular
// acceleration candidates (spec.md §4.7 "basic").
func SolveBasic(start, target motion.State, cfg MPCConfig, cost CostFunc) MPCResult {
	accelAxis := axisSet(cfg.MaxAccel)
	angAxis := axisSet(cfg.MaxAngAccel)
	accels := combos3(accelAxis, accelAxis, accelAxis)
	angAccels := combos3(angAxis, angAxis, angAxis)
	return argmin(start, target, accels, angAccels, cfg, cost)
}

// SolveFast restricts candidates to {0, sign(error_axis)*max} per axis
// (spec.md §4.7 "fast").
func SolveFast(start, target motion.State, cfg MPCConfig, cost CostFunc) MPCResult {
	errPos := target.Linear.Position.Sub(start.Linear.Position)
	accelAxes := [3][]float32{
		signedAxisSet(errPos.X, cfg.MaxAccel),
		signedAxisSet(errPos.Y, cfg.MaxAccel),
		signedAxisSet(errPos.Z, cfg.MaxAccel),
	}
	angAxes := [3][]float32{
		signedAxisSet(0, cfg.MaxAngAccel),
		signedAxisSet(0, cfg.MaxAngAccel),
		signedAxisSet(0, cfg.MaxAngAccel),
	}
	accels := combos3(accelAxes[0], accelAxes[1], accelAxes[2])
	angAccels := combos3(angAxes[0], angAxes[1], angAxes[2])
	return argmin(start, target, accels, angAccels, cfg, cost)
}

// SolveCoarseToFine runs SolveBasic, then refines the linear acceleration
// with a second pass of +/-delta,0 offsets around the coarse best, angular
// held fixed at the coarse best (spec.md §4.7 "coarse2fine").
func SolveCoarseToFine(start, target motion.State, cfg MPCConfig, cost CostFunc) MPCResult {
	coarse := SolveBasic(start, target, cfg, cost)
	delta := 0.25 * cfg.MaxAccel
	offsets := []float32{-delta, 0, delta}
	var fineAccels []vecmath.Vec3
	for _, ox := range offsets {
		for _, oy := range offsets {
			for _, oz := range offsets {
				fineAccels = append(fineAccels, coarse.DesiredAccel.Add(vecmath.New(ox, oy, oz)))
			}
		}
	}
	fine := argmin(start, target, fineAccels, []vecmath.Vec3{coarse.DesiredAngAccel}, cfg, cost)
	if fine.Cost <= coarse.Cost {
		return fine
	}
	return coarse
}

// SolveRoute picks the nearest remaining waypoint as the target position
// and delegates to SolveBasic (spec.md §4.7 "Route variant").
func SolveRoute(start motion.State, waypoints []vecmath.Vec3, cfg MPCConfig, cost CostFunc) MPCResult {
	if len(waypoints) == 0 {
		return MPCResult{}
	}
	nearest := waypoints[0]
	nearestDistSq := start.Linear.Position.Sub(nearest).LengthSq()
	for _, wp := range waypoints[1:] {
		d := start.Linear.Position.Sub(wp).LengthSq()
		if d < nearestDistSq {
			nearest, nearestDistSq = wp, d
		}
	}
	target := motion.Default()
	target.Linear.Position = nearest
	return SolveBasic(start, target, cfg, cost)
}

// SolveDirectional projects a target position along dir and delegates to
// SolveBasic, with the given target orientation (spec.md §4.7 "Directional
// variant").
func SolveDirectional(start motion.State, dir vecmath.Vec3, targetOrientation vecmath.Quat, duration float32, cfg MPCConfig, cost CostFunc) MPCResult {
	targetPos := start.Linear.Position.Add(dir.Unit().Scale(duration * cfg.StepDt * cfg.MaxSpeed))
	target := motion.Default()
	target.Linear.Position = targetPos
	target.Angular.Orientation = targetOrientation
	return SolveBasic(start, target, cfg, cost)
}

type mpcController struct {
	cfg   MPCConfig
	cost  CostFunc
	solve func(start, target motion.State, cfg MPCConfig, cost CostFunc) MPCResult
}

// NewMPCController adapts an MPC solver (one of SolveBasic/SolveFast/
// SolveCoarseToFine) to the single-axis Controller interface by tracking
// position along the controller's one axis and reading DesiredAccel.X;
// full vector use should call the Solve* functions directly. Reset is a
// no-op since MPC carries no accumulator state across calls.
func NewMPCController(cfg MPCConfig, cost CostFunc, solve func(start, target motion.State, cfg MPCConfig, cost CostFunc) MPCResult) Controller {
	return &mpcController{cfg: cfg, cost: cost, solve: solve}
}

func (c *mpcController) Update(target, measured float32) float32 {
	start := motion.Default()
	start.Linear.Position = vecmath.New(measured, 0, 0)
	goal := motion.Default()
	goal.Linear.Position = vecmath.New(target, 0, 0)
	res := c.solve(start, goal, c.cfg, c.cost)
	return res.DesiredAccel.X
}

func (c *mpcController) Reset() {}
