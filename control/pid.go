// Package control implements the closed-loop controllers the engine drives
// propulsion and guidance with: PID (scalar + vec3), Bang-Bang, and MPC
// (spec.md §4.7), grounded on numeq_pid.{h,cpp}, numeq_pid_vec3.{h,cpp},
// and numeq_mpc.{h,cpp}.
package control

// PID is a single-axis PID controller. The zero value is not ready to use;
// call NewPID, NewPIDFull, or NewPIDAuto.
type PID struct {
	Kp, Ki, Kd  float32
	Integral    float32
	PrevError   float32
	OutputLimit float32 // <=0 means unlimited
	Dt          float32
	AntiWindup  bool
}

// NewPID returns the source's default tuning: kp=1, ki=kd=0, dt=0.01, no
// output limit, no anti-windup.
func NewPID() *PID {
	return &PID{Kp: 1, Dt: 0.01}
}

// NewPIDFull returns a controller with explicit gains and period.
func NewPIDFull(kp, ki, kd, dt float32) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Dt: dt}
}

// NewPIDAuto auto-tunes gains from dt via the source's heuristic:
// kp=0.6, ki=kp/(0.5*dt), kd=0.125*kp*dt (SPEC_FULL §4.C).
func NewPIDAuto(dt float32) *PID {
	const kp = 0.6
	return &PID{Kp: kp, Ki: kp / (0.5 * dt), Kd: 0.125 * kp * dt, Dt: dt}
}

func clampPID(value, limit float32) float32 {
	if limit <= 0 {
		return value
	}
	if value > limit {
		return limit
	}
	if value < -limit {
		return -limit
	}
	return value
}

// Assign deep-copies src into the receiver.
func (p *PID) Assign(src *PID) { *p = *src }

// Reset zeroes the integral and prev-error accumulators.
func (p *PID) Reset() {
	p.Integral = 0
	p.PrevError = 0
}

// SetState overrides the integral and prev-error accumulators directly
// (e.g. to resume a saved simulation).
func (p *PID) SetState(integral, prevError float32) {
	p.Integral = integral
	p.PrevError = prevError
}

// Update computes the control output and advances internal state
// (spec.md §4.7).
func (p *PID) Update(target, measured float32) float32 {
	error := target - measured
	p.Integral += error * p.Dt
	derivative := (error - p.PrevError) / p.Dt
	output := p.Kp*error + p.Ki*p.Integral + p.Kd*derivative

	limited := clampPID(output, p.OutputLimit)
	if p.AntiWindup && limited != output {
		p.Integral -= error * p.Dt
	}
	p.PrevError = error
	return limited
}

// Preview computes what Update would return without mutating state.
func (p *PID) Preview(target, measured float32) float32 {
	error := target - measured
	estIntegral := p.Integral + error*p.Dt
	derivative := (error - p.PrevError) / p.Dt
	output := p.Kp*error + p.Ki*estIntegral + p.Kd*derivative
	return clampPID(output, p.OutputLimit)
}
