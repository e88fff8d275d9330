// Package trajectory records and queries a time-ordered, capacity-bounded
// sequence of motion states (spec.md §3, §4.5).
package trajectory

import (
	"errors"
	"fmt"
	"strings"

	"byul/motion"
	"byul/vecmath"

	"github.com/gonum/floats"
	"github.com/gonum/stat"
)

// ErrExhausted names the trajectory-at-capacity condition (spec.md §7).
// Append reports that condition by returning false rather than this error.
var ErrExhausted = errors.New("trajectory: capacity exhausted")

// ErrInvalidArgument is returned for non-positive capacity requests.
var ErrInvalidArgument = errors.New("trajectory: invalid argument")

// DefaultCapacity matches the source's default trajectory capacity.
const DefaultCapacity = 100

// Sample is a single time-stamped motion state.
type Sample struct {
	T     float32
	State motion.State
}

// Trajectory is an owned, append-only, capacity-bounded sequence of
// samples. The zero value is not ready to use; call New or NewDefault.
type Trajectory struct {
	samples  []Sample
	capacity int
}

// NewDefault returns a Trajectory with DefaultCapacity.
func NewDefault() *Trajectory {
	t, _ := New(DefaultCapacity)
	return t
}

// New returns a Trajectory with the given capacity.
func New(capacity int) (*Trajectory, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0", ErrInvalidArgument)
	}
	return &Trajectory{samples: make([]Sample, 0, capacity), capacity: capacity}, nil
}

// Clear resets length to 0, preserving capacity.
func (t *Trajectory) Clear() {
	t.samples = t.samples[:0]
}

// Resize changes the capacity, truncating existing samples to
// min(count, newCapacity) when shrinking.
func (t *Trajectory) Resize(newCapacity int) error {
	if newCapacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0", ErrInvalidArgument)
	}
	if newCapacity < len(t.samples) {
		t.samples = t.samples[:newCapacity]
	}
	grown := make([]Sample, len(t.samples), newCapacity)
	copy(grown, t.samples)
	t.samples = grown
	t.capacity = newCapacity
	return nil
}

// Append adds a sample. Returns false (ErrExhausted) when full; it never
// grows the buffer past the configured capacity (spec.md §4.5: "no
// resize-on-append").
func (t *Trajectory) Append(s Sample) bool {
	if len(t.samples) >= t.capacity {
		return false
	}
	t.samples = append(t.samples, s)
	return true
}

// Len returns the current sample count.
func (t *Trajectory) Len() int { return len(t.samples) }

// Capacity returns the configured capacity.
func (t *Trajectory) Capacity() int { return t.capacity }

// Sample returns the i-th sample.
func (t *Trajectory) Sample(i int) Sample { return t.samples[i] }

// Assign deep-copies src into the receiver, reallocating the backing
// buffer if the receiver's capacity is smaller than src's sample count
// (spec.md §4.5).
func (t *Trajectory) Assign(src *Trajectory) {
	if t.capacity < len(src.samples) {
		t.samples = make([]Sample, len(src.samples), len(src.samples))
		t.capacity = len(src.samples)
	} else {
		t.samples = t.samples[:len(src.samples)]
	}
	copy(t.samples, src.samples)
}

// bracket finds the pair of samples bracketing τ, clamping at the ends.
// Returns the index of the lower sample and the interpolation fraction in
// [0,1]; ok is false when there are zero samples.
func (t *Trajectory) bracket(tau float32) (lo int, frac float32, ok bool) {
	n := len(t.samples)
	if n == 0 {
		return 0, 0, false
	}
	if n == 1 || tau <= t.samples[0].T {
		return 0, 0, true
	}
	if tau >= t.samples[n-1].T {
		return n - 2, 1, true
	}
	for i := 0; i < n-1; i++ {
		t0, t1 := t.samples[i].T, t.samples[i+1].T
		if tau >= t0 && tau <= t1 {
			if t1 == t0 {
				return i, 0, true
			}
			return i, (tau - t0) / (t1 - t0), true
		}
	}
	return n - 2, 1, true
}

// InterpolatePosition returns the linearly interpolated position at time
// tau, clamped to the trajectory's endpoints.
func (t *Trajectory) InterpolatePosition(tau float32) vecmath.Vec3 {
	lo, frac, ok := t.bracket(tau)
	if !ok {
		return vecmath.Zero
	}
	if frac == 0 {
		return t.samples[lo].State.Linear.Position
	}
	a := t.samples[lo].State.Linear.Position
	b := t.samples[lo+1].State.Linear.Position
	return vecmath.Lerp(a, b, frac)
}

// EstimateVelocity returns a finite-difference velocity estimate around
// tau, clamped at the trajectory's endpoints.
func (t *Trajectory) EstimateVelocity(tau float32) vecmath.Vec3 {
	n := len(t.samples)
	if n < 2 {
		return vecmath.Zero
	}
	lo, _, ok := t.bracket(tau)
	if !ok {
		return vecmath.Zero
	}
	a, b := t.samples[lo], t.samples[lo+1]
	dt := b.T - a.T
	if dt <= 0 {
		return vecmath.Zero
	}
	return b.State.Linear.Position.Sub(a.State.Linear.Position).Scale(1 / dt)
}

// EstimateAcceleration returns a second finite-difference estimate around
// tau; requires at least 3 samples, else returns zero.
func (t *Trajectory) EstimateAcceleration(tau float32) vecmath.Vec3 {
	n := len(t.samples)
	if n < 3 {
		return vecmath.Zero
	}
	lo, _, ok := t.bracket(tau)
	if !ok {
		return vecmath.Zero
	}
	// Need three consecutive samples; shift the window left if we're at
	// the right edge.
	i := lo
	if i > n-3 {
		i = n - 3
	}
	s0, s1, s2 := t.samples[i], t.samples[i+1], t.samples[i+2]
	dt1 := s1.T - s0.T
	dt2 := s2.T - s1.T
	if dt1 <= 0 || dt2 <= 0 {
		return vecmath.Zero
	}
	v0 := s1.State.Linear.Position.Sub(s0.State.Linear.Position).Scale(1 / dt1)
	v1 := s2.State.Linear.Position.Sub(s1.State.Linear.Position).Scale(1 / dt2)
	dtMid := 0.5 * (dt1 + dt2)
	return v1.Sub(v0).Scale(1 / dtMid)
}

// ExtractPositions returns every sample's position in order.
func (t *Trajectory) ExtractPositions() []vecmath.Vec3 {
	out := make([]vecmath.Vec3, len(t.samples))
	for i, s := range t.samples {
		out[i] = s.State.Linear.Position
	}
	return out
}

// ExtractSpeeds returns |velocity| for every sample, in sample order, as a
// slice pre-sized to the sample count.
func (t *Trajectory) ExtractSpeeds() []float64 {
	out := make([]float64, 0, len(t.samples))
	for _, s := range t.samples {
		out = append(out, float64(s.State.Linear.Velocity.Length()))
	}
	return out
}

// Stats summarizes the trajectory's sampled speed: mean, standard
// deviation, and peak. Returns the zero Summary for an empty trajectory.
type Summary struct {
	MeanSpeed   float64
	StdDevSpeed float64
	MaxSpeed    float64
}

// Stats computes a speed Summary over all samples using gonum/stat and
// gonum/floats, matching the teacher's reliance on gonum for numeric
// reductions rather than hand-rolled loops.
func (t *Trajectory) Stats() Summary {
	speeds := t.ExtractSpeeds()
	if len(speeds) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(speeds, nil)
	return Summary{
		MeanSpeed:   mean,
		StdDevSpeed: std,
		MaxSpeed:    floats.Max(speeds),
	}
}

// String renders a compact human-readable summary, matching the source's
// to_string/print pair.
func (t *Trajectory) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "trajectory(count=%d, capacity=%d)", len(t.samples), t.capacity)
	for _, s := range t.samples {
		fmt.Fprintf(&b, "\n  t=%.3f pos=%v vel=%v", s.T, s.State.Linear.Position, s.State.Linear.Velocity)
	}
	return b.String()
}
