// Package solver provides the low-level root finders the rest of the
// engine builds on: linear, quadratic, Cardano-method cubic, and a
// bisection fallback (spec.md §4.3, §4.8), grounded on
// numeq_solver.{h,cpp}.
package solver

import (
	"errors"
	"math"
	"sort"
)

// ErrUnsolvable names the no-real-root condition (spec.md §7). No function
// in this package returns it; the solvers report that case with ok=false.
var ErrUnsolvable = errors.New("solver: no real root")

// Linear solves a*x + b = 0. Returns false when a == 0 (no unique root).
func Linear(a, b float32) (x float32, ok bool) {
	if a == 0 {
		return 0, false
	}
	return -b / a, true
}

// Quadratic solves a*x^2 + b*x + c = 0 for real roots, x1 <= x2. When
// a == 0 it degrades to the linear case (matching numeq_solve_quadratic's
// documented behavior), returning the single root as both x1 and x2.
func Quadratic(a, b, c float32) (x1, x2 float32, ok bool) {
	if a == 0 {
		x, lok := Linear(b, c)
		return x, x, lok
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	r1 := (-b - sq) / (2 * a)
	r2 := (-b + sq) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1, r2, true
}

// SmallestNonNegative picks the smaller of two roots that is >= 0,
// falling back to the other root if only one qualifies. ok is false if
// neither root is non-negative.
func SmallestNonNegative(x1, x2 float32) (x float32, ok bool) {
	lo, hi := x1, x2
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case lo >= 0:
		return lo, true
	case hi >= 0:
		return hi, true
	default:
		return 0, false
	}
}

// Cubic solves a*x^3 + b*x^2 + c*x + d = 0 via Cardano's method, returning
// all real roots in ascending order. Degrades to Quadratic when a is
// numerically zero (spec.md §4.8).
func Cubic(a, b, c, d float32) (roots []float32, ok bool) {
	const aZeroEps = 1e-9
	if absf(a) < aZeroEps {
		x1, x2, qok := Quadratic(b, c, d)
		if !qok {
			return nil, false
		}
		if x1 == x2 {
			return []float32{x1}, true
		}
		return []float32{x1, x2}, true
	}

	// Normalize to x^3 + px + q form via depressed cubic substitution
	// x = t - B/3.
	A, B, C, D := float64(a), float64(b), float64(c), float64(d)
	B /= A
	C /= A
	D /= A

	p := C - B*B/3
	q := 2*B*B*B/27 - B*C/3 + D
	shift := -B / 3

	disc := q*q/4 + p*p*p/27
	illConditioned := disc >= -1e-12 && disc <= 1e-12

	var ts []float64
	switch {
	case disc > 1e-12:
		// One real root.
		sqrtDisc := math.Sqrt(disc)
		u := cbrt(-q/2 + sqrtDisc)
		v := cbrt(-q/2 - sqrtDisc)
		ts = []float64{u + v}
	case disc < -1e-12:
		// Three distinct real roots (trigonometric method).
		r := math.Sqrt(-p * p * p / 27)
		phi := math.Acos(clamp(-q/(2*r), -1, 1))
		m := 2 * math.Sqrt(-p/3)
		ts = []float64{
			m * math.Cos(phi/3),
			m * math.Cos((phi+2*math.Pi)/3),
			m * math.Cos((phi+4*math.Pi)/3),
		}
	default:
		// Repeated roots. disc≈0 is exactly where the cbrt-based closed
		// form is most ill-conditioned, so these candidates get a
		// bisection hardening pass below before being accepted.
		u := cbrt(-q / 2)
		ts = []float64{2 * u, -u}
	}

	seen := make([]float32, 0, len(ts))
	for _, t := range ts {
		x := float32(t + shift)
		if illConditioned {
			x = refineCubicRoot(a, b, c, d, x)
		}
		seen = append(seen, x)
	}
	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	return seen, true
}

// refineCubicRoot hardens an analytic root estimate with a bisection pass
// against the original polynomial, bracketing a small window around the
// estimate and modestly widening it until a sign change is found. The
// widening is kept local to the estimate (a handful of doublings) so it
// cannot wander into a neighboring root's territory; if no sign change
// turns up in that local window, it falls back to the analytic estimate
// (e.g. a true double root that only touches zero without crossing it).
func refineCubicRoot(a, b, c, d, estimate float32) float32 {
	f := func(x float32) float32 {
		return ((a*x+b)*x+c)*x + d
	}
	delta := absf(estimate) * 1e-3
	if delta < 1e-5 {
		delta = 1e-5
	}
	for i := 0; i < 6; i++ {
		if root, ok := Bisection(f, estimate-delta, estimate+delta, 1e-6, 50); ok {
			return root
		}
		delta *= 2
	}
	return estimate
}

// SmallestPositive returns the smallest strictly-positive root from a
// sorted-ascending root list, or ok=false if none qualifies.
func SmallestPositive(roots []float32) (x float32, ok bool) {
	for _, r := range roots {
		if r > 0 {
			return r, true
		}
	}
	return 0, false
}

// Bisection finds a root of f in [a,b] to within tol, assuming f changes
// sign across the interval. Used as a hardening fallback when the
// analytic cubic solve is numerically ill-conditioned
// (SPEC_FULL §4.C).
func Bisection(f func(float32) float32, a, b, tol float32, maxIter int) (root float32, ok bool) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if sameSign(fa, fb) {
		return 0, false
	}
	if maxIter <= 0 {
		maxIter = 100
	}
	for i := 0; i < maxIter; i++ {
		mid := (a + b) / 2
		fm := f(mid)
		if absf(fm) < tol || (b-a)/2 < tol {
			return mid, true
		}
		if sameSign(fm, fa) {
			a, fa = mid, fm
		} else {
			b, fb = mid, fm
		}
	}
	return (a + b) / 2, true
}

func sameSign(a, b float32) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func cbrt(x float64) float64 {
	return math.Cbrt(x)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
