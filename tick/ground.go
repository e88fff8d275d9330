package tick

import (
	"math"

	"byul/vecmath"
)

// GroundRaycaster is the open-set contract a caller can implement to
// generalize ground collision beyond the half-space fallback (spec.md
// §4.11, §9 open question: "the richer ground_t interface is under-
// specified in the source; the spec documents only the half-space
// fallback as required behavior").
type GroundRaycaster interface {
	// Raycast tests a segment of length maxDist starting at origin along
	// unit direction dir, returning the first hit point/normal/distance.
	Raycast(origin, dir vecmath.Vec3, maxDist float32) (hitPos, hitNormal vecmath.Vec3, dist float32, ok bool)
}

// PlaneGround is the required half-space fallback: a ground plane defined
// by a point and a unit normal, defaulting to y=0 with an up-facing
// normal.
type PlaneGround struct {
	Point  vecmath.Vec3
	Normal vecmath.Vec3
}

// DefaultGround returns the y=0 half-space with an up-facing normal.
func DefaultGround() PlaneGround {
	return PlaneGround{Normal: vecmath.New(0, 1, 0)}
}

// Raycast intersects the segment with the plane, accepting only forward
// hits within [0, maxDist].
func (g PlaneGround) Raycast(origin, dir vecmath.Vec3, maxDist float32) (hitPos, hitNormal vecmath.Vec3, dist float32, ok bool) {
	n := g.Normal.Unit()
	denom := dir.Dot(n)
	if float32(math.Abs(float64(denom))) < 1e-9 {
		return vecmath.Zero, vecmath.Zero, 0, false
	}
	t := g.Point.Sub(origin).Dot(n) / denom
	if t < 0 || t > maxDist {
		return vecmath.Zero, vecmath.Zero, 0, false
	}
	return origin.Add(dir.Scale(t)), n, t, true
}
