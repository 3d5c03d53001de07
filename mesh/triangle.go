package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon is relative to the lengths of the triangle's edges and of the
// ray direction, so results do not depend on the units of either.
const epsilon = 0.0000001

// IntersectTriangle intersects the ray origin+t*dir with triangle abc.
// dir need not be normalized. On a hit it returns the ray parameter t > 0
// and the barycentric coordinates (u, v) of the hit point, which is
// (1-u-v)*a + u*b + v*c. Both faces of the triangle are hit.
func IntersectTriangle(origin, dir, a, b, c r3.Vec) (t, u, v float64, ok bool) {
	// Möller–Trumbore intersection, based on Wikipedia implementation
	// and the Scratchapixel implementation.
	edge1 := r3.Sub(b, a)
	edge2 := r3.Sub(c, a)
	h := r3.Cross(dir, edge2)
	det := r3.Dot(edge1, h)
	// If the determinant is close to 0, the ray is parallel to the
	// plane of the triangle (or the triangle is degenerate). det is the
	// product of three lengths, so compare it against their scale.
	len1, len2, dirLen := r3.Norm(edge1), r3.Norm(edge2), r3.Norm(dir)
	if math.Abs(det) <= epsilon*len1*len2*dirLen {
		return 0, 0, 0, false
	}
	invDet := 1 / det
	s := r3.Sub(origin, a)
	u = invDet * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := r3.Cross(s, edge1)
	v = invDet * r3.Dot(dir, q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = invDet * r3.Dot(edge2, q)
	if t*dirLen <= epsilon*math.Max(len1, len2) {
		// There is a line intersection but not a ray intersection.
		return 0, 0, 0, false
	}
	return t, u, v, true
}
