package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Box is an axis-aligned bounding box.
type Box struct {
	Min, Max r3.Vec
}

// EmptyBox returns the box with Min at +Inf and Max at -Inf. Adding any
// point to it yields that point.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// Empty reports whether b contains no points.
func (b Box) Empty() bool {
	return !(b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z)
}

// Size returns the extent of b along each axis.
func (b Box) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Extend returns the smallest box containing both b and p.
func (b Box) Extend(p r3.Vec) Box {
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	return b
}

// Overlaps reports whether b and o share at least one point. Boxes that
// only touch on a face, edge, or corner overlap.
func (b Box) Overlaps(o Box) bool {
	return math.Max(b.Min.X, o.Min.X) <= math.Min(b.Max.X, o.Max.X) &&
		math.Max(b.Min.Y, o.Min.Y) <= math.Min(b.Max.Y, o.Max.Y) &&
		math.Max(b.Min.Z, o.Min.Z) <= math.Min(b.Max.Z, o.Max.Z)
}

// IntersectRay clips the ray origin+t*dir against b using the slab
// method. ok is true if the ray overlaps b at some t ≥ 0, in which case
// [tmin, tmax] is the overlap interval. tmin may be negative if origin is
// inside b.
//
// A zero component of dir makes that axis unbounded if origin lies
// within the slab and rejects the ray otherwise.
func (b Box) IntersectRay(origin, dir r3.Vec) (tmin, tmax float64, ok bool) {
	if b.Empty() {
		return 0, 0, false
	}
	tmin, tmax = math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o, d := coord(origin, axis), coord(dir, axis)
		lo, hi := coord(b.Min, axis), coord(b.Max, axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t1, t2 := (lo-o)*inv, (hi-o)*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}
	return tmin, tmax, tmin <= tmax && tmax >= math.Max(0, tmin)
}

// BoundingBox returns the box around all vertex positions. It is empty if
// verts is empty.
func BoundingBox(verts []Vertex) Box {
	b := EmptyBox()
	for i := range verts {
		b = b.Extend(verts[i].Pos)
	}
	return b
}

// coord returns component axis (0, 1, or 2) of v.
func coord(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
