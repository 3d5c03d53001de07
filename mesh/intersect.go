package mesh

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// tieEpsilon is the distance, relative to the larger of the hit distance
// and the mesh's size, within which two hits with the same entry sense
// are treated as one surface crossing. This happens when a ray passes
// exactly through an edge shared by two triangles.
const tieEpsilon = 1e-9

// Hit identifies the surface point of an Intersection.
type Hit struct {
	Face int     // Triangle index
	U, V float64 // Barycentric coordinates within Face
}

// An Intersection is one crossing of a ray with a mesh surface.
type Intersection struct {
	T float64 // Ray parameter of the crossing

	// Enter is true if the ray enters the solid here. On meshes that
	// are not closed, and on shells, every real surface crossing is an
	// entry.
	Enter bool

	// Front is always equal to Enter.
	Front bool

	Coord r3.Vec // origin + T*dir
	Hit   Hit
}

// A Solid is a built Mesh together with how its crossings are
// interpreted.
type Solid struct {
	Mesh *Mesh

	// Shell treats the surface as a thin shell: each crossing of the
	// surface produces an entry and, ShellThickness further along the
	// ray, a matching exit.
	Shell          bool
	ShellThickness float64
}

// NewSolid returns a solid that interprets m as a closed volume if it
// is closed and as a set of surfaces otherwise.
func NewSolid(m *Mesh) *Solid {
	return &Solid{Mesh: m}
}

// NewShell returns a shell-mode solid over m.
func NewShell(m *Mesh, thickness float64) *Solid {
	return &Solid{Mesh: m, Shell: true, ShellThickness: thickness}
}

// Bounds returns the bounding box of the solid's mesh.
func (s *Solid) Bounds() Box {
	return s.Mesh.Bounds()
}

// Intersect returns the crossings of the ray origin+t*dir, t > 0, with
// the solid, sorted by T. It returns nil if there are none. Coincident
// hits are merged as described on Mesh.Intersect.
func (s *Solid) Intersect(origin, dir r3.Vec) []Intersection {
	out, _ := s.Mesh.trace(origin, dir, s.Shell, s.ShellThickness)
	return out
}

// Trace is like Intersect and also reports what the query did.
func (s *Solid) Trace(origin, dir r3.Vec) ([]Intersection, QueryStats) {
	return s.Mesh.trace(origin, dir, s.Shell, s.ShellThickness)
}

// Intersect returns the crossings of the ray origin+t*dir, t > 0, with m,
// sorted by T. dir need not be normalized. It returns nil if the ray
// misses, if dir is zero, or if m is not intersectable.
//
// A ray through an edge or vertex shared by several triangles hits each
// of them at the same T. Such hits are reported once: consecutive hits
// with the same Enter whose distances differ by less than about 1e-9 of
// the mesh's size are merged into the first. As a result, two distinct
// surfaces that nearly coincide and face the same way along the ray
// also yield a single Intersection.
func (m *Mesh) Intersect(origin, dir r3.Vec) []Intersection {
	out, _ := m.trace(origin, dir, false, 0)
	return out
}

// Trace is like Intersect and also reports what the query did.
func (m *Mesh) Trace(origin, dir r3.Vec) ([]Intersection, QueryStats) {
	return m.trace(origin, dir, false, 0)
}

// QueryStats counts the work done by one query.
type QueryStats struct {
	Cells      int // Grid cells visited
	Candidates int // Distinct triangles tested exactly
	Hits       int // Intersections returned
}

// Candidates returns the ids of the triangles registered in the cells
// that the ray passes through, in increasing order. Every triangle the
// ray hits is among them.
func (m *Mesh) Candidates(origin, dir r3.Vec) []int {
	sc := getScratch(len(m.tris))
	defer putScratch(sc)
	if _, ok := m.gather(origin, dir, sc); !ok {
		return nil
	}
	ids := make([]int, len(sc.list))
	for i, id := range sc.list {
		ids[i] = int(id)
	}
	return ids
}

func (m *Mesh) trace(origin, dir r3.Vec, shell bool, thickness float64) ([]Intersection, QueryStats) {
	var st QueryStats
	sc := getScratch(len(m.tris))
	defer putScratch(sc)
	cells, ok := m.gather(origin, dir, sc)
	if !ok {
		return nil, st
	}
	st.Cells = cells
	st.Candidates = len(sc.list)
	out := m.assemble(origin, dir, sc.list, shell, thickness)
	st.Hits = len(out)
	return out, st
}

// gather collects into sc the sorted, distinct candidate triangles for a
// ray and returns the number of cells visited. ok is false if the ray
// cannot hit m at all.
func (m *Mesh) gather(origin, dir r3.Vec, sc *scratch) (cells int, ok bool) {
	if !m.Intersectable() || !usableRay(origin, dir) {
		return 0, false
	}
	tmin, tmax, ok := m.box.IntersectRay(origin, dir)
	if !ok {
		return 0, false
	}
	cells = m.grid.walk(origin, dir, tmin, tmax, sc.add)
	slices.Sort(sc.list)
	return cells, true
}

// assemble tests each candidate exactly and turns the hits into sorted
// intersections.
func (m *Mesh) assemble(origin, dir r3.Vec, cands []int32, shell bool, thickness float64) []Intersection {
	var out []Intersection
	for _, id := range cands {
		face := int(id)
		a, b, c := m.corners(face)
		t, u, v, ok := IntersectTriangle(origin, dir, a, b, c)
		if !ok {
			continue
		}
		// Only the sign matters, so the normal is left unnormalized.
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		enter := shell || !m.closed || r3.Dot(dir, n) < 0
		hit := Hit{Face: face, U: u, V: v}
		out = append(out, Intersection{
			T:     t,
			Enter: enter,
			Front: enter,
			Coord: along(origin, dir, t),
			Hit:   hit,
		})
		if !shell {
			continue
		}
		t += thickness
		out = append(out, Intersection{
			T:     t,
			Coord: along(origin, dir, t),
			Hit:   hit,
		})
	}
	if len(out) == 0 {
		return nil
	}
	slices.SortStableFunc(out, func(a, b Intersection) int {
		return cmp.Compare(a.T, b.T)
	})
	return mergeTies(out, r3.Norm(m.box.Size())/r3.Norm(dir))
}

// mergeTies drops each intersection that repeats the entry sense of the
// one kept before it at the same distance. scale is the ray parameter
// span of the mesh, which bounds the tolerance from below.
func mergeTies(out []Intersection, scale float64) []Intersection {
	keep := out[:1]
	for _, x := range out[1:] {
		last := keep[len(keep)-1]
		if x.Enter == last.Enter && x.T-last.T <= tieEpsilon*math.Max(scale, math.Abs(x.T)) {
			continue
		}
		keep = append(keep, x)
	}
	return keep
}

func along(origin, dir r3.Vec, t float64) r3.Vec {
	return r3.Add(origin, r3.Scale(t, dir))
}

// usableRay reports whether a ray is finite and has a direction.
func usableRay(origin, dir r3.Vec) bool {
	if dir == (r3.Vec{}) {
		return false
	}
	for _, f := range [...]float64{origin.X, origin.Y, origin.Z, dir.X, dir.Y, dir.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// scratch is the per-query candidate set: a bitset over triangle ids and
// the list of ids set in it.
type scratch struct {
	mark []uint64
	list []int32
}

var scratchPool = sync.Pool{
	New: func() any { return new(scratch) },
}

func getScratch(n int) *scratch {
	sc := scratchPool.Get().(*scratch)
	if words := (n + 63) / 64; len(sc.mark) < words {
		sc.mark = make([]uint64, words)
	}
	return sc
}

func putScratch(sc *scratch) {
	for _, id := range sc.list {
		sc.mark[id/64] = 0
	}
	sc.list = sc.list[:0]
	scratchPool.Put(sc)
}

func (sc *scratch) add(ids []int32) {
	for _, id := range ids {
		w, bit := id/64, uint64(1)<<(uint(id)%64)
		if sc.mark[w]&bit != 0 {
			continue
		}
		sc.mark[w] |= bit
		sc.list = append(sc.list, id)
	}
}
