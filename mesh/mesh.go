// Package mesh answers ray queries against static triangle meshes.
//
// A Mesh is built once into a uniform grid of cells, each listing the
// triangles whose bounding boxes overlap it. A query clips the ray to the
// mesh's bounding box, walks the cells the ray pierces in order of
// distance, and tests each candidate triangle exactly. Results are
// tagged with entry/exit semantics for closed solids and shells and are
// returned sorted by distance.
//
// After Build returns, a Mesh is immutable and safe for concurrent
// queries.
package mesh

import (
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Attr records which optional attributes a Vertex carries.
type Attr uint8

const (
	HasNormal Attr = 1 << iota
	HasUV
)

type Vertex struct {
	Pos    r3.Vec
	Normal r3.Vec     // Valid if Attr&HasNormal != 0
	UV     [2]float64 // Valid if Attr&HasUV != 0
	Attr   Attr
}

// A Triangle is three indexes into a mesh's vertex array. Viewed from
// outside a closed mesh, the vertexes are in counter-clockwise order.
type Triangle [3]int

type Mesh struct {
	verts []Vertex
	tris  []Triangle
	opts  Options

	built  bool
	box    Box
	closed bool
	valid  int   // Triangles accepted by Build
	grid   *grid // nil if the mesh has no valid triangles
}

// New returns an unbuilt mesh over verts and tris. The mesh takes
// ownership of both slices; the caller must not modify them afterwards.
func New(verts []Vertex, tris []Triangle, opts ...Option) *Mesh {
	return &Mesh{
		verts: verts,
		tris:  tris,
		opts:  makeOptions(opts),
	}
}

// FromPositions is like New for vertexes that carry only a position.
func FromPositions(pos []r3.Vec, tris []Triangle, opts ...Option) *Mesh {
	verts := make([]Vertex, len(pos))
	for i, p := range pos {
		verts[i].Pos = p
	}
	return New(verts, tris, opts...)
}

// BuildReport summarizes a Build.
type BuildReport struct {
	Triangles  int    // Triangles in the mesh
	Skipped    int    // Triangles rejected for bad vertex indexes
	Resolution [3]int // Grid cells along each axis
	Cells      int
	References int // Total triangle ids stored across all cells
	Workers    int
	Duration   time.Duration
}

// Build computes the bounding box and grid of m. It must be called
// exactly once, before any query. Building a mesh with no triangles
// succeeds and yields a mesh that no ray intersects.
func (m *Mesh) Build() (BuildReport, error) {
	if m.built {
		return BuildReport{}, ErrAlreadyBuilt
	}
	start := time.Now()
	log := m.opts.Logger
	rep := BuildReport{Triangles: len(m.tris)}

	// Compute the bounds of every triangle, rejecting bad ones.
	boxes := make([]Box, len(m.tris))
	nv := len(m.verts)
	for i, tri := range m.tris {
		if bad, ok := tri.check(nv); !ok {
			if m.opts.Strict {
				return rep, &InvalidTriangleError{Face: i, Vertex: bad, NumVertices: nv}
			}
			boxes[i] = EmptyBox()
			rep.Skipped++
			continue
		}
		boxes[i] = m.triangleBox(tri)
	}
	if rep.Skipped > 0 {
		log.Warn("skipped triangles with out-of-range vertexes",
			zap.Int("skipped", rep.Skipped), zap.Int("triangles", len(m.tris)), zap.Int("vertices", nv))
	}

	m.box = BoundingBox(m.verts)
	m.valid = len(m.tris) - rep.Skipped
	// Euler characteristic of a sphere: V - E + F = 2 with E = 3F/2.
	m.closed = m.valid/2+2 == nv

	if m.valid > 0 {
		g := buildGrid(m.box, boxes, m.valid, m.opts)
		m.grid = g
		rep.Resolution = g.res
		rep.Cells = g.numCells()
		rep.References = len(g.ids)
		rep.Workers = g.workers
	}
	m.built = true
	rep.Duration = time.Since(start)

	log.Debug("built mesh grid",
		zap.Int("triangles", m.valid),
		zap.Ints("resolution", rep.Resolution[:]),
		zap.Int("references", rep.References),
		zap.Bool("closed", m.closed),
		zap.Duration("duration", rep.Duration))
	return rep, nil
}

// Validate returns ErrNotBuilt if m is not ready for queries.
func (m *Mesh) Validate() error {
	if !m.built {
		return ErrNotBuilt
	}
	return nil
}

func (t Triangle) check(nv int) (bad int, ok bool) {
	for _, idx := range t {
		if idx < 0 || idx >= nv {
			return idx, false
		}
	}
	return 0, true
}

func (m *Mesh) triangleBox(t Triangle) Box {
	b := EmptyBox()
	for _, idx := range t {
		b = b.Extend(m.verts[idx].Pos)
	}
	return b
}

// corners returns the positions of triangle face.
func (m *Mesh) corners(face int) (a, b, c r3.Vec) {
	t := m.tris[face]
	return m.verts[t[0]].Pos, m.verts[t[1]].Pos, m.verts[t[2]].Pos
}

func (m *Mesh) NumVertices() int { return len(m.verts) }
func (m *Mesh) NumTriangles() int { return len(m.tris) }

func (m *Mesh) Vertex(i int) Vertex { return m.verts[i] }
func (m *Mesh) Triangle(i int) Triangle { return m.tris[i] }

// IsClosed reports whether m looks like a closed surface, judged by
// triangles/2 + 2 == vertices. It is only meaningful after Build.
func (m *Mesh) IsClosed() bool { return m.closed }

// Intersectable reports whether m is built and has at least one valid
// triangle.
func (m *Mesh) Intersectable() bool { return m.built && m.grid != nil }

// Bounds returns the bounding box of all vertexes. It is only meaningful
// after Build.
func (m *Mesh) Bounds() Box { return m.box }

// Resolution returns the number of grid cells along each axis, or all
// zeros if m has no grid.
func (m *Mesh) Resolution() [3]int {
	if m.grid == nil {
		return [3]int{}
	}
	return m.grid.res
}

// CellSize returns the extent of one grid cell.
func (m *Mesh) CellSize() r3.Vec {
	if m.grid == nil {
		return r3.Vec{}
	}
	return m.grid.cell
}
