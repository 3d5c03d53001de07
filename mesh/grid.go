package mesh

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// cellSlack widens each triangle's cell range, in units of cells, so
// that rounding never drops a triangle from a cell its box touches.
const cellSlack = 1e-9

// A grid is a uniform subdivision of a mesh's bounding box. The
// triangle ids of cell i are ids[start[i]:start[i+1]], in increasing
// order.
type grid struct {
	origin r3.Vec
	res    [3]int
	cell   r3.Vec // Zero along axes where the mesh is flat

	start []int
	ids   []int32

	workers int // Goroutines used to build
}

// resolution picks the number of cells along each axis so that a cell
// holds about lambda of the n triangles. Axes along which the box is
// flat get one cell and are left out of the density computation.
func resolution(box Box, n int, lambda float64) (res [3]int, cell r3.Vec) {
	size := box.Size()
	volume, dims := 1.0, 0
	for axis := 0; axis < 3; axis++ {
		if e := coord(size, axis); e > 0 {
			volume *= e
			dims++
		}
	}
	density := lambda * float64(n) / volume
	var factor float64
	switch dims {
	case 1:
		factor = density
	case 2:
		factor = math.Sqrt(density)
	case 3:
		factor = math.Cbrt(density)
	}
	var cs [3]float64
	for axis := 0; axis < 3; axis++ {
		e := coord(size, axis)
		r := math.Floor(e * factor)
		if !(r >= 1) || math.IsInf(r, 0) {
			r = 1
		}
		if r > maxAxisCells {
			r = maxAxisCells
		}
		res[axis] = int(r)
		if e > 0 {
			cs[axis] = e / r
		}
	}
	return res, r3.Vec{X: cs[0], Y: cs[1], Z: cs[2]}
}

// maxAxisCells bounds the resolution along any one axis.
const maxAxisCells = 1 << 10

func (g *grid) numCells() int {
	return g.res[0] * g.res[1] * g.res[2]
}

func (g *grid) index(x, y, z int) int {
	return (x*g.res[1]+y)*g.res[2] + z
}

// at returns the triangle ids in cell (x, y, z).
func (g *grid) at(x, y, z int) []int32 {
	i := g.index(x, y, z)
	return g.ids[g.start[i]:g.start[i+1]]
}

// cellBox returns the bounds of cell (x, y, z).
func (g *grid) cellBox(x, y, z int) Box {
	lo := r3.Add(g.origin, r3.Vec{
		X: float64(x) * g.cell.X,
		Y: float64(y) * g.cell.Y,
		Z: float64(z) * g.cell.Z,
	})
	return Box{lo, r3.Add(lo, g.cell)}
}

// span returns the inclusive range of cells along axis that the interval
// [lo, hi] overlaps.
func (g *grid) span(axis int, lo, hi float64) (int, int) {
	cs := coord(g.cell, axis)
	if cs == 0 {
		return 0, 0
	}
	o := coord(g.origin, axis)
	last := g.res[axis] - 1
	a := clampInt(int(math.Floor((lo-o)/cs-cellSlack)), 0, last)
	b := clampInt(int(math.Floor((hi-o)/cs+cellSlack)), 0, last)
	return a, b
}

// cellRange is the block of cells overlapped by one triangle's box.
type cellRange struct {
	lo, hi [3]int
	ok     bool
}

func (g *grid) rangeOf(b Box) cellRange {
	if b.Empty() {
		return cellRange{}
	}
	var r cellRange
	for axis := 0; axis < 3; axis++ {
		r.lo[axis], r.hi[axis] = g.span(axis, coord(b.Min, axis), coord(b.Max, axis))
	}
	r.ok = true
	return r
}

// buildGrid lays out a grid over box and registers each triangle in every
// cell its box overlaps. Empty boxes are never registered. n is the number
// of non-empty boxes.
//
// The cell lists are stored in one flat arena. A counting pass sizes each
// cell, a prefix sum assigns offsets, and a fill pass writes the ids. Both
// passes split the grid into slabs of X cells, one per worker, so each
// worker writes only its own cells.
func buildGrid(box Box, boxes []Box, n int, opts Options) *grid {
	g := &grid{origin: box.Min}
	g.res, g.cell = resolution(box, n, opts.Lambda)
	g.workers = min(opts.Workers, g.res[0])

	ranges := make([]cellRange, len(boxes))
	parallelFor(len(boxes), opts.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ranges[i] = g.rangeOf(boxes[i])
		}
	})

	nc := g.numCells()
	g.start = make([]int, nc+1)
	parallelFor(g.res[0], g.workers, func(x0, x1 int) {
		for _, r := range ranges {
			g.eachCell(r, x0, x1, func(c int) {
				g.start[c+1]++
			})
		}
	})
	for i := 1; i <= nc; i++ {
		g.start[i] += g.start[i-1]
	}

	g.ids = make([]int32, g.start[nc])
	next := make([]int, nc)
	copy(next, g.start[:nc])
	parallelFor(g.res[0], g.workers, func(x0, x1 int) {
		for id, r := range ranges {
			g.eachCell(r, x0, x1, func(c int) {
				g.ids[next[c]] = int32(id)
				next[c]++
			})
		}
	})
	return g
}

// eachCell calls f with the index of every cell in r whose X index is in
// [x0, x1).
func (g *grid) eachCell(r cellRange, x0, x1 int, f func(c int)) {
	if !r.ok {
		return
	}
	xl, xh := max(r.lo[0], x0), min(r.hi[0], x1-1)
	for x := xl; x <= xh; x++ {
		for y := r.lo[1]; y <= r.hi[1]; y++ {
			for z := r.lo[2]; z <= r.hi[2]; z++ {
				f(g.index(x, y, z))
			}
		}
	}
}

// parallelFor splits [0, n) into at most workers contiguous chunks and
// runs f on each chunk in its own goroutine. It returns when all chunks
// are done.
func parallelFor(n, workers int, f func(lo, hi int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			f(0, n)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		lo, hi := w*n/workers, (w+1)*n/workers
		go func() {
			defer wg.Done()
			f(lo, hi)
		}()
	}
	wg.Wait()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
