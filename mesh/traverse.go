package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// walk visits, in order of increasing distance, every cell pierced by the
// segment of the ray origin+t*dir with t in [max(tmin, 0), tmax]. It
// calls visit with the triangle ids of each cell and returns the number
// of cells visited.
//
// This is a 3D DDA: each axis tracks the ray parameter of its next cell
// boundary, and each step advances whichever axis crosses first. Ties go
// to X, then Y, then Z.
func (g *grid) walk(origin, dir r3.Vec, tmin, tmax float64, visit func(ids []int32)) int {
	t0 := math.Max(tmin, 0)
	entry := r3.Add(origin, r3.Scale(t0, dir))

	var cell, step [3]int
	var next, delta [3]float64
	inf := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		d, cs := coord(dir, axis), coord(g.cell, axis)
		if cs == 0 {
			// Flat axis: a single cell that the ray never leaves.
			next[axis], delta[axis] = inf, inf
			continue
		}
		rel := coord(entry, axis) - coord(g.origin, axis)
		c := clampInt(int(math.Floor(rel/cs)), 0, g.res[axis]-1)
		cell[axis] = c
		switch {
		case d > 0:
			step[axis] = 1
			delta[axis] = cs / d
			next[axis] = t0 + (float64(c+1)*cs-rel)/d
		case d < 0:
			step[axis] = -1
			delta[axis] = -cs / d
			next[axis] = t0 + (float64(c)*cs-rel)/d
		default:
			next[axis], delta[axis] = inf, inf
		}
	}

	// Each step moves one axis one cell toward the far side of the grid,
	// so the walk is bounded by the grid's dimensions.
	limit := g.res[0] + g.res[1] + g.res[2]
	steps := 0
	for steps < limit {
		visit(g.at(cell[0], cell[1], cell[2]))
		steps++

		axis := 0
		if next[1] < next[axis] {
			axis = 1
		}
		if next[2] < next[axis] {
			axis = 2
		}
		if next[axis] > tmax {
			break
		}
		cell[axis] += step[axis]
		if cell[axis] < 0 || cell[axis] >= g.res[axis] {
			break
		}
		next[axis] += delta[axis]
	}
	return steps
}
