package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewBox returns an unbuilt closed mesh of the box from min to max: 8
// vertexes and 12 outward-facing triangles.
func NewBox(min, max r3.Vec, opts ...Option) *Mesh {
	// Vertex i has max coordinates on the axes whose bit is set in i
	// (bit 0 = X, bit 1 = Y, bit 2 = Z).
	pos := make([]r3.Vec, 8)
	for i := range pos {
		p := min
		if i&1 != 0 {
			p.X = max.X
		}
		if i&2 != 0 {
			p.Y = max.Y
		}
		if i&4 != 0 {
			p.Z = max.Z
		}
		pos[i] = p
	}
	tris := []Triangle{
		{0, 2, 1}, {1, 2, 3}, // -Z
		{4, 5, 6}, {5, 7, 6}, // +Z
		{0, 4, 2}, {2, 4, 6}, // -X
		{1, 3, 5}, {3, 7, 5}, // +X
		{0, 1, 4}, {1, 5, 4}, // -Y
		{2, 6, 3}, {3, 6, 7}, // +Y
	}
	return FromPositions(pos, tris, opts...)
}

// NewIcosahedron returns an unbuilt closed mesh of a regular icosahedron
// whose vertexes lie on the sphere of the given center and radius.
func NewIcosahedron(center r3.Vec, radius float64, opts ...Option) *Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	raw := []r3.Vec{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	verts := make([]Vertex, len(raw))
	for i, p := range raw {
		n := r3.Unit(p)
		verts[i] = Vertex{Pos: r3.Add(center, r3.Scale(radius, n)), Normal: n, Attr: HasNormal}
	}
	tris := []Triangle{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	orientOutward(verts, tris, center)
	return New(verts, tris, opts...)
}

// NewUVSphere returns an unbuilt closed mesh approximating a sphere with
// the given number of slices around the Z axis and stacks from pole to
// pole. Vertexes carry normals.
func NewUVSphere(center r3.Vec, radius float64, slices, stacks int, opts ...Option) *Mesh {
	slices = max(slices, 3)
	stacks = max(stacks, 2)

	add := func(verts []Vertex, n r3.Vec) []Vertex {
		return append(verts, Vertex{Pos: r3.Add(center, r3.Scale(radius, n)), Normal: n, Attr: HasNormal})
	}
	verts := add(nil, r3.Vec{Z: 1})
	for i := 1; i < stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		for j := 0; j < slices; j++ {
			phi := 2 * math.Pi * float64(j) / float64(slices)
			verts = add(verts, r3.Vec{
				X: math.Sin(theta) * math.Cos(phi),
				Y: math.Sin(theta) * math.Sin(phi),
				Z: math.Cos(theta),
			})
		}
	}
	verts = add(verts, r3.Vec{Z: -1})
	south := len(verts) - 1

	ring := func(i, j int) int { return 1 + i*slices + j%slices }
	var tris []Triangle
	for j := 0; j < slices; j++ {
		tris = append(tris, Triangle{0, ring(0, j), ring(0, j+1)})
	}
	for i := 0; i < stacks-2; i++ {
		for j := 0; j < slices; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			tris = append(tris, Triangle{a, c, b}, Triangle{b, c, d})
		}
	}
	for j := 0; j < slices; j++ {
		tris = append(tris, Triangle{south, ring(stacks-2, j+1), ring(stacks-2, j)})
	}
	orientOutward(verts, tris, center)
	return New(verts, tris, opts...)
}

// orientOutward flips any triangle of a convex, star-shaped surface
// around center whose normal points inward.
func orientOutward(verts []Vertex, tris []Triangle, center r3.Vec) {
	for i, t := range tris {
		a, b, c := verts[t[0]].Pos, verts[t[1]].Pos, verts[t[2]].Pos
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		centroid := r3.Scale(1.0/3, r3.Add(r3.Add(a, b), c))
		if r3.Dot(n, r3.Sub(centroid, center)) < 0 {
			tris[i][1], tris[i][2] = t[2], t[1]
		}
	}
}

// Weld returns an unbuilt mesh over a triangle soup, merging vertexes
// with identical positions.
func Weld(soup [][3]r3.Vec, opts ...Option) *Mesh {
	var pos []r3.Vec
	vertMap := make(map[r3.Vec]int)
	tris := make([]Triangle, len(soup))
	for i, corners := range soup {
		for v, p := range corners {
			// Add the vertex to the vertex set.
			idx, ok := vertMap[p]
			if !ok {
				idx = len(pos)
				pos = append(pos, p)
				vertMap[p] = idx
			}
			tris[i][v] = idx
		}
	}
	return FromPositions(pos, tris, opts...)
}
