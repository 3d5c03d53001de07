package mesh

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyBuilt = errors.New("mesh: Build called more than once")
	ErrNotBuilt     = errors.New("mesh: not built")
)

// An InvalidTriangleError reports a triangle that references a vertex
// outside the mesh's vertex array.
type InvalidTriangleError struct {
	Face        int
	Vertex      int
	NumVertices int
}

func (e *InvalidTriangleError) Error() string {
	return fmt.Sprintf("mesh: triangle %d references vertex %d, have %d vertices", e.Face, e.Vertex, e.NumVertices)
}
