package mesh

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestIntersectTriangle(t *testing.T) {
	a, b, c := vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)
	tests := []struct {
		name        string
		origin, dir r3.Vec
		ok          bool
		t, u, v     float64
	}{
		{"front", vec(0.25, 0.25, 1), vec(0, 0, -1), true, 1, 0.25, 0.25},
		{"back", vec(0.25, 0.25, -2), vec(0, 0, 1), true, 2, 0.25, 0.25},
		{"unnormalized", vec(0.5, 0.25, 4), vec(0, 0, -2), true, 2, 0.5, 0.25},
		{"vertex", vec(0, 0, 1), vec(0, 0, -1), true, 1, 0, 0},
		{"outside", vec(0.75, 0.75, 1), vec(0, 0, -1), false, 0, 0, 0},
		{"behind", vec(0.25, 0.25, 1), vec(0, 0, 1), false, 0, 0, 0},
		{"parallel", vec(0.25, 0.25, 1), vec(1, 0, 0), false, 0, 0, 0},
		{"in plane", vec(-1, 0.25, 0), vec(1, 0, 0), false, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tHit, u, v, ok := IntersectTriangle(tt.origin, tt.dir, a, b, c)
			if ok != tt.ok {
				t.Fatalf("got ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			for _, x := range []struct {
				name      string
				got, want float64
			}{{"t", tHit, tt.t}, {"u", u, tt.u}, {"v", v, tt.v}} {
				if !scalar.EqualWithinAbs(x.got, x.want, 1e-12) {
					t.Errorf("got %s = %v, want %v", x.name, x.got, x.want)
				}
			}
		})
	}
}

func TestIntersectTriangleDegenerate(t *testing.T) {
	p := vec(1, 1, 1)
	if _, _, _, ok := IntersectTriangle(vec(0, 0, 0), vec(1, 1, 1), p, p, p); ok {
		t.Error("hit a point triangle")
	}
	if _, _, _, ok := IntersectTriangle(vec(0, 0, 0), vec(0, 0, 1), vec(-1, 0, 1), vec(0, 0, 1), vec(1, 0, 1)); ok {
		t.Error("hit a collinear triangle")
	}
}
