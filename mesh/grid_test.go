package mesh

import (
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestResolution(t *testing.T) {
	tests := []struct {
		name   string
		box    Box
		n      int
		lambda float64
		res    [3]int
		cell   r3.Vec
	}{
		{"cube", Box{vec(-1, -1, -1), vec(1, 1, 1)}, 12, 3, [3]int{3, 3, 3}, vec(2.0/3, 2.0/3, 2.0/3)},
		{"sparse", Box{vec(0, 0, 0), vec(1, 1, 1)}, 1, 1, [3]int{1, 1, 1}, vec(1, 1, 1)},
		{"elongated", Box{vec(0, 0, 0), vec(8, 1, 1)}, 8, 1, [3]int{8, 1, 1}, vec(1, 1, 1)},
		{"flat", Box{vec(0, 0, 0), vec(4, 4, 0)}, 8, 2, [3]int{4, 4, 1}, vec(1, 1, 0)},
		{"point", Box{vec(1, 1, 1), vec(1, 1, 1)}, 4, 3, [3]int{1, 1, 1}, vec(0, 0, 0)},
		{"capped", Box{vec(0, 0, 0), vec(1e6, 1e-6, 1e-6)}, 100, 3, [3]int{maxAxisCells, 1, 1}, vec(1e6/maxAxisCells, 1e-6, 1e-6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, cell := resolution(tt.box, tt.n, tt.lambda)
			if res != tt.res {
				t.Errorf("got resolution %v, want %v", res, tt.res)
			}
			if r3.Norm(r3.Sub(cell, tt.cell)) > 1e-12 {
				t.Errorf("got cell size %v, want %v", cell, tt.cell)
			}
		})
	}
}

func TestResolutionLambda(t *testing.T) {
	box := Box{vec(0, 0, 0), vec(1, 1, 1)}
	coarse, _ := resolution(box, 1000, 1.5)
	fine, _ := resolution(box, 1000, 6)
	if fine[0] <= coarse[0] {
		t.Errorf("got resolution %v for lambda 6, want finer than %v for lambda 1.5", fine, coarse)
	}
	if coarse != [3]int{11, 11, 11} {
		t.Errorf("got resolution %v, want [11 11 11]", coarse)
	}
}

// randomSoup returns n small random triangles with centers in
// [-size, size]³.
func randomSoup(rng *rand.Rand, n int, size, tri float64) [][3]r3.Vec {
	soup := make([][3]r3.Vec, n)
	for i := range soup {
		c := randomPoint(rng, size)
		for v := range soup[i] {
			soup[i][v] = r3.Add(c, randomPoint(rng, tri))
		}
	}
	return soup
}

func randomPoint(rng *rand.Rand, size float64) r3.Vec {
	return vec(
		(2*rng.Float64()-1)*size,
		(2*rng.Float64()-1)*size,
		(2*rng.Float64()-1)*size,
	)
}

func mustBuild(t testing.TB, m *Mesh) BuildReport {
	t.Helper()
	rep, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return rep
}

func TestGridCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := Weld(randomSoup(rng, 400, 5, 0.6))
	rep := mustBuild(t, m)
	g := m.grid
	if rep.Cells != g.numCells() || rep.Cells < 8 {
		t.Fatalf("got %d cells, want a real grid", rep.Cells)
	}

	for x := 0; x < g.res[0]; x++ {
		for y := 0; y < g.res[1]; y++ {
			for z := 0; z < g.res[2]; z++ {
				cb := g.cellBox(x, y, z)
				ids := g.at(x, y, z)
				if !slices.IsSorted(ids) {
					t.Errorf("cell (%d,%d,%d) ids not sorted", x, y, z)
				}
				for id, tri := range m.tris {
					if !m.triangleBox(tri).Overlaps(cb) {
						continue
					}
					if _, found := slices.BinarySearch(ids, int32(id)); !found {
						t.Errorf("triangle %d overlaps cell (%d,%d,%d) but is not registered", id, x, y, z)
					}
				}
			}
		}
	}
}

func TestGridWorkersDeterministic(t *testing.T) {
	soup := randomSoup(rand.New(rand.NewSource(2)), 300, 4, 0.8)
	m1 := Weld(soup, WithWorkers(1))
	m7 := Weld(soup, WithWorkers(7))
	r1, r7 := mustBuild(t, m1), mustBuild(t, m7)
	if r1.Resolution != r7.Resolution || r1.References != r7.References {
		t.Fatalf("got reports %+v and %+v, want same grid", r1, r7)
	}
	if !slices.Equal(m1.grid.start, m7.grid.start) {
		t.Error("cell offsets differ between 1 and 7 workers")
	}
	if !slices.Equal(m1.grid.ids, m7.grid.ids) {
		t.Error("cell contents differ between 1 and 7 workers")
	}
	if r7.Workers < 1 || r7.Workers > 7 {
		t.Errorf("got %d workers, want between 1 and 7", r7.Workers)
	}
}

func TestGridSkipsEmptyBoxes(t *testing.T) {
	box := Box{vec(0, 0, 0), vec(2, 2, 2)}
	boxes := []Box{
		{vec(0, 0, 0), vec(0.5, 0.5, 0.5)},
		EmptyBox(),
		{vec(1.5, 1.5, 1.5), vec(2, 2, 2)},
	}
	g := buildGrid(box, boxes, 2, makeOptions([]Option{WithLambda(1)}))
	for _, id := range g.ids {
		if id == 1 {
			t.Fatal("empty box registered in grid")
		}
	}
	if len(g.ids) < 2 {
		t.Errorf("got %d references, want at least 2", len(g.ids))
	}
}

func TestParallelFor(t *testing.T) {
	for _, tt := range []struct{ n, workers int }{{0, 4}, {1, 4}, {10, 1}, {10, 3}, {100, 8}} {
		seen := make([]int, tt.n)
		parallelFor(tt.n, tt.workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tt.n, tt.workers, i, c)
			}
		}
	}
}
