package mesh

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func builtCube(t testing.TB) *Mesh {
	t.Helper()
	m := NewBox(vec(-1, -1, -1), vec(1, 1, 1))
	mustBuild(t, m)
	return m
}

func TestCubeThrough(t *testing.T) {
	m := builtCube(t)
	if m.NumTriangles() != 12 || m.NumVertices() != 8 {
		t.Fatalf("got %d triangles, %d vertexes, want 12, 8", m.NumTriangles(), m.NumVertices())
	}
	if !m.IsClosed() {
		t.Fatal("cube is not closed")
	}

	got := m.Intersect(vec(0, 0, -5), vec(0, 0, 1))
	if len(got) != 2 {
		t.Fatalf("got %d intersections, want 2: %+v", len(got), got)
	}
	want := []struct {
		t     float64
		enter bool
		coord r3.Vec
	}{
		{4, true, vec(0, 0, -1)},
		{6, false, vec(0, 0, 1)},
	}
	for i, w := range want {
		g := got[i]
		if g.T != w.t || g.Enter != w.enter || g.Front != w.enter || g.Coord != w.coord {
			t.Errorf("intersection %d: got T=%v Enter=%v Front=%v Coord=%v, want T=%v Enter=%v Coord=%v",
				i, g.T, g.Enter, g.Front, g.Coord, w.t, w.enter, w.coord)
		}
	}
	if n := m.FaceNormal(got[0].Hit.Face); n != vec(0, 0, -1) {
		t.Errorf("got entry face normal %v, want (0,0,-1)", n)
	}
	if n := m.FaceNormal(got[1].Hit.Face); n != vec(0, 0, 1) {
		t.Errorf("got exit face normal %v, want (0,0,1)", n)
	}
}

func TestCubeMiss(t *testing.T) {
	m := builtCube(t)
	if got := m.Intersect(vec(10, 10, 10), vec(1, 0, 0)); got != nil {
		t.Errorf("got %+v, want no intersections", got)
	}
	if got := m.Intersect(vec(0, 0, 5), vec(0, 0, 1)); got != nil {
		t.Errorf("ray pointing away: got %+v, want no intersections", got)
	}
}

func TestCubeFromInside(t *testing.T) {
	m := builtCube(t)
	got := m.Intersect(vec(0.25, 0.5, 0), vec(1, 0, 0))
	if len(got) != 1 {
		t.Fatalf("got %d intersections, want 1", len(got))
	}
	if got[0].T != 0.75 || got[0].Enter {
		t.Errorf("got T=%v Enter=%v, want T=0.75 Enter=false", got[0].T, got[0].Enter)
	}
}

func TestCubeShell(t *testing.T) {
	m := builtCube(t)
	const thickness = 0.125
	got := NewShell(m, thickness).Intersect(vec(0, 0, -5), vec(0, 0, 1))
	want := []struct {
		t     float64
		enter bool
	}{{4, true}, {4.125, false}, {6, true}, {6.125, false}}
	if len(got) != len(want) {
		t.Fatalf("got %d intersections, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].T != w.t || got[i].Enter != w.enter || got[i].Front != w.enter {
			t.Errorf("intersection %d: got T=%v Enter=%v, want T=%v Enter=%v", i, got[i].T, got[i].Enter, w.t, w.enter)
		}
	}
	for i := 0; i < len(got); i += 2 {
		if got[i+1].T-got[i].T != thickness {
			t.Errorf("pair %d: got thickness %v, want %v", i/2, got[i+1].T-got[i].T, thickness)
		}
		if got[i+1].Hit != got[i].Hit {
			t.Errorf("pair %d: exit payload %+v differs from entry %+v", i/2, got[i+1].Hit, got[i].Hit)
		}
	}
}

func TestOpenMeshAllEnter(t *testing.T) {
	// Drop the +Z face so the box is open.
	m := NewBox(vec(-1, -1, -1), vec(1, 1, 1))
	m.tris = append(m.tris[:2:2], m.tris[4:]...)
	mustBuild(t, m)
	if m.IsClosed() {
		t.Fatal("open box reported closed")
	}
	got := m.Intersect(vec(0.5, 0.25, -5), vec(0, 0.01, 1))
	if len(got) != 1 || !got[0].Enter {
		t.Fatalf("got %+v, want one entering intersection", got)
	}
	got = m.Intersect(vec(-5, 0.5, 0.25), vec(1, 0, 0))
	if len(got) != 2 || !got[0].Enter || !got[1].Enter {
		t.Errorf("got %+v, want two entering intersections", got)
	}
}

func TestBuildTwice(t *testing.T) {
	m := builtCube(t)
	if _, err := m.Build(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("got error %v, want ErrAlreadyBuilt", err)
	}
}

func TestBuildReport(t *testing.T) {
	m := NewBox(vec(-1, -1, -1), vec(1, 1, 1), WithWorkers(2))
	rep := mustBuild(t, m)
	if rep.Triangles != 12 || rep.Skipped != 0 {
		t.Errorf("got %d triangles, %d skipped, want 12, 0", rep.Triangles, rep.Skipped)
	}
	if rep.Resolution != [3]int{3, 3, 3} || rep.Cells != 27 {
		t.Errorf("got resolution %v (%d cells), want [3 3 3] (27 cells)", rep.Resolution, rep.Cells)
	}
	if rep.References < 12 {
		t.Errorf("got %d references, want at least 12", rep.References)
	}
	if m.Resolution() != rep.Resolution {
		t.Errorf("got Resolution() = %v, want %v", m.Resolution(), rep.Resolution)
	}
	if cs := m.CellSize(); cs != vec(2.0/3, 2.0/3, 2.0/3) {
		t.Errorf("got CellSize() = %v, want 2/3 per axis", cs)
	}
	if b := m.Bounds(); b.Min != vec(-1, -1, -1) || b.Max != vec(1, 1, 1) {
		t.Errorf("got Bounds() = %v, want unit cube", b)
	}
}

func TestNotBuilt(t *testing.T) {
	m := NewBox(vec(-1, -1, -1), vec(1, 1, 1))
	if err := m.Validate(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("got Validate() = %v, want ErrNotBuilt", err)
	}
	if got := m.Intersect(vec(0, 0, -5), vec(0, 0, 1)); got != nil {
		t.Errorf("unbuilt mesh: got %+v, want no intersections", got)
	}
	mustBuild(t, m)
	if err := m.Validate(); err != nil {
		t.Errorf("got Validate() = %v after Build, want nil", err)
	}
}

func TestEmptyMesh(t *testing.T) {
	m := New(nil, nil)
	rep := mustBuild(t, m)
	if rep.Cells != 0 || m.Intersectable() {
		t.Errorf("got %d cells, intersectable %v, want 0, false", rep.Cells, m.Intersectable())
	}
	if !m.Bounds().Empty() {
		t.Errorf("got bounds %v, want empty", m.Bounds())
	}
	if got := m.Intersect(vec(0, 0, 0), vec(1, 0, 0)); got != nil {
		t.Errorf("got %+v, want no intersections", got)
	}
	if got := m.Candidates(vec(0, 0, 0), vec(1, 0, 0)); got != nil {
		t.Errorf("got candidates %v, want none", got)
	}
}

func TestDegenerateMesh(t *testing.T) {
	p := vec(1, 1, 1)
	m := FromPositions([]r3.Vec{p, p, p, p}, []Triangle{{0, 1, 2}, {1, 2, 3}, {0, 2, 3}, {0, 1, 3}})
	rep := mustBuild(t, m)
	if rep.Resolution != [3]int{1, 1, 1} {
		t.Errorf("got resolution %v, want [1 1 1]", rep.Resolution)
	}
	rays := []struct{ origin, dir r3.Vec }{
		{vec(0, 0, 0), vec(1, 1, 1)},
		{vec(1, 1, 0), vec(0, 0, 1)},
		{vec(1, 1, 1), vec(1, 0, 0)},
		{vec(-3, 2, 7), vec(1, -0.25, -1.5)},
	}
	for _, r := range rays {
		if got := m.Intersect(r.origin, r.dir); got != nil {
			t.Errorf("ray %v+t%v: got %+v, want none", r.origin, r.dir, got)
		}
	}
}

func TestFlatMesh(t *testing.T) {
	// A 4x4 grid of quads in the z=0 plane.
	var soup [][3]r3.Vec
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			a, b := vec(float64(x), float64(y), 0), vec(float64(x+1), float64(y), 0)
			c, d := vec(float64(x), float64(y+1), 0), vec(float64(x+1), float64(y+1), 0)
			soup = append(soup, [3]r3.Vec{a, b, d}, [3]r3.Vec{a, d, c})
		}
	}
	m := Weld(soup, WithLambda(2))
	rep := mustBuild(t, m)
	if rep.Resolution[2] != 1 || rep.Resolution[0] < 2 {
		t.Errorf("got resolution %v, want several cells in X and Y and one in Z", rep.Resolution)
	}
	got := m.Intersect(vec(2.3, 1.7, 3), vec(0.1, 0, -1))
	if len(got) != 1 || !scalar.EqualWithinAbs(got[0].T, 3, 1e-12) {
		t.Fatalf("got %+v, want one intersection at T=3", got)
	}
	// Traveling within the plane hits nothing.
	if got := m.Intersect(vec(-1, 1.5, 0), vec(1, 0, 0)); got != nil {
		t.Errorf("in-plane ray: got %+v, want none", got)
	}
}

func TestZeroDirection(t *testing.T) {
	m := builtCube(t)
	if got := m.Intersect(vec(0, 0, 0), vec(0, 0, 0)); got != nil {
		t.Errorf("got %+v, want none", got)
	}
	if got, st := m.Trace(vec(0, 0, -5), vec(0, 0, 0)); got != nil || st != (QueryStats{}) {
		t.Errorf("got %+v, %+v, want none", got, st)
	}
}

func TestInvalidTriangles(t *testing.T) {
	pos := []r3.Vec{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)}
	tris := []Triangle{{0, 1, 2}, {0, 1, 7}, {-1, 1, 2}}

	core, logs := observer.New(zapcore.WarnLevel)
	m := FromPositions(pos, tris, WithLogger(zap.New(core)))
	rep := mustBuild(t, m)
	if rep.Skipped != 2 {
		t.Errorf("got %d skipped, want 2", rep.Skipped)
	}
	if logs.FilterMessageSnippet("skipped").Len() != 1 {
		t.Errorf("got %d skip warnings, want 1", logs.Len())
	}
	got := m.Intersect(vec(0.25, 0.25, 1), vec(0, 0, -1))
	if len(got) != 1 || got[0].Hit.Face != 0 {
		t.Errorf("got %+v, want one hit on face 0", got)
	}

	strict := FromPositions(pos, tris, WithStrict(true))
	_, err := strict.Build()
	var ite *InvalidTriangleError
	if !errors.As(err, &ite) {
		t.Fatalf("got error %v, want *InvalidTriangleError", err)
	}
	if ite.Face != 1 || ite.Vertex != 7 || ite.NumVertices != 3 {
		t.Errorf("got %+v, want face 1, vertex 7 of 3", ite)
	}
	if strict.Intersectable() {
		t.Error("mesh that failed to build is intersectable")
	}
}

func TestBuildLogsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewBox(vec(0, 0, 0), vec(1, 2, 3), WithLogger(zap.New(core)))
	mustBuild(t, m)
	entries := logs.FilterMessage("built mesh grid").All()
	if len(entries) != 1 {
		t.Fatalf("got %d build log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["closed"]; got != true {
		t.Errorf("got closed=%v in log, want true", got)
	}
}
