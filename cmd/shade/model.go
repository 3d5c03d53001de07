package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/aclements/gridmesh/internal/config"
	"github.com/aclements/gridmesh/mesh"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// A ShadeModel computes the sun exposure on a test point in a 3D model.
//
// The coordinate system is as follows, in feet:
//
//	Z/up
//	|  Y/north
//	| /
//	|/____ X/east
type ShadeModel struct {
	lat, lon float64

	elevationFeet float64

	layers []*shadeLayer

	// inputs records everything the layers were built from, for
	// keying the result cache.
	inputs []any

	opts    []mesh.Option
	workers int
	log     *zap.Logger
}

// NewShadeModel returns a shade model where the origin is at the given
// latitude, longitude, and elevation. Latitude and longitude are in
// degrees, where north and east are positive, respectively. Elevation
// is in feet. workers bounds the goroutines used to trace rays; if it
// is not positive, GOMAXPROCS is used. opts apply to every mesh in the
// model.
func NewShadeModel(latitude, longitude float64, elevationFeet float64, workers int, log *zap.Logger, opts ...mesh.Option) *ShadeModel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ShadeModel{
		lat:           latitude,
		lon:           longitude,
		elevationFeet: elevationFeet,
		opts:          opts,
		workers:       workers,
		log:           log,
	}
}

type shadeLayer struct {
	name   string
	solids []*mesh.Solid

	// foliage is set for layers traced as thin shells.
	foliage bool

	// transmissivity returns the transmissivity of this layer on the
	// given date in a range of 0 to 1. For a fully opaque layer, this
	// returns 0. For foliage, this varies over the year.
	transmissivity func(date time.Time) float64
}

// AddBuildings adds an opaque layer of closed boxes.
func (m *ShadeModel) AddBuildings(boxes []config.Box) error {
	if len(boxes) == 0 {
		return nil
	}
	meshes := make([]*mesh.Mesh, len(boxes))
	for i, b := range boxes {
		meshes[i] = mesh.NewBox(vec3(b.Min), vec3(b.Max), m.opts...)
	}
	solids, err := m.build("buildings", meshes, func(msh *mesh.Mesh) *mesh.Solid {
		return mesh.NewSolid(msh)
	})
	if err != nil {
		return err
	}
	m.inputs = append(m.inputs, "buildings", boxes)
	m.layers = append(m.layers, &shadeLayer{
		name:           "buildings",
		solids:         solids,
		transmissivity: func(time.Time) float64 { return 0 },
	})
	return nil
}

// AddFoliage adds a layer of foliage boxes and spherical tree crowns.
// Foliage is traced as a shell of the given thickness, so a ray that
// starts inside a crown is still filtered by it.
func (m *ShadeModel) AddFoliage(boxes []config.Box, trees []config.Tree, thickness float64) error {
	if len(boxes)+len(trees) == 0 {
		return nil
	}
	var meshes []*mesh.Mesh
	for _, b := range boxes {
		meshes = append(meshes, mesh.NewBox(vec3(b.Min), vec3(b.Max), m.opts...))
	}
	for _, t := range trees {
		meshes = append(meshes, mesh.NewUVSphere(vec3(t.Center), t.Radius, 32, 16, m.opts...))
	}
	solids, err := m.build("foliage", meshes, func(msh *mesh.Mesh) *mesh.Solid {
		return mesh.NewShell(msh, thickness)
	})
	if err != nil {
		return err
	}
	m.inputs = append(m.inputs, "foliage", boxes, trees, thickness)
	m.layers = append(m.layers, &shadeLayer{
		name:           "foliage",
		solids:         solids,
		foliage:        true,
		transmissivity: foliageTransmissivity,
	})
	return nil
}

func foliageTransmissivity(date time.Time) float64 {
	// Based on Transmissivity of solar radiation through crowns of
	// single urban trees—application for outdoor thermal comfort
	// modelling. Konarska, et al.
	//
	// Foliated and defoliated trees have ~5% and ~50%
	// transmissivity, respectively. Use the meteorological seasons
	// to interpolate between these.
	//
	// TODO: This assumes northern hemisphere, and mid-latitudes at
	// that.
	day := date.YearDay()
	const (
		// Assume a normal year. This is all approximate anyway.
		Feb28 = 59
		May31 = 151
		Aug31 = 243
		Nov30 = 334
	)
	switch {
	default: // Winter
		fallthrough
	case day <= Feb28: // Winter
		return 0.5
	case day <= May31: // Spring
		return 0.5 + float64(day-Feb28)/(May31-Feb28)*(0.05-0.5)
	case day <= Aug31: // Summer
		return 0.05
	case day <= Nov30: // Fall
		return 0.05 + float64(day-Aug31)/(Nov30-Aug31)*(0.5-0.05)
	}
}

func (m *ShadeModel) build(layer string, meshes []*mesh.Mesh, solid func(*mesh.Mesh) *mesh.Solid) ([]*mesh.Solid, error) {
	solids := make([]*mesh.Solid, len(meshes))
	for i, msh := range meshes {
		rep, err := msh.Build()
		if err != nil {
			return nil, fmt.Errorf("building %s mesh %d: %w", layer, i, err)
		}
		if !msh.IsClosed() {
			m.log.Warn("open mesh in scene", zap.String("layer", layer), zap.Int("mesh", i))
		}
		m.log.Debug("built scene mesh",
			zap.String("layer", layer),
			zap.Int("mesh", i),
			zap.Int("triangles", rep.Triangles),
			zap.Ints("resolution", rep.Resolution[:]),
			zap.Duration("duration", rep.Duration))
		solids[i] = solid(msh)
	}
	return solids, nil
}

// validate checks that every mesh in the model is ready to trace.
func (m *ShadeModel) validate() error {
	for _, l := range m.layers {
		for i, s := range l.solids {
			if err := s.Mesh.Validate(); err != nil {
				return fmt.Errorf("%s mesh %d: %w", l.name, i, err)
			}
		}
	}
	return nil
}

type IntensityOverTime struct {
	light []SunLight

	elevationFeet float64
	increment     time.Duration
}

// yearTimes returns every increment of the given year in local time.
func yearTimes(year int, increment time.Duration) []time.Time {
	// TODO: If I compute my own sun positions, I can skip the times
	// below the horizon entirely.
	var times []time.Time
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	for t.Year() == year {
		times = append(times, t)
		t = t.Add(increment)
	}
	return times
}

func (m *ShadeModel) IntensityOverYear(year int, increment time.Duration, testPos r3.Vec, cacheDir string) (*IntensityOverTime, error) {
	return m.IntensityOver(yearTimes(year, increment), increment, testPos, cacheDir)
}

// IntensityOver traces the sun from testPos at each of times. Results
// are cached in cacheDir unless it is empty.
func (m *ShadeModel) IntensityOver(times []time.Time, increment time.Duration, testPos r3.Vec, cacheDir string) (*IntensityOverTime, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	args := append([]any{cacheVersion}, m.inputs...)
	args = append(args, m.lat, m.lon, testPos, times)
	ck, err := MakeCacheKey(cacheDir, args...)
	if err != nil {
		return nil, err
	}
	var light []SunLight
	if ck.Load(&light) {
		m.log.Info("loaded sun light from cache", zap.String("key", ck.key), zap.Int("times", len(light)))
	} else {
		start := time.Now()
		light = m.computeSunLight(testPos, times)
		m.log.Info("traced sun light",
			zap.Int("times", len(times)),
			zap.Int("layers", len(m.layers)),
			zap.Int("workers", m.workers),
			zap.Duration("duration", time.Since(start)))
		if err := ck.Save(light); err != nil {
			m.log.Warn("saving to cache", zap.Error(err))
		}
	}
	return &IntensityOverTime{light, m.elevationFeet, increment}, nil
}

func vec3(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}
