package mesh

import (
	"math"
	"runtime"

	"go.uber.org/zap"
)

const (
	// DefaultLambda is the target number of triangles per grid cell.
	DefaultLambda = 3

	// DefaultShellThickness is the distance between the entry and the
	// synthetic exit of a shell-mode crossing.
	DefaultShellThickness = 1e-4
)

// Options control how a Mesh builds its grid.
type Options struct {
	// Lambda is the target triangle density per cell. Larger values
	// give finer grids.
	Lambda float64

	// Workers is the number of goroutines used by Build. If zero or
	// negative, GOMAXPROCS is used.
	Workers int

	// Strict makes Build fail on the first triangle that references
	// a vertex out of range. Otherwise such triangles are skipped.
	Strict bool

	Logger *zap.Logger
}

// An Option modifies Options.
type Option func(*Options)

func WithLambda(lambda float64) Option {
	return func(o *Options) { o.Lambda = lambda }
}

func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

func WithStrict(strict bool) Option {
	return func(o *Options) { o.Strict = strict }
}

// WithLogger sets the logger used during Build. By default the mesh
// logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func makeOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.Lambda > 0) || math.IsInf(o.Lambda, 0) {
		o.Lambda = DefaultLambda
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
