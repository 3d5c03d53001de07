package main

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a run of sun light samples.
type Summary struct {
	Samples  int           // Total samples
	Daylight time.Duration // Time the sun is above the horizon
	Direct   time.Duration // Daylight with an unobstructed sun
	Filtered time.Duration // Daylight where only foliage is in the way

	// Insolation is the total energy received on a plane facing the
	// sun, in kWh/m².
	Insolation float64

	// Candidate triangles tested per traced ray.
	MeanCandidates, StdDevCandidates float64
}

func (o *IntensityOverTime) Summary() Summary {
	s := Summary{Samples: len(o.light)}
	var cands []float64
	hours := o.increment.Hours()
	for _, l := range o.light {
		if !l.Up() {
			continue
		}
		s.Daylight += o.increment
		switch lightState(l) {
		case stateSun:
			s.Direct += o.increment
		case stateFiltered:
			s.Filtered += o.increment
		}
		s.Insolation += l.GlobalIntensity(o.elevationFeet) * hours / 1000
		cands = append(cands, float64(l.Candidates))
	}
	if len(cands) > 0 {
		s.MeanCandidates, s.StdDevCandidates = stat.MeanStdDev(cands, nil)
		if len(cands) == 1 {
			s.StdDevCandidates = 0
		}
	}
	return s
}

// LitFraction returns the fraction of daylight with direct sun.
func (s Summary) LitFraction() float64 {
	if s.Daylight == 0 {
		return 0
	}
	return float64(s.Direct) / float64(s.Daylight)
}

func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("samples", s.Samples)
	enc.AddDuration("daylight", s.Daylight)
	enc.AddDuration("direct", s.Direct)
	enc.AddDuration("filtered", s.Filtered)
	enc.AddFloat64("lit_fraction", s.LitFraction())
	enc.AddFloat64("insolation_kwh_m2", s.Insolation)
	enc.AddFloat64("mean_candidates", s.MeanCandidates)
	enc.AddFloat64("stddev_candidates", s.StdDevCandidates)
	return nil
}

var _ zapcore.ObjectMarshaler = Summary{}

func (s Summary) Field() zap.Field {
	return zap.Object("summary", s)
}
