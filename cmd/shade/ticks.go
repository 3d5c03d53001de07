package main

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
)

// timeOfDayTicks renders a time.Duration since midnight as a time of day.
type timeOfDayTicks struct {
	targetTicks int // Create around targetTicks number of ticks
}

func (o timeOfDayTicks) Ticks(min, max float64) []plot.Tick {
	var dayBase = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return makeDurationTicks(min, max, o.targetTicks, func(t, _ time.Duration) string {
		return dayBase.Add(t).Format("3:04PM")
	})
}

// durationTicks renders a time.Duration as hours and minutes.
type durationTicks struct {
	targetTicks int // Create around targetTicks number of ticks
}

func (o durationTicks) Ticks(min, max float64) []plot.Tick {
	return makeDurationTicks(min, max, o.targetTicks, func(t, major time.Duration) string {
		switch {
		case major%time.Hour == 0:
			return fmt.Sprintf("%dh", int(t.Hours()))
		case major%time.Minute == 0:
			return fmt.Sprintf("%dh%dm", int(t.Hours()), int(t.Minutes())%60)
		}
		return t.String()
	})
}

// makeDurationTicks places minor ticks over [min, max] and labels the
// major ones.
func makeDurationTicks(min, max float64, targetTicks int, label func(t, major time.Duration) string) []plot.Tick {
	minD, maxD := time.Duration(min), time.Duration(max)
	major, minor := optimizeDurationTicks(minD, maxD, targetTicks)

	var ticks []plot.Tick
	first := int((minD + minor - 1) / minor)
	last := int(maxD / minor)
	minorFactor := int(major / minor)
	for i := first; i <= last; i++ {
		t := time.Duration(i) * minor
		tick := plot.Tick{Value: float64(t)}
		if i%minorFactor == 0 {
			tick.Label = label(t, major)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

var durationScales = []time.Duration{12 * time.Hour, 3 * time.Hour, time.Hour, 30 * time.Minute, 10 * time.Minute, 5 * time.Minute, time.Minute}

// optimizeDurationTicks picks the major tick scale whose tick count in
// [minD, maxD] is closest to targetTicks. minor is the next finer
// scale, or major itself at the finest scale.
func optimizeDurationTicks(minD, maxD time.Duration, targetTicks int) (major, minor time.Duration) {
	bestNDelta := 0
	for i, scale := range durationScales {
		first := int((minD + scale - 1) / scale)
		last := int(maxD / scale)
		n := last - first + 1
		if n <= 0 {
			continue
		}
		delta := n - targetTicks
		if delta < 0 {
			delta = -delta
		}
		if major == 0 || delta < bestNDelta {
			major, bestNDelta = scale, delta
			minor = durationScales[min(i+1, len(durationScales)-1)]
		}
	}
	if major == 0 {
		major, minor = durationScales[0], durationScales[1]
	}
	return major, minor
}

type dayOfYearTicks struct{}

func (dayOfYearTicks) Ticks(min, max float64) []plot.Tick {
	valToTime := plot.UTCUnixTime
	minT, maxT := valToTime(min), valToTime(max)
	var ticks []plot.Tick
	lastMajorYear := 0
	for t := time.Date(minT.Year(), 1, 1, 12, 0, 0, 0, time.UTC); !t.After(maxT); t = t.AddDate(0, 1, 0) {
		if t.Before(minT) {
			continue
		}
		label := ""
		if (t.Month()-1)%3 == 0 {
			if lastMajorYear == t.Year() {
				label = t.Format("1/02")
			} else {
				lastMajorYear = t.Year()
				label = t.Format("1/02/2006")
			}
		}
		ticks = append(ticks, plot.Tick{
			Value: float64(t.Unix()),
			Label: label,
		})
	}
	return ticks
}

// solsticeTicks marks the equinoxes and solstices.
type solsticeTicks struct{}

func (solsticeTicks) Ticks(min, max float64) []plot.Tick {
	valToTime := plot.UTCUnixTime
	minT, maxT := valToTime(min), valToTime(max)
	ticks := []plot.Tick{{
		Value: min,
		Label: minT.Format("1/02/2006"),
	}}
	add := func(year int, month time.Month, day int) {
		t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
		if t.Before(minT) || t.After(maxT) {
			return
		}
		ticks = append(ticks, plot.Tick{
			Value: float64(t.Unix()),
			Label: t.Format("1/02"),
		})
	}
	for year := minT.Year(); year <= maxT.Year(); year++ {
		add(year, 3, 20)
		add(year, 6, 21)
		add(year, 9, 22)
		add(year, 12, 22)
	}
	return ticks
}
