package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/aclements/gridmesh/internal/config"
	"gonum.org/v1/plot"
)

// Plot renders o as the given kind of plot.
func (o *IntensityOverTime) Plot(kind string) (*plot.Plot, error) {
	if len(o.light) == 0 {
		return nil, fmt.Errorf("no sun positions to plot")
	}
	switch kind {
	case config.PlotHeatMap:
		return o.HeatMap(), nil
	case config.PlotLit:
		return o.LitRegions()
	case config.PlotHours:
		return o.DailyHours()
	}
	return nil, fmt.Errorf("unknown plot kind %q", kind)
}

func newPlot() *plot.Plot {
	plt := plot.New()
	plt.BackgroundColor = color.Black
	for _, elt := range []*color.Color{
		&plt.Title.TextStyle.Color,
		&plt.X.Color,
		&plt.X.Tick.Color,
		&plt.X.Tick.Label.Color,
		&plt.X.Label.TextStyle.Color,
		&plt.Y.Color,
		&plt.Y.Tick.Color,
		&plt.Y.Tick.Label.Color,
		&plt.Y.Label.TextStyle.Color,
		&plt.Legend.TextStyle.Color,
	} {
		*elt = color.White
	}
	return plt
}

// newTimePlot returns a plot with days on the X axis and time of day on
// the Y axis.
func newTimePlot() *plot.Plot {
	plt := newPlot()
	plt.X.Tick.Marker = dayOfYearTicks{}
	plt.Y.Tick.Marker = timeOfDayTicks{targetTicks: 8}
	return plt
}

// splitTime splits t into day and time of day. For the day, we put it
// at noon to "center" it on that date, in UTC since that's the time
// zone gonum will render it in. The time of day is the wall-clock
// duration since midnight, which sidesteps DST shifts.
func splitTime(t time.Time) (day time.Time, tod time.Duration) {
	day = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	tod = time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
