package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// dailyHours returns, for each day covered by o, the total time of
// direct and of foliage-filtered sun. X values are noon UTC of each day
// in Unix seconds and Y values are time.Durations.
func (o *IntensityOverTime) dailyHours() (direct, filtered plotter.XYs) {
	for i, l := range o.light {
		day, _ := splitTime(l.T)
		if i == 0 || !sameDay(o.light[i-1].T, l.T) {
			x := float64(day.Unix())
			direct = append(direct, plotter.XY{X: x})
			filtered = append(filtered, plotter.XY{X: x})
		}
		switch lightState(l) {
		case stateSun:
			direct[len(direct)-1].Y += float64(o.increment)
		case stateFiltered:
			filtered[len(filtered)-1].Y += float64(o.increment)
		}
	}
	return
}

// DailyHours plots the hours of direct and filtered sun on each day.
func (o *IntensityOverTime) DailyHours() (*plot.Plot, error) {
	plt := newPlot()
	plt.Title.Text = "Hours of sun"
	plt.X.Tick.Marker = solsticeTicks{}
	plt.Y.Tick.Marker = durationTicks{targetTicks: 6}
	plt.Y.Min = 0

	direct, filtered := o.dailyHours()
	for _, series := range []struct {
		xys plotter.XYs
		s   state
	}{{direct, stateSun}, {filtered, stateFiltered}} {
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return nil, err
		}
		line.Color = stateColors[series.s]
		plt.Add(line)
		plt.Legend.Add(stateNames[series.s], line)
	}
	return plt, nil
}
