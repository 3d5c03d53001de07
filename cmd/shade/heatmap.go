package main

import (
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

func (o *IntensityOverTime) HeatMap() *plot.Plot {
	plt := newTimePlot()
	plt.Title.Text = "Global intensity (W/m²)"

	type xy struct {
		day       time.Time
		intensity float64
		col, row  int
	}

	// TODO: Add a key. plotter.ColorBar wants a plot of its own, so
	// this needs two plots composed with vg/draw tiles.

	// Compute the visual locations on the heat map of each sun position
	// and figure out the bounds of the heat map. We construct columns
	// to start from 0, but for the row range, we narrow down to just
	// the lit times.
	var cMax, rMin, rMax int
	startDay, _ := splitTime(o.light[0].T)
	anyLit := false
	xys := make([]xy, len(o.light))
	for i, sun := range o.light {
		xy := &xys[i]
		var tod time.Duration
		xy.day, tod = splitTime(sun.T)
		xy.intensity = sun.GlobalIntensity(o.elevationFeet)
		xy.col = int(xy.day.Sub(startDay) / (24 * time.Hour))
		xy.row = int(tod / o.increment)
		cMax = max(cMax, xy.col)
		if xy.intensity > 0 {
			if !anyLit || xy.row < rMin {
				rMin = xy.row
			}
			if !anyLit || xy.row > rMax {
				rMax = xy.row
			}
			anyLit = true
		}
	}

	// Construct the grid.
	intensity := make([][]float64, cMax+1)
	for c := range intensity {
		intensity[c] = make([]float64, rMax-rMin+1)
	}
	for i := range xys {
		xy := &xys[i]
		if xy.row < rMin || xy.row > rMax {
			continue
		}
		intensity[xy.col][xy.row-rMin] = xy.intensity
	}
	grid := &sunIntensityGrid{
		intensity: intensity,
		startDay:  startDay,
		startTOD:  time.Duration(rMin) * o.increment,
		increment: o.increment,
		max:       maxIntensity(o.elevationFeet),
	}

	// Finally, construct the heat map.
	pal := palette.Heat(256, 1)
	hm := plotter.NewHeatMap(grid, pal)
	hm.Underflow = color.Black
	hm.Rasterized = true
	plt.Add(hm)

	return plt
}

type sunIntensityGrid struct {
	intensity [][]float64
	startDay  time.Time
	startTOD  time.Duration
	increment time.Duration
	max       float64
}

func (si *sunIntensityGrid) Dims() (c, r int) {
	if len(si.intensity) == 0 {
		return 0, 0
	}
	return len(si.intensity), len(si.intensity[0])
}

func (si *sunIntensityGrid) Z(c, r int) float64 {
	return si.intensity[c][r]
}

func (si *sunIntensityGrid) X(c int) float64 {
	t := si.startDay.Add(time.Duration(c) * (24 * time.Hour))
	return float64(t.Unix())
}

func (si *sunIntensityGrid) Y(r int) float64 {
	return float64(si.startTOD + time.Duration(r)*si.increment)
}

func (si *sunIntensityGrid) Min() float64 {
	// Return 1 rather than 0 so that the "0" value when the sun isn't
	// in the sky renders in the underflow color.
	return 1
}

func (si *sunIntensityGrid) Max() float64 {
	return si.max
}
