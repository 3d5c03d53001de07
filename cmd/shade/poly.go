package main

import (
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

type state uint8

const (
	stateShade state = iota
	stateFiltered
	stateSun
)

var stateColors = map[state]color.Color{
	stateFiltered: color.RGBA{R: 40, G: 160, B: 40, A: 255},
	stateSun:      color.RGBA{R: 255, G: 255, B: 0, A: 255},
}

var stateNames = map[state]string{
	stateFiltered: "Through foliage",
	stateSun:      "Direct sun",
}

func lightState(l SunLight) state {
	switch {
	case !l.Up() || l.Light == 0:
		return stateShade
	case l.Foliage:
		return stateFiltered
	}
	return stateSun
}

// LitRegions plots the regions of the year where the test point gets
// direct or filtered sun.
func (o *IntensityOverTime) LitRegions() (*plot.Plot, error) {
	plt := newTimePlot()
	plt.Title.Text = "Sun exposure"
	for _, r := range traceRegions(transitions(o.light)) {
		pg, err := plotter.NewPolygon(r.paths...)
		if err != nil {
			return nil, err
		}
		pg.Color = stateColors[r.s]
		pg.LineStyle.Width = 0
		plt.Add(pg)
		plt.Legend.Add(stateNames[r.s], pg)
	}
	return plt, nil
}

// A transition is a change of light state at the test point, placed in
// plot space: one column per day, with time of day going up. Working in
// plot space keeps DST shifts out of the tracing logic.
type transition struct {
	t        time.Time
	from, to state
	pt       plotter.XY
	day      int // Days since transitionEpoch
}

var transitionEpoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// transitions returns the state changes in light, in time order. A day
// that starts in a state other than shade without changing state at
// midnight gets a from == to transition at its first sample, so every
// span of light is bounded by transitions in its own day.
func transitions(light []SunLight) []transition {
	var ts []transition
	add := func(l SunLight, from, to state) {
		day, tod := splitTime(l.T)
		ts = append(ts, transition{
			t:    l.T,
			from: from,
			to:   to,
			pt:   plotter.XY{X: float64(day.Unix()), Y: float64(tod)},
			day:  int(day.Sub(transitionEpoch) / (24 * time.Hour)),
		})
	}
	var prev state
	for i, l := range light {
		s := lightState(l)
		newDay := i == 0 || !sameDay(light[i-1].T, l.T)
		switch {
		case i > 0 && s != prev:
			add(l, prev, s)
		case newDay && s != stateShade:
			add(l, s, s)
		}
		prev = s
	}
	return ts
}

// A region is the area of the plot in one state. It may consist of
// several closed paths, where counter-clockwise paths are holes.
type region struct {
	paths []plotter.XYer
	s     state
}

// regionTracer walks the outlines of the regions formed by a sequence of
// transitions. Span k is the stretch of a day between transitions k-1
// and k.
//
// Outlines follow the right-hand side of each edge, assuming time
// increases going up and going right. The outside of a region comes out
// clockwise and a hole counter-clockwise.
type regionTracer struct {
	ts []transition

	// done records which transitions an outline has passed while
	// moving right. Any transition not yet passed starts a new outline.
	done []bool
}

func traceRegions(ts []transition) []*region {
	tr := &regionTracer{ts: ts, done: make([]bool, len(ts))}
	byState := make(map[state]*region)
	var regions []*region
	for i := range ts {
		if tr.done[i] {
			continue
		}
		// Shade is the background. Outlining it would add a
		// counter-clockwise path around everything else.
		s, _, _, ok := tr.span(i)
		if !ok || s == stateShade {
			continue
		}
		r := byState[s]
		if r == nil {
			r = &region{s: s}
			byState[s] = r
			regions = append(regions, r)
		}
		r.paths = append(r.paths, tr.outline(i))
	}
	return regions
}

// span returns the state and time-of-day range of span k. ok is false if
// transitions k-1 and k are not on the same day.
func (tr *regionTracer) span(k int) (s state, lo, hi float64, ok bool) {
	if k <= 0 || k >= len(tr.ts) || tr.ts[k-1].day != tr.ts[k].day {
		return 0, 0, 0, false
	}
	return tr.ts[k-1].to, tr.ts[k-1].pt.Y, tr.ts[k].pt.Y, true
}

// overlap reports whether spans a and b are in the same state and share
// some time of day.
func (tr *regionTracer) overlap(a, b int) bool {
	sa, loA, hiA, ok := tr.span(a)
	if !ok {
		return false
	}
	sb, loB, hiB, ok := tr.span(b)
	return ok && sa == sb && loB < hiA && loA < hiB
}

// outline traces the closed path through transition start, setting out
// to the right along the top of span start.
func (tr *regionTracer) outline(start int) plotter.XYs {
	var path plotter.XYs
	right := true
	for i := start; len(path) == 0 || i != start; {
		path = append(path, tr.ts[i].pt)
		if right {
			tr.done[i] = true
			i, right = tr.stepRight(i)
		} else {
			i, right = tr.stepLeft(i)
		}
	}
	return path
}

// stepRight continues an outline that reached the top of span i while
// moving right. It returns the next transition and direction.
func (tr *regionTracer) stepRight(i int) (int, bool) {
	ts := tr.ts
	// The latest span of the next day that lines up with span i.
	next := -1
	for j := i + 1; j < len(ts) && ts[j].day <= ts[i].day+1; j++ {
		if ts[j].day == ts[i].day+1 && tr.overlap(i, j) {
			next = j
		}
	}
	if next < 0 {
		// The region ends on this day. Go down its right edge.
		return i - 1, false
	}
	// If the transition above i falls within span next, the region
	// bends back left over it:
	//
	//    \
	//     \
	//    i
	//    /
	if up := i + 1; up < len(ts) && ts[up].day == ts[i].day &&
		ts[next-1].pt.Y < ts[up].pt.Y && ts[up].pt.Y < ts[next].pt.Y {
		return up, false
	}
	return next, true
}

// stepLeft continues an outline that reached the bottom of span i+1
// while moving left. It returns the next transition and direction.
func (tr *regionTracer) stepLeft(i int) (int, bool) {
	ts := tr.ts
	// The earliest span of the previous day that lines up with span i+1.
	prev := -1
	for j := i - 1; j >= 0 && ts[j].day >= ts[i].day-1; j-- {
		if ts[j].day == ts[i].day-1 && tr.overlap(i+1, j+1) {
			prev = j
		}
	}
	if prev < 0 {
		// The region starts on this day. Go up its left edge.
		return i + 1, true
	}
	if down := i - 1; down >= 0 && ts[down].day == ts[i].day &&
		ts[prev].pt.Y < ts[down].pt.Y && ts[down].pt.Y < ts[prev+1].pt.Y {
		return down, true
	}
	return prev, false
}
