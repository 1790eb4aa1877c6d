// Package chart computes SVG geometry for the dashboard charts. Templates
// only place the precomputed paths and rectangles.
package chart

import (
	"fmt"
	"math"

	"nairaghibli/internal/core"
)

// Palette is cycled through for slices and series.
var Palette = []string{
	"#a37d42", // earth brown
	"#6b8f71", // moss
	"#d9a441", // wheat
	"#7a9cc6", // sky
	"#c9725b", // terracotta
	"#9a8fb5", // lavender dusk
	"#4e6e58", // forest
	"#e3c79b", // sand
}

func colorAt(i int) string {
	return Palette[i%len(Palette)]
}

type Slice struct {
	Label   string
	Amount  string
	Percent float64
	Color   string
	// Path is the SVG path data of the wedge. Empty when Full is set.
	Path string
	// Full marks a single slice covering the whole circle, drawn as a circle.
	Full bool
}

type PieChart struct {
	Size   float64
	Radius float64
	Slices []Slice
}

// Center returns the x and y coordinate of the pie centre.
func (p PieChart) Center() float64 {
	return p.Size / 2
}

// Empty reports whether there is nothing to draw.
func (p PieChart) Empty() bool {
	return len(p.Slices) == 0
}

// Pie lays out category shares clockwise from twelve o'clock. Rows with a
// non-positive amount are skipped.
func Pie(rows []core.CategoryAmount, size float64) PieChart {
	radius := size/2 - 4
	chart := PieChart{Size: size, Radius: radius}

	var sum core.Money
	for _, r := range rows {
		if r.Amount.Kobo > 0 {
			sum = sum.Add(r.Amount)
		}
	}
	total := sum.Kobo
	if total == 0 {
		return chart
	}

	c := size / 2
	angle := -math.Pi / 2
	i := 0
	for _, r := range rows {
		if r.Amount.Kobo <= 0 {
			continue
		}
		share := float64(r.Amount.Kobo) / float64(total)
		s := Slice{
			Label:   r.Name,
			Amount:  core.FormatNairaWhole(r.Amount),
			Percent: math.Round(share*1000) / 10,
			Color:   colorAt(i),
		}
		if r.Amount.Kobo == total {
			s.Full = true
		} else {
			end := angle + share*2*math.Pi
			s.Path = wedge(c, c, radius, angle, end)
			angle = end
		}
		chart.Slices = append(chart.Slices, s)
		i++
	}
	return chart
}

func wedge(cx, cy, r, start, end float64) string {
	x1, y1 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	x2, y2 := cx+r*math.Cos(end), cy+r*math.Sin(end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d,1 %.2f,%.2f Z",
		cx, cy, x1, y1, r, r, large, x2, y2)
}
