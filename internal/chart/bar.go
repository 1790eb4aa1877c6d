package chart

import (
	"math"

	"nairaghibli/internal/core"
)

// Series is one named set of monthly values.
type Series struct {
	Name   string
	Values core.MonthlyBreakdown
}

type Bar struct {
	Series string
	Amount string
	Color  string
	X, Y   float64
	Width  float64
	Height float64
}

type BarGroup struct {
	Label  string
	LabelX float64
	Bars   []Bar
}

type LegendEntry struct {
	Name  string
	Color string
}

type Tick struct {
	Label string
	Y     float64
}

type BarChart struct {
	Width, Height float64
	// PlotTop and PlotBottom bound the drawable area vertically.
	PlotTop, PlotBottom float64
	PlotLeft            float64
	Groups              []BarGroup
	Legend              []LegendEntry
	Ticks               []Tick
}

func (b BarChart) Empty() bool {
	return len(b.Groups) == 0
}

const (
	plotLeft   = 72
	plotTop    = 16
	plotBottom = 36
	groupGap   = 0.25
	tickCount  = 4
)

// Bars draws grouped bars, one group per month present in any series,
// months in ascending order.
func Bars(width, height float64, series ...Series) BarChart {
	chart := BarChart{
		Width: width, Height: height,
		PlotTop: plotTop, PlotBottom: height - plotBottom, PlotLeft: plotLeft,
	}

	months := map[string]struct{}{}
	var max int64
	for i, s := range series {
		chart.Legend = append(chart.Legend, LegendEntry{Name: s.Name, Color: colorAt(i)})
		for m, v := range s.Values {
			months[m] = struct{}{}
			if v.Kobo > max {
				max = v.Kobo
			}
		}
	}
	if len(months) == 0 || len(series) == 0 {
		return chart
	}

	keys := make(core.MonthlyBreakdown, len(months))
	for m := range months {
		keys[m] = core.Money{}
	}
	ordered := keys.Months()

	plotH := chart.PlotBottom - chart.PlotTop
	plotW := width - plotLeft - 8
	groupW := plotW / float64(len(ordered))
	barW := groupW * (1 - groupGap) / float64(len(series))
	scale := 0.0
	if max > 0 {
		scale = plotH / float64(max)
	}

	for gi, month := range ordered {
		gx := plotLeft + float64(gi)*groupW + groupW*groupGap/2
		g := BarGroup{Label: month, LabelX: gx + barW*float64(len(series))/2}
		for si, s := range series {
			v := s.Values.Get(month)
			h := math.Max(0, float64(v.Kobo)*scale)
			g.Bars = append(g.Bars, Bar{
				Series: s.Name,
				Amount: core.FormatNaira(v),
				Color:  colorAt(si),
				X:      gx + float64(si)*barW,
				Y:      chart.PlotBottom - h,
				Width:  barW,
				Height: h,
			})
		}
		chart.Groups = append(chart.Groups, g)
	}

	for i := 0; i <= tickCount; i++ {
		v := core.Money{Kobo: tickValue(max, i)}
		chart.Ticks = append(chart.Ticks, Tick{
			Label: core.FormatNairaWhole(v),
			Y:     chart.PlotBottom - float64(v.Kobo)*scale,
		})
	}
	return chart
}

// tickValue is max*i/tickCount, split so the product cannot overflow.
func tickValue(max int64, i int) int64 {
	n := int64(i)
	return max/tickCount*n + max%tickCount*n/tickCount
}
