package chart

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nairaghibli/internal/core"
)

func TestPie(t *testing.T) {
	p := Pie([]core.CategoryAmount{
		{Name: "Rent", Amount: core.Money{Kobo: 7500}},
		{Name: "Food", Amount: core.Money{Kobo: 2500}},
		{Name: "Refund", Amount: core.Money{Kobo: 0}},
	}, 200)

	require.Len(t, p.Slices, 2)
	assert.Equal(t, 75.0, p.Slices[0].Percent)
	assert.Equal(t, 25.0, p.Slices[1].Percent)
	assert.Equal(t, "₦75", p.Slices[0].Amount)
	assert.NotEqual(t, p.Slices[0].Color, p.Slices[1].Color)
	// The 75% wedge needs the large-arc flag, the 25% one does not.
	assert.Contains(t, p.Slices[0].Path, " 0 1,1 ")
	assert.Contains(t, p.Slices[1].Path, " 0 0,1 ")
	assert.True(t, strings.HasPrefix(p.Slices[0].Path, "M100.00,100.00 L100.00,4.00"))
	assert.Equal(t, 100.0, p.Center())
}

func TestPieSingleAndEmpty(t *testing.T) {
	p := Pie([]core.CategoryAmount{{Name: "Food", Amount: core.Money{Kobo: 10}}}, 100)
	require.Len(t, p.Slices, 1)
	assert.True(t, p.Slices[0].Full)
	assert.Empty(t, p.Slices[0].Path)

	assert.True(t, Pie(nil, 100).Empty())
}

func TestBars(t *testing.T) {
	spend := core.MonthlyBreakdown{"2024-06": {Kobo: 400}, "2024-05": {Kobo: 200}}
	income := core.MonthlyBreakdown{"2024-05": {Kobo: 800}}
	b := Bars(480, 240, Series{Name: "Total Spent", Values: spend}, Series{Name: "Income", Values: income})

	require.Len(t, b.Groups, 2)
	assert.Equal(t, "2024-05", b.Groups[0].Label)
	assert.Equal(t, "2024-06", b.Groups[1].Label)
	require.Len(t, b.Groups[0].Bars, 2)

	tallest := b.Groups[0].Bars[1]
	assert.Equal(t, "Income", tallest.Series)
	assert.InDelta(t, b.PlotBottom-b.PlotTop, tallest.Height, 1e-9)
	assert.InDelta(t, tallest.Height/4, b.Groups[0].Bars[0].Height, 1e-9)
	assert.Zero(t, b.Groups[1].Bars[1].Height, "missing months draw as zero")

	require.Len(t, b.Legend, 2)
	require.Len(t, b.Ticks, tickCount+1)
	assert.Equal(t, "₦8", b.Ticks[tickCount].Label)
}

func TestBarsEmpty(t *testing.T) {
	assert.True(t, Bars(480, 240, Series{Name: "Total Spent"}).Empty())
	assert.True(t, Bars(480, 240).Empty())
}

func TestLargeAmountsStayPositive(t *testing.T) {
	half := core.Money{Kobo: math.MaxInt64 / 2}
	p := Pie([]core.CategoryAmount{{Name: "Rent", Amount: half}, {Name: "Food", Amount: half}, {Name: "Fuel", Amount: half}}, 200)
	require.False(t, p.Empty())
	require.Len(t, p.Slices, 3)
	for _, s := range p.Slices {
		assert.Greater(t, s.Percent, 0.0, s.Label)
		assert.NotEmpty(t, s.Path, s.Label)
	}

	huge := core.Money{Kobo: math.MaxInt64}

	b := Bars(480, 240, Series{Name: "Total Spent", Values: core.MonthlyBreakdown{"2024-05": huge}})
	require.Len(t, b.Ticks, tickCount+1)
	for i, tick := range b.Ticks {
		assert.NotContains(t, tick.Label, "-", "tick %d", i)
	}
	assert.Equal(t, core.FormatNairaWhole(huge), b.Ticks[tickCount].Label)
	assert.Equal(t, int64(5), tickValue(10, 2))
	assert.Equal(t, int64(math.MaxInt64/2), tickValue(math.MaxInt64, 2))
}
