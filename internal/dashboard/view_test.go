package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nairaghibli/internal/core"
	"nairaghibli/internal/services"
	"nairaghibli/internal/store/memory"
)

var fixedNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func newBuilder(t *testing.T, seed func(l *services.Ledger)) *Builder {
	t.Helper()
	l := services.NewLedger(memory.New())
	if seed != nil {
		seed(l)
	}
	return NewBuilder(l, nil).WithClock(func() time.Time { return fixedNow })
}

func addExpense(l *services.Ledger, date core.Date, kobo int64, category string) {
	l.AddExpense(context.Background(), services.ExpenseInput{Date: date, Amount: core.Money{Kobo: kobo}, Category: category})
}

func TestParsePanel(t *testing.T) {
	assert.Equal(t, PanelDashboard, ParsePanel(""))
	assert.Equal(t, PanelDashboard, ParsePanel("reports"))
	assert.Equal(t, PanelAddExpense, ParsePanel("add-expense"))
	assert.Equal(t, PanelAddExpense, ParsePanel("Add Expense"))
	assert.Equal(t, PanelSavingsHealth, ParsePanel("SAVINGS-HEALTH"))
	assert.Equal(t, PanelBudgets, ParsePanel("budgets"))

	var labels []string
	for _, p := range Panels() {
		labels = append(labels, p.String())
		assert.Equal(t, p, ParsePanel(p.Slug()))
	}
	assert.Equal(t, []string{"Dashboard", "Add Expense", "Analytics", "Savings Health", "Budgets"}, labels)
	assert.Equal(t, "Dashboard", Panel(42).String())
}

func TestBuildRendersExactlyOnePanel(t *testing.T) {
	b := newBuilder(t, nil)
	for _, p := range Panels() {
		v := b.Build(context.Background(), p)
		assert.Equal(t, p, v.Panel)
		set := 0
		for _, present := range []bool{v.Dashboard != nil, v.AddExpense != nil, v.Analytics != nil, v.Notice != nil} {
			if present {
				set++
			}
		}
		assert.Equal(t, 1, set, "panel %s", p)
	}

	assert.Equal(t, SavingsComingSoon, b.Build(context.Background(), PanelSavingsHealth).Notice.Message)
	assert.Equal(t, BudgetsComingSoon, b.Build(context.Background(), PanelBudgets).Notice.Message)
}

func TestDashboardEmptyLedger(t *testing.T) {
	v := newBuilder(t, nil).Build(context.Background(), PanelDashboard)
	require.NotNil(t, v.Dashboard)
	assert.Empty(t, v.Dashboard.Metrics)
	assert.Empty(t, v.Dashboard.Recent)
	assert.Equal(t, NoRecentTransactions, v.Dashboard.RecentEmpty)
	assert.Equal(t, NoCategoryData, v.Dashboard.PieEmpty)
	assert.Equal(t, OverTimeComingSoon, v.Dashboard.OverTimeNotice)
}

func TestDashboardMetrics(t *testing.T) {
	b := newBuilder(t, func(l *services.Ledger) {
		addExpense(l, core.NewDate(2024, 4, 2), 100000, "Rent")
		addExpense(l, core.NewDate(2024, 5, 3), 123456, "Food")
	})
	d := b.Build(context.Background(), PanelDashboard).Dashboard
	assert.Equal(t, []Metric{
		{Label: "Total Spent", Value: "₦2,235"},
		{Label: "This Month", Value: "₦1,234.56"},
	}, d.Metrics)

	// No spend in the current month shows zero.
	d = b.WithClock(func() time.Time { return fixedNow.AddDate(0, 2, 0) }).Build(context.Background(), PanelDashboard).Dashboard
	assert.Equal(t, "₦0.00", d.Metrics[1].Value)
}

func TestDashboardMetricsWithMaximumAmounts(t *testing.T) {
	b := newBuilder(t, func(l *services.Ledger) {
		for i := 0; i < 4; i++ {
			addExpense(l, core.NewDate(2024, 5, 1+i), core.MaxAmount.Kobo, "Rent")
		}
	})
	d := b.Build(context.Background(), PanelDashboard).Dashboard
	require.Len(t, d.Metrics, 2)
	want := core.Money{Kobo: 4 * core.MaxAmount.Kobo}
	assert.Equal(t, core.FormatNairaWhole(want), d.Metrics[0].Value)
	assert.Equal(t, core.FormatNaira(want), d.Metrics[1].Value)
	assert.Empty(t, d.PieEmpty)
	require.Len(t, d.Pie.Slices, 1)
}

func TestDashboardRecentTransactions(t *testing.T) {
	b := newBuilder(t, func(l *services.Ledger) {
		for day := 1; day <= 7; day++ {
			addExpense(l, core.NewDate(2024, 5, day), int64(day)*100, "Food")
		}
	})
	d := b.Build(context.Background(), PanelDashboard).Dashboard
	require.Len(t, d.Recent, RecentLimit)
	assert.Equal(t, "2024-05-07", d.Recent[0].Date)
	assert.Equal(t, "2024-05-03", d.Recent[4].Date)
	assert.Equal(t, "₦7", d.Recent[0].Amount)
	assert.Empty(t, d.RecentEmpty)
	require.Len(t, d.Pie.Slices, 1)
}

func TestAddExpenseFormDefaults(t *testing.T) {
	v := newBuilder(t, nil).Build(context.Background(), PanelAddExpense)
	assert.Equal(t, "2024-05-20", v.AddExpense.Form.Date)
	assert.Equal(t, "0.01", v.AddExpense.Form.MinAmount)
}

func TestAnalytics(t *testing.T) {
	empty := newBuilder(t, nil).Build(context.Background(), PanelAnalytics).Analytics
	assert.Equal(t, NoBreakdownData, empty.BarsEmpty)
	assert.True(t, empty.Bars.Empty())

	b := newBuilder(t, func(l *services.Ledger) {
		addExpense(l, core.NewDate(2024, 5, 3), 500, "Food")
		addExpense(l, core.NewDate(2024, 3, 3), 500, "Rent")
		l.AddIncome(context.Background(), "2024-05", core.Money{Kobo: 5000000})
	})
	a := b.Build(context.Background(), PanelAnalytics).Analytics
	assert.Empty(t, a.BarsEmpty)
	require.Len(t, a.Bars.Groups, 2)
	assert.Equal(t, "2024-03", a.Bars.Groups[0].Label)
	assert.Len(t, a.Bars.Legend, 2)
	assert.Len(t, a.Pie.Slices, 2)
}

type brokenReader struct{}

var errRead = errors.New("database is locked")

func (brokenReader) LoadExpenses(context.Context) ([]core.Expense, error) { return nil, errRead }
func (brokenReader) SummaryStats(context.Context) (core.SummaryStats, error) {
	return core.SummaryStats{}, errRead
}
func (brokenReader) MonthlyBreakdown(context.Context) (core.MonthlyBreakdown, error) {
	return nil, errRead
}
func (brokenReader) MonthlyIncomeBreakdown(context.Context) (core.MonthlyBreakdown, error) {
	return nil, errRead
}
func (brokenReader) CategoryTotals(context.Context) ([]core.CategoryAmount, error) {
	return nil, errRead
}

func TestReadFailuresDegradeToEmptyState(t *testing.T) {
	b := NewBuilder(brokenReader{}, nil)
	d := b.Build(context.Background(), PanelDashboard).Dashboard
	assert.Empty(t, d.Metrics)
	assert.Equal(t, NoRecentTransactions, d.RecentEmpty)

	a := b.Build(context.Background(), PanelAnalytics).Analytics
	assert.Equal(t, NoBreakdownData, a.BarsEmpty)
	assert.Equal(t, NoCategoryData, a.PieEmpty)
}
