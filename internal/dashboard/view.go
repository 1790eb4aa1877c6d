package dashboard

import (
	"context"
	"time"

	"nairaghibli/internal/chart"
	"nairaghibli/internal/core"
	"nairaghibli/internal/log"
)

const (
	RecentLimit = 5

	NoRecentTransactions = "No recent transactions available."
	OverTimeComingSoon   = "Time-based distribution chart coming soon."
	NoBreakdownData      = "No breakdown data to show."
	NoCategoryData       = "No category data to show."
	SavingsComingSoon    = "Savings health module coming soon."
	BudgetsComingSoon    = "Budgets feature coming soon."
)

const (
	pieSize   = 260
	barWidth  = 640
	barHeight = 280
)

// Reader is the read side of the ledger the panels draw from.
type Reader interface {
	LoadExpenses(ctx context.Context) ([]core.Expense, error)
	SummaryStats(ctx context.Context) (core.SummaryStats, error)
	MonthlyBreakdown(ctx context.Context) (core.MonthlyBreakdown, error)
	MonthlyIncomeBreakdown(ctx context.Context) (core.MonthlyBreakdown, error)
	CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error)
}

// View is the rendered state of one request. Exactly one of the panel
// fields is set, matching Panel.
type View struct {
	Panel      Panel
	Dashboard  *DashboardView
	AddExpense *AddExpenseView
	Analytics  *AnalyticsView
	Notice     *NoticeView
}

type Metric struct {
	Label string
	Value string
}

type TransactionRow struct {
	Date        string
	Amount      string
	Category    string
	Note        string
	Description string
}

type DashboardView struct {
	// Metrics is empty when the summary could not be read.
	Metrics        []Metric
	Recent         []TransactionRow
	RecentEmpty    string
	Pie            chart.PieChart
	PieEmpty       string
	OverTimeNotice string
}

type AddExpenseView struct {
	Form ExpenseForm
}

// ExpenseForm carries the field values echoed back into the form.
type ExpenseForm struct {
	Amount      string
	Category    string
	Note        string
	Date        string
	Description string
	MinAmount   string
}

type AnalyticsView struct {
	Bars      chart.BarChart
	BarsEmpty string
	Pie       chart.PieChart
	PieEmpty  string
}

type NoticeView struct {
	Title   string
	Message string
}

// Builder assembles panel views from fresh ledger reads on every call.
type Builder struct {
	reader Reader
	now    func() time.Time
	logger *log.Logger
}

func NewBuilder(reader Reader, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Builder{reader: reader, now: time.Now, logger: logger.WithComponent(log.ComponentDashboard)}
}

// WithClock returns a copy of b reading the current time from now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	c := *b
	c.now = now
	return &c
}

// Build renders panel p. Read failures are logged and degrade to the
// panel's empty state.
func (b *Builder) Build(ctx context.Context, p Panel) View {
	v := View{Panel: p}
	switch p {
	case PanelAddExpense:
		v.AddExpense = &AddExpenseView{Form: b.NewExpenseForm()}
	case PanelAnalytics:
		v.Analytics = b.analytics(ctx)
	case PanelSavingsHealth:
		v.Notice = &NoticeView{Title: "Savings Health", Message: SavingsComingSoon}
	case PanelBudgets:
		v.Notice = &NoticeView{Title: "Budgets", Message: BudgetsComingSoon}
	default:
		v.Panel = PanelDashboard
		v.Dashboard = b.dashboard(ctx)
	}
	return v
}

// NewExpenseForm returns the blank form with the date set to today.
func (b *Builder) NewExpenseForm() ExpenseForm {
	return ExpenseForm{
		Date:      core.DateOf(b.now()).String(),
		MinAmount: core.MinExpenseAmount.Decimal().StringFixed(2),
	}
}

func (b *Builder) dashboard(ctx context.Context) *DashboardView {
	d := &DashboardView{OverTimeNotice: OverTimeComingSoon}

	if stats, err := b.reader.SummaryStats(ctx); err != nil {
		b.readFailed(ctx, "summary stats", err)
	} else if stats.Count > 0 {
		thisMonth := core.Money{}
		if breakdown, err := b.reader.MonthlyBreakdown(ctx); err != nil {
			b.readFailed(ctx, "monthly breakdown", err)
		} else {
			thisMonth = breakdown.Get(core.MonthKeyOf(b.now()))
		}
		d.Metrics = []Metric{
			{Label: "Total Spent", Value: core.FormatNairaWhole(stats.TotalSpent)},
			{Label: "This Month", Value: core.FormatNaira(thisMonth)},
		}
	}

	expenses, err := b.reader.LoadExpenses(ctx)
	if err != nil {
		b.readFailed(ctx, "expenses", err)
	}
	for _, e := range core.RecentExpenses(expenses, RecentLimit) {
		d.Recent = append(d.Recent, TransactionRow{
			Date:        e.Date.String(),
			Amount:      core.FormatNairaWhole(e.Amount),
			Category:    e.Category,
			Note:        e.Note,
			Description: e.Description,
		})
	}
	if len(d.Recent) == 0 {
		d.RecentEmpty = NoRecentTransactions
	}

	d.Pie, d.PieEmpty = b.categoryPie(ctx)
	return d
}

func (b *Builder) analytics(ctx context.Context) *AnalyticsView {
	a := &AnalyticsView{}

	spend, err := b.reader.MonthlyBreakdown(ctx)
	if err != nil {
		b.readFailed(ctx, "monthly breakdown", err)
	}
	if len(spend) == 0 {
		a.BarsEmpty = NoBreakdownData
	} else {
		income, err := b.reader.MonthlyIncomeBreakdown(ctx)
		if err != nil {
			b.readFailed(ctx, "monthly income breakdown", err)
		}
		series := []chart.Series{{Name: "Total Spent", Values: spend}}
		if len(income) > 0 {
			series = append(series, chart.Series{Name: "Income", Values: income})
		}
		a.Bars = chart.Bars(barWidth, barHeight, series...)
	}

	a.Pie, a.PieEmpty = b.categoryPie(ctx)
	return a
}

func (b *Builder) categoryPie(ctx context.Context) (chart.PieChart, string) {
	totals, err := b.reader.CategoryTotals(ctx)
	if err != nil {
		b.readFailed(ctx, "category totals", err)
	}
	pie := chart.Pie(totals, pieSize)
	if pie.Empty() {
		return pie, NoCategoryData
	}
	return pie, ""
}

func (b *Builder) readFailed(ctx context.Context, what string, err error) {
	b.logger.ErrorContext(ctx, "Ledger read failed", "read", what, log.FieldError, err.Error())
}
