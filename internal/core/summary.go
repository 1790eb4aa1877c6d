package core

import (
	"sort"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// SummaryStats is the all-time overview shown on the dashboard.
type SummaryStats struct {
	TotalSpent  Money
	TotalIncome Money
	Count       int
}

// MonthlyBreakdown maps a YYYY-MM key to the aggregate for that month.
type MonthlyBreakdown map[string]Money

// Get returns the amount for month, or zero when the month is absent.
func (b MonthlyBreakdown) Get(month string) Money {
	return b[month]
}

// Months returns the keys in ascending order.
func (b MonthlyBreakdown) Months() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UncategorizedLabel groups expenses recorded with an empty category.
const UncategorizedLabel = "Uncategorized"

// Summarize computes the all-time stats over the given rows.
func Summarize(expenses []Expense, incomes []Income) SummaryStats {
	var s SummaryStats
	for _, e := range expenses {
		s.TotalSpent = s.TotalSpent.Add(e.Amount)
	}
	for _, i := range incomes {
		s.TotalIncome = s.TotalIncome.Add(i.Amount)
	}
	s.Count = len(expenses)
	return s
}

// BreakdownByMonth sums expenses per calendar month of their date.
func BreakdownByMonth(expenses []Expense) MonthlyBreakdown {
	out := MonthlyBreakdown{}
	for _, e := range expenses {
		k := e.Date.MonthKey()
		out[k] = out[k].Add(e.Amount)
	}
	return out
}

// IncomeByMonth sums income entries per month string as entered.
func IncomeByMonth(incomes []Income) MonthlyBreakdown {
	out := MonthlyBreakdown{}
	for _, i := range incomes {
		out[i.Month] = out[i.Month].Add(i.Amount)
	}
	return out
}

// TotalsByCategory sums expenses per category, largest first, ties by name.
func TotalsByCategory(expenses []Expense) []CategoryAmount {
	sums := map[string]int64{}
	for _, e := range expenses {
		name := CategoryName(e.Category)
		sums[name] += e.Amount.Kobo
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, kobo := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Kobo: kobo}})
	}
	SortCategoryAmounts(out)
	return out
}

// SortCategoryAmounts orders rows by amount descending then name ascending.
func SortCategoryAmounts(rows []CategoryAmount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount.Kobo != rows[j].Amount.Kobo {
			return rows[i].Amount.Kobo > rows[j].Amount.Kobo
		}
		return rows[i].Name < rows[j].Name
	})
}

// CategoryName maps a blank category to UncategorizedLabel.
func CategoryName(category string) string {
	if category == "" {
		return UncategorizedLabel
	}
	return category
}

// RecentExpenses returns at most n expenses ordered by date, newest first.
// Expenses on the same date keep the most recently recorded first.
func RecentExpenses(expenses []Expense, n int) []Expense {
	rows := make([]Expense, len(expenses))
	copy(rows, expenses)
	// Reverse first so the stable sort keeps later insertions ahead on ties.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date.Time)
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
