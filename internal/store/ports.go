package store

import (
	"context"

	"nairaghibli/internal/core"
)

// Ports for ledger persistence adapters.
type (
	ExpenseWriter interface {
		AppendExpense(ctx context.Context, e core.Expense) (ref string, err error)
	}

	IncomeWriter interface {
		AppendIncome(ctx context.Context, i core.Income) (ref string, err error)
	}

	// ExpenseLister returns every stored expense in insertion order.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	// IncomeLister returns every stored income entry in insertion order.
	IncomeLister interface {
		ListIncome(ctx context.Context) ([]core.Income, error)
	}

	// BreakdownReader provides the aggregates behind the charts.
	BreakdownReader interface {
		MonthlyBreakdown(ctx context.Context) (core.MonthlyBreakdown, error)
		MonthlyIncomeBreakdown(ctx context.Context) (core.MonthlyBreakdown, error)
		CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error)
	}

	// Ledger is the full set of operations a backend provides.
	Ledger interface {
		ExpenseWriter
		IncomeWriter
		ExpenseLister
		IncomeLister
		BreakdownReader
	}
)
