package memory

import (
	"context"
	"fmt"
	"sync"

	"nairaghibli/internal/core"
	"nairaghibli/internal/store"
)

var _ store.Ledger = (*Store)(nil)

// Store keeps the ledger in process memory. Data is lost on restart.
type Store struct {
	mu       sync.Mutex
	expenses []core.Expense
	incomes  []core.Income
}

func New() *Store {
	return &Store{}
}

// AppendExpense stores the expense and returns a synthetic row reference.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.expenses) + 1)
	s.expenses = append(s.expenses, e)
	return fmt.Sprintf("mem:expense:%d", e.ID), nil
}

// AppendIncome stores the income entry and returns a synthetic row reference.
func (s *Store) AppendIncome(_ context.Context, i core.Income) (string, error) {
	if err := i.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i.ID = int64(len(s.incomes) + 1)
	s.incomes = append(s.incomes, i)
	return fmt.Sprintf("mem:income:%d", i.ID), nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) ListIncome(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Income(nil), s.incomes...), nil
}

func (s *Store) MonthlyBreakdown(ctx context.Context) (core.MonthlyBreakdown, error) {
	rows, _ := s.ListExpenses(ctx)
	return core.BreakdownByMonth(rows), nil
}

func (s *Store) MonthlyIncomeBreakdown(ctx context.Context) (core.MonthlyBreakdown, error) {
	rows, _ := s.ListIncome(ctx)
	return core.IncomeByMonth(rows), nil
}

func (s *Store) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	rows, _ := s.ListExpenses(ctx)
	return core.TotalsByCategory(rows), nil
}
