package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nairaghibli/internal/core"
	"nairaghibli/internal/log"
	"nairaghibli/internal/store"
)

// Outcome is the (success, message) pair shown in a result banner.
type Outcome struct {
	Success bool
	Message string
}

// ExpenseInput is a submitted expense before it is assigned an id.
type ExpenseInput struct {
	Amount      core.Money
	Category    string
	Note        string
	Date        core.Date
	Description string
}

// SyncPublisher queues appended rows for the spreadsheet mirror.
type SyncPublisher interface {
	Publish(ctx context.Context, kind core.RecordKind, id int64) error
}

// Ledger is the data collaborator behind every panel. Writes report their
// result as an Outcome; reads return errors for the caller to log.
type Ledger struct {
	store     store.Ledger
	publisher SyncPublisher
	logger    *log.Logger
}

type LedgerOption func(*Ledger)

// WithPublisher enables mirror sync messages after each append.
func WithPublisher(p SyncPublisher) LedgerOption {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *log.Logger) LedgerOption {
	return func(l *Ledger) { l.logger = logger }
}

func NewLedger(s store.Ledger, opts ...LedgerOption) *Ledger {
	l := &Ledger{store: s, logger: log.New(log.DefaultConfig())}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent(log.ComponentLedger)
	return l
}

// AddExpense validates and appends one expense.
func (l *Ledger) AddExpense(ctx context.Context, in ExpenseInput) Outcome {
	e := core.Expense{
		Date:        in.Date,
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Note:        strings.TrimSpace(in.Note),
		Description: strings.TrimSpace(in.Description),
	}
	fields := log.NewFields().WithExpense(e.Date.String(), e.Category, e.Amount.Kobo)

	if err := e.Validate(); err != nil {
		l.logger.WarnContext(ctx, "Expense rejected", fields.WithError(err).ToSlice()...)
		return Outcome{Message: "Failed to add expense: " + err.Error()}
	}

	ref, err := l.store.AppendExpense(ctx, e)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to append expense", fields.WithError(err).ToSlice()...)
		return Outcome{Message: "Failed to add expense: " + err.Error()}
	}

	fields[log.FieldRef] = ref
	l.logger.InfoContext(ctx, "Expense added", fields.WithOperation(log.OpAppend).ToSlice()...)
	l.publish(ctx, core.KindExpense, ref)
	return Outcome{Success: true, Message: "Expense added successfully!"}
}

// AddIncome appends an income entry. The month is stored as given.
func (l *Ledger) AddIncome(ctx context.Context, month string, amount core.Money) Outcome {
	i := core.Income{Month: strings.TrimSpace(month), Amount: amount}
	fields := log.NewFields().WithIncome(i.Month, i.Amount.Kobo)

	if err := i.Validate(); err != nil {
		l.logger.WarnContext(ctx, "Income rejected", fields.WithError(err).ToSlice()...)
		return Outcome{Message: "Failed to save income: " + err.Error()}
	}

	ref, err := l.store.AppendIncome(ctx, i)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to append income", fields.WithError(err).ToSlice()...)
		return Outcome{Message: "Failed to save income: " + err.Error()}
	}

	fields[log.FieldRef] = ref
	l.logger.InfoContext(ctx, "Income saved", fields.WithOperation(log.OpAppend).ToSlice()...)
	l.publish(ctx, core.KindIncome, ref)
	return Outcome{Success: true, Message: fmt.Sprintf("Income saved for %s!", i.Month)}
}

// publish never fails the write: the row is already stored and the worker's
// periodic pass picks up anything that was not queued.
func (l *Ledger) publish(ctx context.Context, kind core.RecordKind, ref string) {
	if l.publisher == nil {
		return
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		l.logger.DebugContext(ctx, "Store ref is not a row id, skipping sync", log.FieldRef, ref)
		return
	}
	if err := l.publisher.Publish(ctx, kind, id); err != nil {
		l.logger.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldKind, kind, log.FieldRecordID, id, log.FieldError, err.Error())
	}
}

func (l *Ledger) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return rows, nil
}

func (l *Ledger) LoadIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := l.store.ListIncome(ctx)
	if err != nil {
		return nil, fmt.Errorf("load income: %w", err)
	}
	return rows, nil
}

// SummaryStats aggregates over all rows; it is the zero value for an empty ledger.
func (l *Ledger) SummaryStats(ctx context.Context) (core.SummaryStats, error) {
	expenses, err := l.LoadExpenses(ctx)
	if err != nil {
		return core.SummaryStats{}, err
	}
	incomes, err := l.LoadIncome(ctx)
	if err != nil {
		return core.SummaryStats{}, err
	}
	return core.Summarize(expenses, incomes), nil
}

func (l *Ledger) MonthlyBreakdown(ctx context.Context) (core.MonthlyBreakdown, error) {
	b, err := l.store.MonthlyBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly breakdown: %w", err)
	}
	return b, nil
}

func (l *Ledger) MonthlyIncomeBreakdown(ctx context.Context) (core.MonthlyBreakdown, error) {
	b, err := l.store.MonthlyIncomeBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly income breakdown: %w", err)
	}
	return b, nil
}

// CategoryTotals feeds the category pie chart.
func (l *Ledger) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	c, err := l.store.CategoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return c, nil
}
