package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nairaghibli/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestMigrationsApply(t *testing.T) {
	repo := newTestRepo(t)
	assert.Equal(t, uint(1), repo.SchemaVersion())
	require.NoError(t, repo.Ping(context.Background()))

	// Re-running on an up-to-date database is a no-op.
	path := filepath.Join(t.TempDir(), "again.db")
	_, err := RunMigrations(path)
	require.NoError(t, err)
	v, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
}

func TestAppendAndReadBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	ref, err := repo.AppendExpense(ctx, core.Expense{
		Date:        core.NewDate(2024, 5, 17),
		Amount:      core.Money{Kobo: 250000},
		Category:    "Food",
		Note:        "weekend",
		Description: "jollof",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	e, err := repo.GetExpense(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-17", e.Date.String())
	assert.Equal(t, "weekend", e.Note)
	assert.Equal(t, "jollof", e.Description)

	_, err = repo.GetExpense(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.AppendExpense(ctx, core.Expense{Date: core.NewDate(2024, 5, 17)})
	assert.ErrorIs(t, err, core.ErrAmountTooSmall)

	ref, err = repo.AppendIncome(ctx, core.Income{Month: "2024-05", Amount: core.Money{Kobo: 5000000}})
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	i, err := repo.GetIncome(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-05", i.Month)
	assert.Equal(t, int64(5000000), i.Amount.Kobo)

	exps, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, exps, 1)
	incs, err := repo.ListIncome(ctx)
	require.NoError(t, err)
	assert.Len(t, incs, 1)
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for _, e := range []core.Expense{
		{Date: core.NewDate(2024, 4, 30), Amount: core.Money{Kobo: 100}, Category: "Food"},
		{Date: core.NewDate(2024, 5, 1), Amount: core.Money{Kobo: 400}, Category: "Rent"},
		{Date: core.NewDate(2024, 5, 2), Amount: core.Money{Kobo: 50}, Category: ""},
		{Date: core.NewDate(2024, 5, 3), Amount: core.Money{Kobo: 25}, Category: "Food"},
	} {
		_, err := repo.AppendExpense(ctx, e)
		require.NoError(t, err)
	}
	for _, i := range []core.Income{
		{Month: "2024-05", Amount: core.Money{Kobo: 1000}},
		{Month: "2024-05", Amount: core.Money{Kobo: 500}},
	} {
		_, err := repo.AppendIncome(ctx, i)
		require.NoError(t, err)
	}

	b, err := repo.MonthlyBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04", "2024-05"}, b.Months())
	assert.Equal(t, int64(475), b.Get("2024-05").Kobo)

	ib, err := repo.MonthlyIncomeBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), ib.Get("2024-05").Kobo)

	cats, err := repo.CategoryTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Rent", Amount: core.Money{Kobo: 400}},
		{Name: "Food", Amount: core.Money{Kobo: 125}},
		{Name: core.UncategorizedLabel, Amount: core.Money{Kobo: 50}},
	}, cats)
}

func TestPendingSyncAndMarkSynced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.AppendExpense(ctx, core.Expense{Date: core.NewDate(2024, 5, 1), Amount: core.Money{Kobo: 10}})
	require.NoError(t, err)
	_, err = repo.AppendIncome(ctx, core.Income{Month: "2024-05", Amount: core.Money{Kobo: 10}})
	require.NoError(t, err)

	pending, err := repo.PendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	synced, err := repo.IsSynced(ctx, core.KindExpense, 1)
	require.NoError(t, err)
	assert.False(t, synced)

	require.NoError(t, repo.MarkSynced(ctx, core.KindExpense, 1))
	synced, err = repo.IsSynced(ctx, core.KindExpense, 1)
	require.NoError(t, err)
	assert.True(t, synced)

	_, err = repo.IsSynced(ctx, core.KindIncome, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err = repo.PendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, core.KindIncome, pending[0].Kind)

	assert.Error(t, repo.MarkSynced(ctx, core.RecordKind("budget"), 1))
}
