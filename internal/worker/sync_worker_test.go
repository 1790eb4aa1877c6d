package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nairaghibli/internal/amqp"
	"nairaghibli/internal/core"
	"nairaghibli/internal/storage"
)

type fakeMirror struct {
	expenses []core.Expense
	incomes  []core.Income
	err      error
}

func (f *fakeMirror) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.expenses = append(f.expenses, e)
	return "Expenses!A2:F2", nil
}

func (f *fakeMirror) AppendIncome(_ context.Context, i core.Income) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.incomes = append(f.incomes, i)
	return "Income!A2:C2", nil
}

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seed(t *testing.T, repo *storage.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()
	_, err := repo.AppendExpense(ctx, core.Expense{Date: core.NewDate(2024, 5, 1), Amount: core.Money{Kobo: 100}, Category: "Food"})
	require.NoError(t, err)
	_, err = repo.AppendIncome(ctx, core.Income{Month: "2024-05", Amount: core.Money{Kobo: 5000000}})
	require.NoError(t, err)
}

func TestHandleSyncMessage(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo)
	mirror := &fakeMirror{}
	w := NewSyncWorker(repo, mirror, 10)

	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage(core.KindIncome, 1)))
	require.Len(t, mirror.incomes, 1)
	assert.Equal(t, "2024-05", mirror.incomes[0].Month)

	// Redelivery of an already mirrored row is a no-op.
	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage(core.KindIncome, 1)))
	assert.Len(t, mirror.incomes, 1)

	err := w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage(core.KindExpense, 99))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProcessPending(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo)
	mirror := &fakeMirror{err: errors.New("quota exceeded")}
	w := NewSyncWorker(repo, mirror, 10)

	n, err := w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "mirror failures leave rows pending")

	mirror.err = nil
	require.NoError(t, w.StartupSyncCheck(ctx))
	assert.Len(t, mirror.expenses, 1)
	assert.Len(t, mirror.incomes, 1)

	pending, err := repo.PendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	n, err = w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := newRepo(t)
	w := NewSyncWorker(repo, &fakeMirror{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx, 10*time.Millisecond), context.Canceled)
}
