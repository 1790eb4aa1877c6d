package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nairaghibli/internal/amqp"
	"nairaghibli/internal/core"
	"nairaghibli/internal/storage"
	"nairaghibli/internal/store"
)

// RowSource is the slice of the SQLite repository the worker reads from.
type RowSource interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	IsSynced(ctx context.Context, kind core.RecordKind, id int64) (bool, error)
	PendingSync(ctx context.Context, limit int) ([]storage.PendingRecord, error)
	MarkSynced(ctx context.Context, kind core.RecordKind, id int64) error
}

// Mirror receives copies of ledger rows.
type Mirror interface {
	store.ExpenseWriter
	store.IncomeWriter
}

var _ RowSource = (*storage.SQLiteRepository)(nil)

// SyncWorker copies ledger rows from SQLite to the mirror, driven by AMQP
// messages and by a periodic pass over rows still marked unsynced.
type SyncWorker struct {
	rows      RowSource
	mirror    Mirror
	batchSize int

	// Serializes syncs so a message and the periodic pass never copy the
	// same row twice.
	mu sync.Mutex
}

func NewSyncWorker(rows RowSource, mirror Mirror, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &SyncWorker{rows: rows, mirror: mirror, batchSize: batchSize}
}

// HandleSyncMessage processes a single ledger sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "kind", msg.Kind, "id", msg.ID, "queued_at", msg.Timestamp)
	return w.syncRow(ctx, msg.Kind, msg.ID)
}

// ProcessPending syncs up to one batch of unsynced rows. It returns the
// number synced; individual row failures are logged and skipped.
func (w *SyncWorker) ProcessPending(ctx context.Context) (int, error) {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains a larger batch once, to catch up after downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	n, err := w.processPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", n)
	return nil
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) (int, error) {
	pending, err := w.rows.PendingSync(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending rows: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	slog.InfoContext(ctx, "Processing pending rows", "count", len(pending))

	synced := 0
	for _, p := range pending {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if err := w.syncRow(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending row", "kind", p.Kind, "id", p.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

// Run performs the periodic pending pass until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncRow(ctx context.Context, kind core.RecordKind, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	done, err := w.rows.IsSynced(ctx, kind, id)
	if err != nil {
		return err
	}
	if done {
		slog.DebugContext(ctx, "Row already synced", "kind", kind, "id", id)
		return nil
	}

	var ref string
	switch kind {
	case core.KindExpense:
		e, err := w.rows.GetExpense(ctx, id)
		if err != nil {
			return fmt.Errorf("get expense from storage: %w", err)
		}
		ref, err = w.mirror.AppendExpense(ctx, e)
		if err != nil {
			return fmt.Errorf("append expense to mirror: %w", err)
		}
	case core.KindIncome:
		i, err := w.rows.GetIncome(ctx, id)
		if err != nil {
			return fmt.Errorf("get income from storage: %w", err)
		}
		ref, err = w.mirror.AppendIncome(ctx, i)
		if err != nil {
			return fmt.Errorf("append income to mirror: %w", err)
		}
	default:
		return fmt.Errorf("unsupported record kind: %s", kind)
	}

	if err := w.rows.MarkSynced(ctx, kind, id); err != nil {
		// The copy exists; the row may be copied again by a later pass.
		slog.ErrorContext(ctx, "Failed to mark as synced", "kind", kind, "id", id, "error", err)
	}
	slog.InfoContext(ctx, "Successfully synced row", "kind", kind, "id", id, "ref", ref)
	return nil
}
