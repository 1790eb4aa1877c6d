package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nairaghibli/internal/core"
	"nairaghibli/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Ledger = (*SQLiteRepository)(nil)

// ErrNotFound is returned when a row lookup by id matches nothing.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db            *sql.DB
	schemaVersion uint
}

// PendingRecord identifies a row that has not been mirrored yet.
type PendingRecord struct {
	Kind      core.RecordKind
	ID        int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between the web process goroutines.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, schemaVersion: version}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SchemaVersion reports the migration version applied at open time.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.schemaVersion
}

// Ping verifies the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AppendExpense implements store.ExpenseWriter
func (r *SQLiteRepository) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, amount_kobo, category, note, description) VALUES (?, ?, ?, ?, ?)`,
		e.Date.String(), e.Amount.Kobo, e.Category, e.Note, e.Description)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.String(),
		"amount_kobo", e.Amount.Kobo,
		"category", e.Category)

	return strconv.FormatInt(id, 10), nil
}

// AppendIncome implements store.IncomeWriter
func (r *SQLiteRepository) AppendIncome(ctx context.Context, i core.Income) (string, error) {
	if err := i.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (month, amount_kobo) VALUES (?, ?)`,
		i.Month, i.Amount.Kobo)
	if err != nil {
		return "", fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("income id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite", "id", id, "month", i.Month, "amount_kobo", i.Amount.Kobo)
	return strconv.FormatInt(id, 10), nil
}

// ListExpenses implements store.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount_kobo, category, note, description FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// ListIncome implements store.IncomeLister
func (r *SQLiteRepository) ListIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, month, amount_kobo FROM incomes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var i core.Income
		if err := rows.Scan(&i.ID, &i.Month, &i.Amount.Kobo); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return out, nil
}

// MonthlyBreakdown implements store.BreakdownReader
func (r *SQLiteRepository) MonthlyBreakdown(ctx context.Context) (core.MonthlyBreakdown, error) {
	return r.sumBy(ctx, `SELECT substr(date, 1, 7), SUM(amount_kobo) FROM expenses GROUP BY substr(date, 1, 7)`)
}

// MonthlyIncomeBreakdown implements store.BreakdownReader
func (r *SQLiteRepository) MonthlyIncomeBreakdown(ctx context.Context) (core.MonthlyBreakdown, error) {
	return r.sumBy(ctx, `SELECT month, SUM(amount_kobo) FROM incomes GROUP BY month`)
}

// CategoryTotals implements store.BreakdownReader
func (r *SQLiteRepository) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	sums, err := r.sumBy(ctx, `SELECT category, SUM(amount_kobo) FROM expenses GROUP BY category`)
	if err != nil {
		return nil, err
	}
	merged := map[string]int64{}
	for name, m := range sums {
		merged[core.CategoryName(name)] += m.Kobo
	}
	out := make([]core.CategoryAmount, 0, len(merged))
	for name, kobo := range merged {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Kobo: kobo}})
	}
	core.SortCategoryAmounts(out)
	return out, nil
}

func (r *SQLiteRepository) sumBy(ctx context.Context, query string) (core.MonthlyBreakdown, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregate query: %w", err)
	}
	defer rows.Close()

	out := core.MonthlyBreakdown{}
	for rows.Next() {
		var key string
		var kobo int64
		if err := rows.Scan(&key, &kobo); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out[key] = core.Money{Kobo: kobo}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate: %w", err)
	}
	return out, nil
}

// GetExpense retrieves a single expense by ID
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, amount_kobo, category, note, description FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	return e, err
}

// GetIncome retrieves a single income entry by ID
func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	var i core.Income
	err := r.db.QueryRowContext(ctx, `SELECT id, month, amount_kobo FROM incomes WHERE id = ?`, id).
		Scan(&i.ID, &i.Month, &i.Amount.Kobo)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	return i, nil
}

// PendingSync returns up to limit rows of both kinds not yet mirrored, oldest first.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]PendingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, id, created_at FROM (
			SELECT 'expense' AS kind, id, created_at FROM expenses WHERE synced_at IS NULL
			UNION ALL
			SELECT 'income' AS kind, id, created_at FROM incomes WHERE synced_at IS NULL
		) ORDER BY created_at, kind, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingRecord
	for rows.Next() {
		var p PendingRecord
		var kind, created string
		if err := rows.Scan(&kind, &p.ID, &created); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		p.Kind = core.RecordKind(kind)
		// Unparsable timestamps only affect ordering metadata.
		p.CreatedAt, _ = time.Parse(sqliteTimestamp, created)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync: %w", err)
	}
	return out, nil
}

// MarkSynced records that a row has been mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind core.RecordKind, id int64) error {
	var query string
	switch kind {
	case core.KindExpense:
		query = `UPDATE expenses SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`
	case core.KindIncome:
		query = `UPDATE incomes SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`
	default:
		return fmt.Errorf("unsupported record kind: %s", kind)
	}
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark %s synced: %w", kind, err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "kind", kind, "id", id)
	return nil
}

// IsSynced reports whether a row has already been mirrored.
func (r *SQLiteRepository) IsSynced(ctx context.Context, kind core.RecordKind, id int64) (bool, error) {
	var query string
	switch kind {
	case core.KindExpense:
		query = `SELECT synced_at IS NOT NULL FROM expenses WHERE id = ?`
	case core.KindIncome:
		query = `SELECT synced_at IS NOT NULL FROM incomes WHERE id = ?`
	default:
		return false, fmt.Errorf("unsupported record kind: %s", kind)
	}
	var synced bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&synced)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("check %s sync state: %w", kind, err)
	}
	return synced, nil
}

// sqliteTimestamp is the text layout of CURRENT_TIMESTAMP.
const sqliteTimestamp = "2006-01-02 15:04:05"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(s rowScanner) (core.Expense, error) {
	var e core.Expense
	var date string
	if err := s.Scan(&e.ID, &date, &e.Amount.Kobo, &e.Category, &e.Note, &e.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d has malformed date %q: %w", e.ID, date, err)
	}
	e.Date = d
	return e, nil
}
