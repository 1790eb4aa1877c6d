package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"nairaghibli/internal/core"
	"nairaghibli/internal/store"
)

// Mirror appends ledger rows to two tabs of a spreadsheet. It is write only;
// the SQLite ledger stays the source of truth.
type Mirror struct {
	svc           *gsheet.Service
	spreadsheetID string
	expenseSheet  string
	incomeSheet   string
}

var (
	_ store.ExpenseWriter = (*Mirror)(nil)
	_ store.IncomeWriter  = (*Mirror)(nil)
)

// Options configures a Mirror. One of CredentialsJSON or CredentialsFile is
// required by New.
type Options struct {
	SpreadsheetID   string
	ExpenseSheet    string
	IncomeSheet     string
	CredentialsJSON string
	CredentialsFile string
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.ExpenseSheet) == "" {
		o.ExpenseSheet = "Expenses"
	}
	if strings.TrimSpace(o.IncomeSheet) == "" {
		o.IncomeSheet = "Income"
	}
	return o
}

// New creates a Mirror authenticated with a service account.
func New(ctx context.Context, opts Options) (*Mirror, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := loadCredentials(opts)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets mirror ready", "spreadsheet_id", opts.SpreadsheetID)
	return NewWithService(svc, opts), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, opts Options) *Mirror {
	opts = opts.withDefaults()
	return &Mirror{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		expenseSheet:  opts.ExpenseSheet,
		incomeSheet:   opts.IncomeSheet,
	}
}

func loadCredentials(opts Options) ([]byte, error) {
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		return []byte(opts.CredentialsJSON), nil
	case strings.TrimSpace(opts.CredentialsFile) != "":
		b, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// AppendExpense writes one expense row and returns the updated A1 range.
func (m *Mirror) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return m.append(ctx, m.expenseSheet, expenseRow(e))
}

// AppendIncome writes one income row and returns the updated A1 range.
func (m *Mirror) AppendIncome(ctx context.Context, i core.Income) (string, error) {
	if err := i.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return m.append(ctx, m.incomeSheet, incomeRow(i))
}

func (m *Mirror) append(ctx context.Context, sheet string, row []any) (string, error) {
	if m.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:A", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := m.svc.Spreadsheets.Values.Append(m.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	if resp.Updates == nil || resp.Updates.UpdatedRange == "" {
		return sheet, nil
	}
	return resp.Updates.UpdatedRange, nil
}

// expenseRow lays out: ID | Date | Description | Amount | Category | Note.
func expenseRow(e core.Expense) []any {
	return []any{
		strconv.FormatInt(e.ID, 10),
		e.Date.String(),
		e.Description,
		e.Amount.Decimal().StringFixed(2),
		core.CategoryName(e.Category),
		e.Note,
	}
}

// incomeRow lays out: ID | Month | Amount. The month is prefixed with an
// apostrophe so USER_ENTERED input keeps it as text.
func incomeRow(i core.Income) []any {
	return []any{
		strconv.FormatInt(i.ID, 10),
		"'" + i.Month,
		i.Amount.Decimal().StringFixed(2),
	}
}
