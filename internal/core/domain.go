package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used on forms and in storage.
const DateLayout = "2006-01-02"

// MonthLayout is the key format of monthly breakdowns.
const MonthLayout = "2006-01"

type (
	Date struct {
		time.Time
	}

	// Money is an amount in kobo (1/100 of a Naira).
	Money struct {
		Kobo int64
	}

	Expense struct {
		ID          int64 // zero until stored
		Date        Date
		Amount      Money
		Category    string
		Note        string // optional
		Description string
	}

	// Income is a monthly income entry. Month is free text, nominally YYYY-MM.
	Income struct {
		ID     int64
		Month  string
		Amount Money
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountTooSmall = errors.New("amount must be at least 0.01")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrInvalidDate    = errors.New("invalid date")
)

// MinExpenseAmount is the smallest expense the ledger accepts.
var MinExpenseAmount = Money{Kobo: 1}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM key the date aggregates under.
func (d Date) MonthKey() string {
	return d.Format(MonthLayout)
}

// MonthKeyOf returns the breakdown key for the month containing t.
func MonthKeyOf(t time.Time) string {
	return t.Format(MonthLayout)
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.Kobo < MinExpenseAmount.Kobo {
		return ErrAmountTooSmall
	}
	return nil
}

func (i Income) Validate() error {
	if i.Amount.Kobo < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// RecordKind distinguishes the two ledger tables for sync messages.
type RecordKind string

const (
	KindExpense RecordKind = "expense"
	KindIncome  RecordKind = "income"
)

// IsValid reports whether k names a known record kind.
func (k RecordKind) IsValid() bool {
	return k == KindExpense || k == KindIncome
}
