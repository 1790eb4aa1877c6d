package http

import (
	"errors"
	"strings"

	"nairaghibli/internal/core"
)

// sanitizeInput drops control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseExpenseAmount enforces the expense form's 0.01 minimum on the value
// as typed, before it is rounded to kobo.
func parseExpenseAmount(s string) (core.Money, string) {
	d, err := core.ParseNaira(s)
	switch {
	case errors.Is(err, core.ErrNegativeAmount):
		return core.Money{}, "Amount must be at least 0.01"
	case err != nil:
		return core.Money{}, "Amount must be a number"
	case d.LessThan(core.MinExpenseAmount.Decimal()):
		return core.Money{}, "Amount must be at least 0.01"
	}
	m, err := core.FromDecimal(d)
	if err != nil {
		return core.Money{}, "Amount is too large"
	}
	return m, ""
}

// parseIncomeAmount enforces the income form's 0 minimum.
func parseIncomeAmount(s string) (core.Money, string) {
	m, err := core.ParseAmount(s)
	switch {
	case errors.Is(err, core.ErrNegativeAmount):
		return core.Money{}, "Income amount cannot be negative"
	case err != nil:
		return core.Money{}, "Income amount must be a number"
	}
	return m, ""
}
