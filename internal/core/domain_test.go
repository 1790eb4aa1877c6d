package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-17", d.String())
	assert.Equal(t, "2024-05", d.MonthKey())

	for _, in := range []string{"", "17/05/2024", "2024-13-01", "yesterday"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Date: NewDate(2024, 5, 1), Amount: Money{Kobo: 1}}
	require.NoError(t, good.Validate())

	cases := []struct {
		name string
		e    Expense
		want error
	}{
		{"zero date", Expense{Amount: Money{Kobo: 100}}, ErrInvalidDate},
		{"zero amount", Expense{Date: NewDate(2024, 5, 1)}, ErrAmountTooSmall},
		{"negative amount", Expense{Date: NewDate(2024, 5, 1), Amount: Money{Kobo: -5}}, ErrAmountTooSmall},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.e.Validate(), tc.want)
		})
	}
}

func TestIncomeValidate(t *testing.T) {
	assert.NoError(t, Income{Month: "2024-05", Amount: Money{}}.Validate())
	assert.NoError(t, Income{Month: "whenever", Amount: Money{Kobo: 5}}.Validate())
	assert.ErrorIs(t, Income{Month: "2024-05", Amount: Money{Kobo: -1}}.Validate(), ErrNegativeAmount)
}

func TestMonthKeyOf(t *testing.T) {
	now := time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-02", MonthKeyOf(now))
	assert.Equal(t, NewDate(2025, 2, 3), DateOf(now))
}
