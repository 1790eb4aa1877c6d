package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₦"

var printer = message.NewPrinter(language.English)

// FormatNaira formats m with thousands grouping and two decimals, e.g. "₦12,345.60".
func FormatNaira(m Money) string {
	return formatNaira(m, 2)
}

// FormatNairaWhole formats m rounded to whole Naira, e.g. "₦12,346".
func FormatNairaWhole(m Money) string {
	return formatNaira(m, 0)
}

func formatNaira(m Money, decimals int) string {
	v := m.Naira()
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if decimals == 0 {
		return sign + CurrencySymbol + printer.Sprintf("%.0f", v)
	}
	return sign + CurrencySymbol + printer.Sprintf("%.2f", v)
}
