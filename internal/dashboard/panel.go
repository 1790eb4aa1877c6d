package dashboard

import "strings"

// Panel is one choice of the navigation selector.
type Panel int

const (
	PanelDashboard Panel = iota
	PanelAddExpense
	PanelAnalytics
	PanelSavingsHealth
	PanelBudgets
)

var panelMeta = [...]struct{ label, slug string }{
	PanelDashboard:     {"Dashboard", "dashboard"},
	PanelAddExpense:    {"Add Expense", "add-expense"},
	PanelAnalytics:     {"Analytics", "analytics"},
	PanelSavingsHealth: {"Savings Health", "savings-health"},
	PanelBudgets:       {"Budgets", "budgets"},
}

// Panels returns every panel in selector order.
func Panels() []Panel {
	return []Panel{PanelDashboard, PanelAddExpense, PanelAnalytics, PanelSavingsHealth, PanelBudgets}
}

func (p Panel) valid() bool {
	return p >= PanelDashboard && p <= PanelBudgets
}

// String returns the label shown in the selector.
func (p Panel) String() string {
	if !p.valid() {
		return panelMeta[PanelDashboard].label
	}
	return panelMeta[p].label
}

// Slug returns the query-string value for the panel.
func (p Panel) Slug() string {
	if !p.valid() {
		return panelMeta[PanelDashboard].slug
	}
	return panelMeta[p].slug
}

// ParsePanel accepts a slug or a label, case-insensitively. Anything else,
// including the empty string, selects the dashboard.
func ParsePanel(s string) Panel {
	s = strings.TrimSpace(s)
	for _, p := range Panels() {
		if strings.EqualFold(s, p.Slug()) || strings.EqualFold(s, p.String()) {
			return p
		}
	}
	return PanelDashboard
}
