package http

import (
	"net/http"

	"nairaghibli/internal/dashboard"
	"nairaghibli/internal/log"
)

// handleCreateIncome serves the sidebar form. It is posted from every panel
// and re-renders the panel it came from.
func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		page := s.newAppPage(ctx, dashboard.PanelDashboard)
		page.IncomeBanner = &banner{Message: "Invalid request format"}
		s.render(w, r, http.StatusBadRequest, "app.html", page)
		return
	}

	form := incomeForm{
		Month:  sanitizeInput(r.PostForm.Get("month")),
		Amount: sanitizeInput(r.PostForm.Get("amount")),
	}
	panel := dashboard.ParsePanel(r.PostForm.Get("panel"))

	amount, msg := parseIncomeAmount(form.Amount)
	if msg != "" {
		log.FromContext(ctx).WarnContext(ctx, "Income form rejected",
			log.FieldOperation, log.OpValidate, log.FieldError, msg)
		page := s.newAppPage(ctx, panel)
		page.Income = form
		page.IncomeBanner = &banner{Message: msg}
		s.render(w, r, http.StatusUnprocessableEntity, "app.html", page)
		return
	}

	out := s.ledger.AddIncome(ctx, form.Month, amount)

	// Built after the write so the panel reflects the new income.
	page := s.newAppPage(ctx, panel)
	page.IncomeBanner = &banner{Success: out.Success, Message: out.Message}
	status := http.StatusOK
	if !out.Success {
		page.Income = form
		status = http.StatusInternalServerError
	}
	s.render(w, r, status, "app.html", page)
}
