package http

import (
	"net/http"

	"nairaghibli/internal/core"
	"nairaghibli/internal/dashboard"
	"nairaghibli/internal/log"
	"nairaghibli/internal/services"
)

// handleCreateExpense validates the Add Expense form at the boundary, hands
// it to the ledger and re-renders the panel with the outcome banner.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.newAppPage(ctx, dashboard.PanelAddExpense)

	if err := r.ParseForm(); err != nil {
		page.Banner = &banner{Message: "Invalid request format"}
		s.render(w, r, http.StatusBadRequest, "app.html", page)
		return
	}

	form := dashboard.ExpenseForm{
		Amount:      sanitizeInput(r.PostForm.Get("amount")),
		Category:    sanitizeInput(r.PostForm.Get("category")),
		Note:        sanitizeInput(r.PostForm.Get("note")),
		Date:        sanitizeInput(r.PostForm.Get("date")),
		Description: sanitizeInput(r.PostForm.Get("description")),
		MinAmount:   page.View.AddExpense.Form.MinAmount,
	}

	reject := func(msg string) {
		log.FromContext(ctx).WarnContext(ctx, "Expense form rejected",
			log.FieldOperation, log.OpValidate, log.FieldError, msg)
		page.View.AddExpense.Form = form
		page.Banner = &banner{Message: msg}
		s.render(w, r, http.StatusUnprocessableEntity, "app.html", page)
	}

	amount, msg := parseExpenseAmount(form.Amount)
	if msg != "" {
		reject(msg)
		return
	}
	date, err := core.ParseDate(form.Date)
	if err != nil {
		reject("Date must be in YYYY-MM-DD format")
		return
	}

	out := s.ledger.AddExpense(ctx, services.ExpenseInput{
		Amount:      amount,
		Category:    form.Category,
		Note:        form.Note,
		Date:        date,
		Description: form.Description,
	})
	page.Banner = &banner{Success: out.Success, Message: out.Message}
	if !out.Success {
		page.View.AddExpense.Form = form
		s.render(w, r, http.StatusInternalServerError, "app.html", page)
		return
	}

	// Rebuild so the dashboard reads include the new row on the next visit
	// and the form starts blank.
	page.View = s.views.Build(ctx, dashboard.PanelAddExpense)
	s.render(w, r, http.StatusOK, "app.html", page)
}
