package http

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"nairaghibli/internal/dashboard"
	"nairaghibli/internal/log"
)

// Proverb is shown under the sidebar navigation.
const Proverb = "Small daily savings grow like the baobab free."

var templateFuncs = template.FuncMap{
	"coord": func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
	"pct":   func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
}

type navItem struct {
	Label  string
	Slug   string
	Active bool
}

// banner is the success or error message of a form submission.
type banner struct {
	Success bool
	Message string
}

type incomeForm struct {
	Month  string
	Amount string
}

// appPage is everything the authenticated layout renders: the sidebar and
// exactly one panel.
type appPage struct {
	Nav          []navItem
	View         dashboard.View
	Banner       *banner
	IncomeBanner *banner
	Income       incomeForm
	Proverb      string
	Username     string
}

func (s *Server) newAppPage(ctx context.Context, p dashboard.Panel) appPage {
	view := s.views.Build(ctx, p)
	nav := make([]navItem, 0, len(dashboard.Panels()))
	for _, item := range dashboard.Panels() {
		nav = append(nav, navItem{Label: item.String(), Slug: item.Slug(), Active: item == view.Panel})
	}
	page := appPage{Nav: nav, View: view, Proverb: Proverb}
	if sess := sessionFrom(ctx); sess != nil {
		page.Username = sess.Username
	}
	return page
}

// render executes name into a buffer so a template failure never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.sl.LogError(r.Context(), "Template execution failed", err, log.ComponentTemplate, log.OpRender,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", ""))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	panel := dashboard.ParsePanel(r.URL.Query().Get("panel"))
	log.FromContext(r.Context()).DebugContext(r.Context(), "Rendering panel", log.FieldPanel, panel.Slug())
	s.render(w, r, http.StatusOK, "app.html", s.newAppPage(r.Context(), panel))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"timestamp":       time.Now().Format(time.RFC3339),
		"uptime":          time.Since(s.started).Round(time.Second).String(),
		"requests_served": s.tracer.GetMetrics().TotalRequests,
	})
}

// handleReady reports 503 when any dependency check fails.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok"}
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	for _, c := range s.ready {
		if err := c.Check(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "check", c.Name, log.FieldError, err.Error())
			checks[c.Name] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
