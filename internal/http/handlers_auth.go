package http

import (
	"context"
	"errors"
	"net/http"

	"nairaghibli/internal/auth"
	"nairaghibli/internal/log"
)

type sessionKey struct{}

func sessionFrom(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return s
}

// withSession resolves the visitor's session, issuing a new anonymous one
// when the cookie is missing or stale.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookieName); err == nil {
			id = c.Value
		}

		sess, err := s.gate.Begin(r.Context(), id)
		if err != nil {
			s.sl.LogError(r.Context(), "Failed to load session", err, log.ComponentSession, log.OpLogin, nil)
			http.Error(w, "Session unavailable", http.StatusServiceUnavailable)
			return
		}
		if sess.ID != id {
			s.setSessionCookie(w, sess.ID)
		}

		ctx := log.NewContext(r.Context(), log.FromContext(r.Context()).With(log.FieldSessionID, sess.ID))
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey{}, sess)))
	})
}

// requireAuth sends anonymous sessions to the login form.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

type loginPage struct {
	Username string
	Error    string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", loginPage{})
}

// handleLogin compares the submitted pair literally; only a match moves the
// session to authenticated.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", loginPage{Error: "Invalid request format"})
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	sess := sessionFrom(r.Context())

	err := s.gate.Login(r.Context(), sess, username, password)
	switch {
	case err == nil:
		s.setSessionCookie(w, sess.ID)
		s.sl.LogLogin(r.Context(), sanitizeInput(username), sess.ID, true)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.sl.LogLogin(r.Context(), sanitizeInput(username), sess.ID, false)
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPage{
			Username: username,
			Error:    "Invalid credentials",
		})
	default:
		s.sl.LogError(r.Context(), "Login failed", err, log.ComponentAuth, log.OpLogin, nil)
		s.render(w, r, http.StatusInternalServerError, "login.html", loginPage{
			Username: username,
			Error:    "Login is temporarily unavailable",
		})
	}
}
