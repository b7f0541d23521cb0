package handlers

import (
	"errors"
	"net/http"
	"time"

	"clubsite/internal/session"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

const maxLoginBody = 4 << 10

// loginFailureDelay slows down brute-force scripts. Tests set it to zero.
var loginFailureDelay = 500 * time.Millisecond

// LoginPage shows the form, or sends an already authenticated admin to the dashboard.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	page := h.base(r, "Admin login")
	if notice, ok := session.LoginRequired(r); ok {
		page.Flashes = append([]session.Flash{notice}, page.Flashes...)
	}
	h.render(w, http.StatusOK, "login", page)
}

// Login checks the submitted credentials against the configured admin account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow(h.loginLimiter.ClientIP(r)) {
		utils.WriteError(w, http.StatusTooManyRequests, utils.ErrAuthRateLimitExceed, "Too many login attempts. Please wait.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, utils.ErrRequestBodyTooLarge, "Login form is too large.")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, utils.ErrRequestInvalid, "Invalid request body.")
		return
	}

	err := h.sessions.Login(w, r, r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		logger.LogWarn("Failed admin login from %s", h.loginLimiter.ClientIP(r))
		time.Sleep(loginFailureDelay)
		h.sessions.Flash(w, r, session.FlashDanger, "Invalid credentials. Please try again.")
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	case err != nil:
		h.ServerError(w, r, "start session", err)
		return
	}

	h.sessions.Flash(w, r, session.FlashSuccess, "You were successfully logged in!")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout ends the session and returns to the homepage.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w, r)
	h.sessions.Flash(w, r, session.FlashSuccess, "You were successfully logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
