package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type adminHandler struct {
	responder    Responder
	logger       zerolog.Logger
	dashboard    *services.DashboardService
	sessions     sessionSigner
	secret       string
	secureCookie bool
}

func newAdminHandler(dashboard *services.DashboardService, sessions sessionSigner, secret string, secureCookie bool) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		dashboard:    dashboard,
		sessions:     sessions,
		secret:       secret,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Secret string `json:"secret"`
}

// LoginResponse is returned when the admin session cookie has been set
type LoginResponse struct {
	Status    string    `json:"status" example:"ok"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// getStats returns the dashboard counters
// @Summary Dashboard stats
// @Description Counts of projects, posts, messages and unread messages plus the five newest messages.
// @Tags Admin
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Failure 401 {object} ErrorResponse
// @Router /admin/stats [get]
func (h adminHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.dashboard.Stats(r.Context()))
	}
}

// login exchanges the admin secret for a session cookie
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body loginRequest true "Admin secret"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse "Wrong secret"
// @Failure 503 {object} ErrorResponse "No admin secret configured"
// @Router /admin/login [post]
func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.secret == "" {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("admin login"))
			return
		}

		var body loginRequest
		if err := decodeRequiredJSON(w, r, "login", &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if body.Secret == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("secret"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(body.Secret), []byte(h.secret)) != 1 {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Failed admin login")
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid admin secret"))
			return
		}

		token, expires, err := h.sessions.Issue()
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to create admin session", err))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    token,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.logger.Info().Msg("Admin logged in")
		h.responder.WriteJSON(w, LoginResponse{Status: "ok", ExpiresAt: expires})
	}
}

// logout clears the admin session cookie
// @Router /admin/logout [post]
func (h adminHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.responder.WriteJSON(w, MessageResponse{Message: "Logged out"})
	}
}

// getSession reports how the caller was authenticated
// @Router /admin/session [get]
func (h adminHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := ctxGetAdminSession(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("no admin session"))
			return
		}
		h.responder.WriteJSON(w, session)
	}
}
