package api

import (
	"crypto/subtle"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// authMiddleware guards the admin routes. A request is let through when it carries
// the admin secret itself or a session token issued by POST /admin/login, either in
// the admin_token cookie or as a bearer token. When enforce is false every request
// is let through.
type authMiddleware struct {
	responder Responder
	logger    zerolog.Logger
	secret    string
	sessions  sessionSigner
	enforce   bool
}

func newAuthMiddleware(secret string, sessions sessionSigner, enforce bool) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		logger:    logger,
		secret:    secret,
		sessions:  sessions,
		enforce:   enforce,
	}
}

func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enforce {
			ctx := ctxWithAdminSession(r.Context(), adminSession{Subject: adminSubject, Method: authMethodBypass})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		session, err := m.authorize(r)
		if err != nil {
			m.logger.Warn().Err(err).Str("path", r.URL.Path).Str("remote_addr", r.RemoteAddr).Msg("Rejected admin request")
			m.responder.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithAdminSession(r.Context(), session)))
	})
}

// authorize tries every credential the request carries, cookie first, and
// accepts the first one that checks out
func (m authMiddleware) authorize(r *http.Request) (adminSession, error) {
	tokens := requestTokens(r)
	if len(tokens) == 0 {
		return adminSession{}, errs.NewUnauthorizedError("missing admin credentials")
	}
	for _, token := range tokens {
		if session, ok := m.check(token); ok {
			return session, nil
		}
	}
	return adminSession{}, errs.NewUnauthorizedError("invalid admin credentials")
}

func (m authMiddleware) check(token string) (adminSession, bool) {
	if m.matchesSecret(token) {
		return adminSession{Subject: adminSubject, Method: authMethodSecret}, true
	}
	claims, err := m.sessions.Verify(token)
	if err != nil {
		return adminSession{}, false
	}
	return adminSession{Subject: claims.Subject, Method: authMethodSession}, true
}

func (m authMiddleware) matchesSecret(candidate string) bool {
	if m.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(m.secret)) == 1
}

// requestTokens returns the admin cookie value and the bearer token, in that order, skipping empty ones
func requestTokens(r *http.Request) []string {
	var tokens []string
	if cookie, err := r.Cookie(adminCookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if bearer := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); bearer != "" {
			tokens = append(tokens, bearer)
		}
	}
	return tokens
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}
	return false
}

// CORSCheckMiddleware answers preflight requests from unknown origins with a 403
// instead of a bare response without CORS headers
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !originAllowed(allowedOrigins, origin) && r.Method == http.MethodOptions {
				responder := NewResponder(log.Logger)
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware sets the CORS headers for the accepted origins. Credentials are
// allowed so the admin cookie travels with cross-origin admin requests.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return originAllowed(allowedOrigins, origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// HTTPLoggingMiddleware logs every request at a level chosen by its status code
func HTTPLoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: 200}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}
