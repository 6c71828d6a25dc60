package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == adminCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", adminCookieName)
	return nil
}

func TestAdminRoutesRequireAuthInProduction(t *testing.T) {
	app := newTestApp(t, prodConfig())

	protected := []struct{ method, target string }{
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/admin/projects"},
		{http.MethodGet, "/contact"},
		{http.MethodGet, "/analytics"},
		{http.MethodPost, "/projects"},
		{http.MethodDelete, "/blog/anything"},
		{http.MethodPost, "/admin/uploads"},
	}
	for _, p := range protected {
		rec := app.do(p.method, p.target, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", p.method, p.target, rec.Code)
		}
	}

	expectStatus(t, app.do(http.MethodGet, "/admin/stats", nil, "Authorization", "Bearer wrong"), http.StatusUnauthorized)
	expectStatus(t, app.do(http.MethodGet, "/admin/stats", nil, bearer...), http.StatusOK)

	// public routes stay open
	expectStatus(t, app.do(http.MethodGet, "/projects", nil), http.StatusOK)
	expectStatus(t, app.do(http.MethodPost, "/contact", map[string]any{"name": "n", "email": "a@b.co", "message": "m"}), http.StatusCreated)
}

func TestAdminLoginSessionLogout(t *testing.T) {
	app := newTestApp(t, prodConfig())

	expectStatus(t, app.do(http.MethodPost, "/admin/login", map[string]any{"secret": "nope"}), http.StatusUnauthorized)
	expectStatus(t, app.do(http.MethodPost, "/admin/login", map[string]any{}), http.StatusBadRequest)

	rec := app.do(http.MethodPost, "/admin/login", map[string]any{"secret": testSecret})
	expectStatus(t, rec, http.StatusOK)
	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly || !cookie.Secure {
		t.Fatalf("cookie flags httpOnly=%v secure=%v", cookie.HttpOnly, cookie.Secure)
	}
	if cookie.Value == testSecret {
		t.Fatal("cookie must hold a session token, not the secret")
	}

	sessionRec := httptest.NewRecorder()
	app.router.ServeHTTP(sessionRec, newRequestWithCookie(http.MethodGet, "/admin/session", cookie))
	expectStatus(t, sessionRec, http.StatusOK)
	if session := decode[adminSession](t, sessionRec); session.Method != authMethodSession || session.Subject != adminSubject {
		t.Fatalf("session = %+v", session)
	}

	rec = app.do(http.MethodGet, "/admin/session", nil, "Authorization", "Bearer "+cookie.Value)
	expectStatus(t, rec, http.StatusOK)

	rec = app.do(http.MethodPost, "/admin/logout", nil)
	expectStatus(t, rec, http.StatusOK)
	if cleared := sessionCookie(t, rec); cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatalf("logout cookie = %+v", cleared)
	}
}

func TestAdminBypassOutsideProduction(t *testing.T) {
	app := newTestApp(t, devConfig())

	rec := app.do(http.MethodGet, "/admin/session", nil)
	expectStatus(t, rec, http.StatusOK)
	if session := decode[adminSession](t, rec); session.Method != authMethodBypass {
		t.Fatalf("method = %q, want %q", session.Method, authMethodBypass)
	}
}

func TestAdminLoginWithoutSecretConfigured(t *testing.T) {
	cfg := prodConfig()
	cfg.AdminSecret = ""
	app := newTestApp(t, cfg)

	expectStatus(t, app.do(http.MethodPost, "/admin/login", map[string]any{"secret": ""}), http.StatusServiceUnavailable)
	expectStatus(t, app.do(http.MethodGet, "/admin/stats", nil, "Authorization", "Bearer "), http.StatusUnauthorized)
}

func TestAdminStats(t *testing.T) {
	app := newTestApp(t, devConfig())

	expectStatus(t, app.do(http.MethodPost, "/projects", map[string]any{"title": "P", "summary": "s", "description": "d"}), http.StatusCreated)
	for i := 0; i < 2; i++ {
		expectStatus(t, app.do(http.MethodPost, "/contact", map[string]any{"name": "n", "email": "a@b.co", "message": "m"}), http.StatusCreated)
	}

	rec := app.do(http.MethodGet, "/admin/stats", nil)
	expectStatus(t, rec, http.StatusOK)
	stats := decode[services.DashboardStats](t, rec)
	if stats.Projects != 1 || stats.Blogs != 0 || stats.Messages != 2 || stats.Unread != 2 || len(stats.RecentMessages) != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	app.closeStore()
	rec = app.do(http.MethodGet, "/admin/stats", nil)
	expectStatus(t, rec, http.StatusOK)
	stats = decode[services.DashboardStats](t, rec)
	if stats.Projects != 0 || stats.Messages != 0 || len(stats.RecentMessages) != 0 {
		t.Fatalf("degraded stats = %+v", stats)
	}
}

func TestSessionSigner(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	signer := newSessionSigner(testSecret, time.Hour)
	signer.now = func() time.Time { return now }

	token, expires, err := signer.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires = %v", expires)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != adminSubject {
		t.Fatalf("subject = %q", claims.Subject)
	}

	other := newSessionSigner("another-secret", time.Hour)
	other.now = signer.now
	if _, err := other.Verify(token); err == nil {
		t.Fatal("token signed with another key must not verify")
	}

	later := signer
	later.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := later.Verify(token); err == nil {
		t.Fatal("expired token must not verify")
	}

	if _, err := signer.Verify(token + "x"); err == nil {
		t.Fatal("tampered token must not verify")
	}
	if _, err := newSessionSigner("", time.Hour).Verify(token); err == nil {
		t.Fatal("empty key must reject every token")
	}
}

func TestAuthorize(t *testing.T) {
	signer := newSessionSigner(testSecret, time.Hour)
	valid, _, err := signer.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	m := newAuthMiddleware(testSecret, signer, true)

	tests := []struct {
		name       string
		cookie     string
		bearer     string
		wantMethod string
		wantErr    bool
	}{
		{name: "no credentials", wantErr: true},
		{name: "secret as bearer", bearer: testSecret, wantMethod: authMethodSecret},
		{name: "session cookie", cookie: valid, wantMethod: authMethodSession},
		{name: "stale cookie falls back to bearer", cookie: "expired-token", bearer: valid, wantMethod: authMethodSession},
		{name: "stale cookie and bad bearer", cookie: "expired-token", bearer: "wrong", wantErr: true},
		{name: "blank bearer", bearer: " ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: adminCookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			session, err := m.authorize(req)
			if tt.wantErr {
				if !errs.IsUnauthorized(err) {
					t.Fatalf("err = %v, want unauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("authorize: %v", err)
			}
			if session.Method != tt.wantMethod || session.Subject != adminSubject {
				t.Fatalf("session = %+v, want method %q", session, tt.wantMethod)
			}
		})
	}
}

func TestStaleCookieDoesNotShadowBearer(t *testing.T) {
	app := newTestApp(t, prodConfig())

	req := newRequestWithCookie(http.MethodGet, "/admin/stats", &http.Cookie{Name: adminCookieName, Value: "left-over"})
	req.Header.Set("Authorization", "Bearer "+testSecret)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	req = newRequestWithCookie(http.MethodGet, "/admin/stats", &http.Cookie{Name: adminCookieName, Value: "left-over"})
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
}
