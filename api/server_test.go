package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/dbtest"
	"github.com/rpupo63/portfolio-backend/services"
)

func TestHealth(t *testing.T) {
	app := newTestApp(t, devConfig())

	rec := app.do(http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusOK)
	if resp := decode[HealthResponse](t, rec); resp.Status != "ok" || resp.Database != "ok" {
		t.Fatalf("health = %+v", resp)
	}

	app.closeStore()
	rec = app.do(http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestCORS(t *testing.T) {
	app := newTestApp(t, devConfig())

	preflight := func(origin string) *httptest.ResponseRecorder {
		return app.do(http.MethodOptions, "/contact", nil,
			"Origin", origin,
			"Access-Control-Request-Method", http.MethodPost,
			"Access-Control-Request-Headers", "Content-Type",
		)
	}

	rec := preflight("https://evil.example.com")
	expectStatus(t, rec, http.StatusForbidden)

	rec = preflight("https://site.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://site.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials = %q", got)
	}

	rec = app.do(http.MethodGet, "/projects", nil, "Origin", "https://site.example.com")
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://site.example.com" {
		t.Fatalf("allow origin on GET = %q", got)
	}
}

func TestMediaRoutesWithoutStorage(t *testing.T) {
	app := newTestApp(t, devConfig())

	expectStatus(t, app.do(http.MethodGet, "/resume", nil), http.StatusServiceUnavailable)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cover.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("\x89PNG"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusServiceUnavailable)

	var empty bytes.Buffer
	mw = multipart.NewWriter(&empty)
	mw.WriteField("other", "x")
	mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/admin/uploads", &empty)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestNewServer(t *testing.T) {
	cfg := config.Config{Port: "9090", ReadTimeoutSeconds: 5, WriteTimeoutSeconds: 6, IdleTimeoutSeconds: 7}
	db := database.New(dbtest.Open(t))
	svcs := services.New(db, cfg, nil, services.NewBackground(time.Second))

	server, err := NewServer(cfg, db, svcs)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if server.Addr != "0.0.0.0:9090" {
		t.Fatalf("addr = %q", server.Addr)
	}
	if server.ReadTimeout != 5*time.Second || server.WriteTimeout != 6*time.Second || server.IdleTimeout != 7*time.Second {
		t.Fatalf("timeouts = %v %v %v", server.ReadTimeout, server.WriteTimeout, server.IdleTimeout)
	}

	if _, err := NewServer(cfg, db, nil); err == nil {
		t.Fatal("expected error without services")
	}
}

func TestPanicRecovery(t *testing.T) {
	h := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	expectStatus(t, rec, http.StatusInternalServerError)
}
