package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/dbtest"
	"github.com/rpupo63/portfolio-backend/services"
	"gorm.io/gorm"
)

const testSecret = "s3cret-admin"

type testApp struct {
	t      *testing.T
	gormDB *gorm.DB
	svcs   *services.Services
	router *chi.Mux
}

func devConfig() config.Config {
	return config.Config{
		AppEnv:          "development",
		AdminSecret:     testSecret,
		AdminSessionTTL: time.Hour,
		AcceptedOrigins: []string{"https://site.example.com"},
	}
}

func prodConfig() config.Config {
	cfg := devConfig()
	cfg.AppEnv = "production"
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	gormDB := dbtest.Open(t)
	db := database.New(gormDB)
	bg := services.NewBackground(5 * time.Second)
	svcs := services.New(db, cfg, nil, bg)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		bg.Drain(ctx)
	})

	return &testApp{
		t:      t,
		gormDB: gormDB,
		svcs:   svcs,
		router: newRouter(db, svcs, withConfig(cfg), withStartupTime(time.Now())),
	}
}

// do sends a request with an optional JSON body and optional extra headers
func (a *testApp) do(method, target string, body any, header ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) closeStore() {
	a.t.Helper()
	sqlDB, err := a.gormDB.DB()
	if err != nil {
		a.t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

var bearer = []string{"Authorization", "Bearer " + testSecret}

func newRequestWithCookie(method, target string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(cookie)
	return req
}
