package services

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/dbtest"
	"gorm.io/gorm"
)

type testEnv struct {
	db  *gorm.DB
	svc *Services
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db := dbtest.Open(t)
	svc := New(database.New(db), config.Config{}, nil, NewBackground(5*time.Second))
	return testEnv{db: db, svc: svc}
}

// closeStore makes every further query fail the way a lost connection does
func (e testEnv) closeStore(t *testing.T) {
	t.Helper()
	sqlDB, err := e.db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()
}

func (e testEnv) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.svc.Background.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
