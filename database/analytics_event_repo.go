package database

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

// AnalyticsEventRepo is append-only: there is no update or delete.
type AnalyticsEventRepo struct {
	db *gorm.DB
}

func NewAnalyticsEventRepo(db *gorm.DB) *AnalyticsEventRepo {
	return &AnalyticsEventRepo{db}
}

func (r *AnalyticsEventRepo) Add(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindSince returns every event created at or after start, oldest first
func (r *AnalyticsEventRepo) FindSince(ctx context.Context, start time.Time) ([]*models.AnalyticsEvent, error) {
	var events []*models.AnalyticsEvent
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", start.UTC()).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
