package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	// DefaultAnalyticsDays is the lookback window used when none is given
	DefaultAnalyticsDays = 30
	topPagesLimit        = 5
	dayLayout            = "2006-01-02"
)

// EventInput is a request to record one analytics event
type EventInput struct {
	Type        models.EventType `json:"type"`
	Page        string           `json:"page"`
	ProjectSlug string           `json:"projectSlug"`
	Metadata    map[string]any   `json:"metadata"`
}

// SummaryCounts counts events per type inside the window
type SummaryCounts struct {
	PageViews       int `json:"pageViews"`
	ProjectClicks   int `json:"projectClicks"`
	ResumeDownloads int `json:"resumeDownloads"`
	ContactSubmits  int `json:"contactSubmits"`
}

// DailyViews is the number of page views on one UTC calendar day
type DailyViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// PageViews is the number of views of one page
type PageViews struct {
	Page  string `json:"page"`
	Views int    `json:"views"`
}

// AnalyticsSummary is the dashboard view over an event window
type AnalyticsSummary struct {
	Summary    SummaryCounts `json:"summary"`
	DailyViews []DailyViews  `json:"dailyViews"`
	TopPages   []PageViews   `json:"topPages"`
}

type AnalyticsService struct {
	logger zerolog.Logger
	repo   *database.AnalyticsEventRepo
	now    func() time.Time
}

func NewAnalyticsService(repo *database.AnalyticsEventRepo) *AnalyticsService {
	return &AnalyticsService{
		logger: log.With().Str("service", "analytics").Logger(),
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record appends one event. The type must be one of the known event types;
// page and project slug are not checked against any other collection.
func (s *AnalyticsService) Record(ctx context.Context, in EventInput) (*models.AnalyticsEvent, error) {
	in.Type = models.EventType(strings.TrimSpace(string(in.Type)))
	if in.Type == "" {
		return nil, errs.NewMissingRequiredFieldError("type")
	}
	if !in.Type.Valid() {
		return nil, errs.NewInvalidFieldError("type", "unknown event type "+string(in.Type))
	}

	event := &models.AnalyticsEvent{
		Type:        in.Type,
		Page:        in.Page,
		ProjectSlug: in.ProjectSlug,
		Metadata:    datatypes.JSONMap(in.Metadata),
	}
	if err := s.repo.Add(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("type", string(in.Type)).Msg("Failed to record analytics event")
		return nil, errs.NewDatabaseError("record", "analytics event", err)
	}
	return event, nil
}

// Summary aggregates the events of the last days days. A non-positive days uses the default.
func (s *AnalyticsService) Summary(ctx context.Context, days int) (*AnalyticsSummary, error) {
	if days <= 0 {
		days = DefaultAnalyticsDays
	}
	now := s.now()
	start := WindowStart(now, days)

	events, err := s.repo.FindSince(ctx, start)
	if err != nil {
		s.logger.Error().Err(err).Int("days", days).Msg("Failed to load analytics events")
		return nil, errs.NewDatabaseError("load", "analytics events", err)
	}
	summary := Summarize(events, start, now)
	return &summary, nil
}

// WindowStart is the inclusive lower bound of a days-long window ending at now
func WindowStart(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// Summarize computes the dashboard view over the events with start <= createdAt <= now.
// Daily views are sparse and ascending by date; top pages are the five most viewed,
// ties kept in first-seen order.
func Summarize(events []*models.AnalyticsEvent, start, now time.Time) AnalyticsSummary {
	out := AnalyticsSummary{
		DailyViews: []DailyViews{},
		TopPages:   []PageViews{},
	}

	daily := map[string]int{}
	pageIndex := map[string]int{}

	for _, e := range events {
		if e.CreatedAt.Before(start) || e.CreatedAt.After(now) {
			continue
		}

		switch e.Type {
		case models.EventPageView:
			out.Summary.PageViews++
		case models.EventProjectClick:
			out.Summary.ProjectClicks++
		case models.EventResumeDownload:
			out.Summary.ResumeDownloads++
		case models.EventContactSubmit:
			out.Summary.ContactSubmits++
		}

		if e.Type != models.EventPageView {
			continue
		}
		daily[e.CreatedAt.UTC().Format(dayLayout)]++

		if e.Page == "" {
			continue
		}
		if i, ok := pageIndex[e.Page]; ok {
			out.TopPages[i].Views++
		} else {
			pageIndex[e.Page] = len(out.TopPages)
			out.TopPages = append(out.TopPages, PageViews{Page: e.Page, Views: 1})
		}
	}

	for date, views := range daily {
		out.DailyViews = append(out.DailyViews, DailyViews{Date: date, Views: views})
	}
	sort.Slice(out.DailyViews, func(i, j int) bool {
		return out.DailyViews[i].Date < out.DailyViews[j].Date
	})

	sort.SliceStable(out.TopPages, func(i, j int) bool {
		return out.TopPages[i].Views > out.TopPages[j].Views
	})
	if len(out.TopPages) > topPagesLimit {
		out.TopPages = out.TopPages[:topPagesLimit]
	}
	return out
}
