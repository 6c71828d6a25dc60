package services

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const recentMessagesLimit = 5

// DashboardStats is the admin landing page summary
type DashboardStats struct {
	Projects       int64                    `json:"projects"`
	Blogs          int64                    `json:"blogs"`
	Messages       int64                    `json:"messages"`
	Unread         int64                    `json:"unread"`
	RecentMessages []*models.ContactMessage `json:"recentMessages"`
}

type DashboardService struct {
	logger   zerolog.Logger
	projects *ProjectService
	blog     *BlogService
	contact  *ContactService
}

func NewDashboardService(projects *ProjectService, blog *BlogService, contact *ContactService) *DashboardService {
	return &DashboardService{
		logger:   log.With().Str("service", "dashboard").Logger(),
		projects: projects,
		blog:     blog,
		contact:  contact,
	}
}

// Stats runs the four counts concurrently. Any failure zeroes the counts and an
// unreadable message list becomes empty; the dashboard always renders.
func (s *DashboardService) Stats(ctx context.Context) DashboardStats {
	var stats DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Projects, err = s.projects.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Blogs, err = s.blog.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Messages, err = s.contact.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Unread, err = s.contact.CountUnread(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Error fetching stats")
		stats = DashboardStats{}
	}

	recent, err := s.contact.Recent(ctx, recentMessagesLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching recent messages")
	}
	stats.RecentMessages = recent
	return stats
}
