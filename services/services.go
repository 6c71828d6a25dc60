package services

import (
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
)

// Services is the set of query/command services built once at startup and shared by all handlers
type Services struct {
	Projects   *ProjectService
	Blog       *BlogService
	Contact    *ContactService
	Analytics  *AnalyticsService
	Dashboard  *DashboardService
	Tracker    *Tracker
	Notifier   *Notifier
	Media      *MediaStore
	Background *Background
}

// New wires the services on top of db. media may be nil when S3 is not configured.
func New(db database.Database, cfg config.Config, media *MediaStore, bg *Background) *Services {
	analytics := NewAnalyticsService(db.AnalyticsEventRepo())
	tracker := NewTracker(analytics, bg)
	notifier := NewNotifier(cfg, bg)

	projects := NewProjectService(db.ProjectRepo())
	blog := NewBlogService(db.BlogPostRepo())
	contact := NewContactService(db.ContactMessageRepo(), tracker, notifier)

	return &Services{
		Projects:   projects,
		Blog:       blog,
		Contact:    contact,
		Analytics:  analytics,
		Dashboard:  NewDashboardService(projects, blog, contact),
		Tracker:    tracker,
		Notifier:   notifier,
		Media:      media,
		Background: bg,
	}
}
