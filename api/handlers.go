package api

import (
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, svcs *services.Services, r router, sessions sessionSigner) *routeHandlers {
	return &routeHandlers{
		projectHandler:   newProjectHandler(svcs.Projects),
		blogPostHandler:  newBlogPostHandler(svcs.Blog),
		contactHandler:   newContactHandler(svcs.Contact),
		analyticsHandler: newAnalyticsHandler(svcs.Analytics),
		adminHandler:     newAdminHandler(svcs.Dashboard, sessions, r.config.AdminSecret, r.config.IsProduction()),
		mediaHandler:     newMediaHandler(svcs.Media, svcs.Tracker),
		healthHandler:    newHealthHandler(db, r.startupTime),
	}
}
