package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public routes and, behind auth, the admin routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.health())

	// Public
	r.Get("/projects", handlers.projectHandler.listProjects())
	r.Get("/projects/{slug}", handlers.projectHandler.getProject(false))
	r.Get("/blog", handlers.blogPostHandler.listBlogPosts())
	r.Get("/blog/{slug}", handlers.blogPostHandler.getBlogPost(false))
	r.Post("/contact", handlers.contactHandler.createContactMessage())
	r.Post("/analytics", handlers.analyticsHandler.recordEvent())
	r.Get("/resume", handlers.mediaHandler.downloadResume())

	r.Post("/admin/login", handlers.adminHandler.login())
	r.Post("/admin/logout", handlers.adminHandler.logout())

	// Admin
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{slug}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{slug}", handlers.projectHandler.deleteProject())

		r.Post("/blog", handlers.blogPostHandler.createBlogPost())
		r.Put("/blog/{slug}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/blog/{slug}", handlers.blogPostHandler.deleteBlogPost())

		r.Get("/contact", handlers.contactHandler.listContactMessages())
		r.Patch("/contact/{id}", handlers.contactHandler.updateContactMessage())
		r.Delete("/contact/{id}", handlers.contactHandler.deleteContactMessage())

		r.Get("/analytics", handlers.analyticsHandler.getSummary())

		r.Get("/admin/session", handlers.adminHandler.getSession())
		r.Get("/admin/stats", handlers.adminHandler.getStats())
		r.Get("/admin/projects", handlers.projectHandler.listAllProjects())
		r.Get("/admin/projects/{slug}", handlers.projectHandler.getProject(true))
		r.Get("/admin/blog", handlers.blogPostHandler.listAllBlogPosts())
		r.Get("/admin/blog/{slug}", handlers.blogPostHandler.getBlogPost(true))
		r.Post("/admin/uploads", handlers.mediaHandler.uploadMedia())
	})
}
