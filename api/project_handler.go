package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// listProjects returns the published projects
// @Summary List projects
// @Description Published projects, newest year first. A store failure still returns an empty array.
// @Tags Projects
// @Produce json
// @Param featured query bool false "Only featured projects"
// @Param tag query string false "Only projects with this tag"
// @Param tech query string false "Only projects using this technology"
// @Success 200 {array} models.Project
// @Failure 500 {array} models.Project "Empty list"
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		featured, _ := strconv.ParseBool(query.Get("featured"))

		projects, err := h.projects.List(r.Context(), services.ProjectFilter{
			Featured: featured,
			Tag:      query.Get("tag"),
			Tech:     query.Get("tech"),
		})
		if err != nil {
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, projects)
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// listAllProjects returns every project including drafts
// @Summary List all projects (admin)
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/projects [get]
func (h projectHandler) listAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.List(r.Context(), services.ProjectFilter{IncludeUnpublished: true})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject returns one project by slug
// @Summary Get project
// @Description Public lookups only see published projects; the admin route sees drafts too.
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse
// @Router /projects/{slug} [get]
// @Router /admin/projects/{slug} [get]
func (h projectHandler) getProject(includeUnpublished bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.projects.Get(r.Context(), chi.URLParam(r, "slug"), includeUnpublished)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description The slug is derived from the title when omitted. New projects are unpublished unless stated.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse "Missing or invalid fields"
// @Failure 409 {object} ErrorResponse "Slug already in use"
// @Failure 500 {object} ErrorResponse
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if err := decodeRequiredJSON(w, r, "project", &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.projects.Create(r.Context(), &project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("slug", created.Slug).Msg("Project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updateProject replaces the given fields of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param slug path string true "Project slug"
// @Param project body services.ProjectPatch true "Fields to change"
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 409 {object} ErrorResponse "Slug already in use"
// @Failure 500 {object} ErrorResponse
// @Router /projects/{slug} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch services.ProjectPatch
		if err := decodeRequiredJSON(w, r, "project", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.projects.Update(r.Context(), chi.URLParam(r, "slug"), patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject permanently removes a project
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse
// @Router /projects/{slug} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := h.projects.Delete(r.Context(), slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("slug", slug).Msg("Project deleted")
		h.responder.WriteJSON(w, MessageResponse{Message: "Project deleted successfully"})
	}
}
