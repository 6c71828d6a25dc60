package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const projectEntity = "project"

// ProjectFilter selects which projects List returns
type ProjectFilter struct {
	Featured bool
	Tag      string
	Tech     string
	// IncludeUnpublished is set by the admin listing only
	IncludeUnpublished bool
}

// ProjectPatch carries the fields of a partial update; nil means "leave as is"
type ProjectPatch struct {
	Slug        *string                `json:"slug"`
	Title       *string                `json:"title"`
	Summary     *string                `json:"summary"`
	Description *string                `json:"description"`
	CoverImage  *string                `json:"coverImage"`
	Gallery     *[]string              `json:"gallery"`
	Tags        *[]string              `json:"tags"`
	Tech        *[]string              `json:"tech"`
	Year        NullableInt            `json:"year"`
	Role        *string                `json:"role"`
	RepoURL     *string                `json:"repoUrl"`
	DemoURL     *string                `json:"demoUrl"`
	Featured    *bool                  `json:"featured"`
	Published   *bool                  `json:"published"`
	Metrics     *models.ProjectMetrics `json:"metrics"`
}

// NullableInt is a patch field that tells an absent key apart from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type NullableInt struct {
	Set   bool
	Value *int
}

// SetInt returns a NullableInt that sets the column to v
func SetInt(v int) NullableInt {
	return NullableInt{Set: true, Value: &v}
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type ProjectService struct {
	logger zerolog.Logger
	repo   *database.ProjectRepo
}

func NewProjectService(repo *database.ProjectRepo) *ProjectService {
	return &ProjectService{
		logger: log.With().Str("service", "projects").Logger(),
		repo:   repo,
	}
}

// List returns the projects matching filter. On a storage failure it returns an
// empty slice together with the error so callers can degrade.
func (s *ProjectService) List(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	projects, err := s.repo.FindAll(ctx, database.ProjectQuery{
		PublishedOnly: !filter.IncludeUnpublished,
		FeaturedOnly:  filter.Featured,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list projects")
		return []*models.Project{}, errs.NewDatabaseError("list", "projects", err)
	}

	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if filter.Tag != "" && !p.HasTag(filter.Tag) {
			continue
		}
		if filter.Tech != "" && !p.UsesTech(filter.Tech) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get looks a project up by slug. Unpublished projects are only visible with includeUnpublished.
func (s *ProjectService) Get(ctx context.Context, slug string, includeUnpublished bool) (*models.Project, error) {
	project, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !project.Published && !includeUnpublished {
		return nil, errs.NewNotFound(projectEntity)
	}
	return project, nil
}

// Create validates and stores a new project. A missing slug is derived from the title;
// a slug already in use is rejected.
func (s *ProjectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.Title = strings.TrimSpace(project.Title)
	if project.Slug == "" {
		project.Slug = DeriveSlug(project.Title)
	}

	switch {
	case project.Title == "":
		return nil, errs.NewMissingRequiredFieldError("title")
	case project.Slug == "":
		return nil, errs.NewMissingRequiredFieldError("slug")
	case !IsSlug(project.Slug):
		return nil, errs.NewInvalidFieldError("slug", "must contain only lowercase letters, digits and single hyphens")
	case strings.TrimSpace(project.Summary) == "":
		return nil, errs.NewMissingRequiredFieldError("summary")
	case strings.TrimSpace(project.Description) == "":
		return nil, errs.NewMissingRequiredFieldError("description")
	}

	if err := s.ensureSlugFree(ctx, project.Slug); err != nil {
		return nil, err
	}

	// identity and timestamps are system-managed
	project.ID = uuid.Nil
	project.CreatedAt = time.Time{}
	project.UpdatedAt = time.Time{}
	if err := s.repo.Add(ctx, project); err != nil {
		s.logger.Error().Err(err).Str("slug", project.Slug).Msg("Failed to create project")
		return nil, errs.NewDatabaseError("create", projectEntity, err)
	}
	return s.find(ctx, project.Slug)
}

// Update applies patch to the project with slug, leaving unspecified fields untouched
func (s *ProjectService) Update(ctx context.Context, slug string, patch ProjectPatch) (*models.Project, error) {
	existing, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}

	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	if patch.Slug != nil && *patch.Slug != existing.Slug {
		if err := s.ensureSlugFree(ctx, *patch.Slug); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to update project")
		return nil, errs.NewDatabaseError("update", projectEntity, err)
	}

	current := existing.Slug
	if patch.Slug != nil {
		current = *patch.Slug
	}
	return s.find(ctx, current)
}

// Delete permanently removes the project with slug
func (s *ProjectService) Delete(ctx context.Context, slug string) error {
	n, err := s.repo.DeleteBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to delete project")
		return errs.NewDatabaseError("delete", projectEntity, err)
	}
	if n == 0 {
		return errs.NewNotFound(projectEntity)
	}
	return nil
}

func (s *ProjectService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "projects", err)
	}
	return n, nil
}

func (s *ProjectService) find(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.repo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(projectEntity)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to find project")
		return nil, errs.NewDatabaseError("find", projectEntity, err)
	}
	return project, nil
}

func (s *ProjectService) ensureSlugFree(ctx context.Context, slug string) error {
	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return errs.NewDatabaseError("check slug of", projectEntity, err)
	}
	if taken {
		return errs.NewSlugConflict(projectEntity, slug)
	}
	return nil
}

func (p ProjectPatch) fields() (map[string]any, error) {
	fields := map[string]any{}

	if err := requiredText(fields, "title", "title", p.Title); err != nil {
		return nil, err
	}
	if err := requiredText(fields, "summary", "summary", p.Summary); err != nil {
		return nil, err
	}
	if err := requiredText(fields, "description", "description", p.Description); err != nil {
		return nil, err
	}
	if p.Slug != nil {
		if !IsSlug(*p.Slug) {
			return nil, errs.NewInvalidFieldError("slug", "must contain only lowercase letters, digits and single hyphens")
		}
		fields["slug"] = *p.Slug
	}

	optionalText(fields, "cover_image", p.CoverImage)
	optionalText(fields, "role", p.Role)
	optionalText(fields, "repo_url", p.RepoURL)
	optionalText(fields, "demo_url", p.DemoURL)
	optionalList(fields, "gallery", p.Gallery)
	optionalList(fields, "tags", p.Tags)
	optionalList(fields, "tech", p.Tech)

	if p.Year.Set {
		if p.Year.Value == nil {
			fields["year"] = nil
		} else {
			fields["year"] = *p.Year.Value
		}
	}
	if p.Featured != nil {
		fields["featured"] = *p.Featured
	}
	if p.Published != nil {
		fields["published"] = *p.Published
	}
	if p.Metrics != nil {
		fields["metrics_views"] = p.Metrics.Views
		fields["metrics_clicks"] = p.Metrics.Clicks
	}
	return fields, nil
}

func requiredText(fields map[string]any, column, name string, value *string) error {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return errs.NewInvalidFieldError(name, "cannot be empty")
	}
	fields[column] = v
	return nil
}

func optionalText(fields map[string]any, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}

func optionalList(fields map[string]any, column string, value *[]string) {
	if value == nil {
		return
	}
	list := datatypes.JSONSlice[string]{}
	if *value != nil {
		list = datatypes.JSONSlice[string](*value)
	}
	fields[column] = list
}
