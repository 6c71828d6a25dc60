package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

// ProjectQuery narrows a project listing. Zero value lists everything.
type ProjectQuery struct {
	PublishedOnly bool
	FeaturedOnly  bool
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns the matching projects, newest year first then newest created.
// Projects without a year sort last.
func (r *ProjectRepo) FindAll(ctx context.Context, q ProjectQuery) ([]*models.Project, error) {
	tx := r.db.WithContext(ctx)
	if q.PublishedOnly {
		tx = tx.Where("published = ?", true)
	}
	if q.FeaturedOnly {
		tx = tx.Where("featured = ?", true)
	}

	var projects []*models.Project
	err := tx.Order("COALESCE(year, 0) DESC").Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindBySlug returns a project by slug, or gorm.ErrRecordNotFound
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// SlugExists reports whether any project already uses slug
func (r *ProjectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// UpdateFields writes only the given columns of the project with id
func (r *ProjectRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Project{ID: id}).Updates(fields).Error
}

// DeleteBySlug removes a project and reports how many rows were deleted
func (r *ProjectRepo) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Project{})
	return res.RowsAffected, res.Error
}

// Count returns the number of stored projects
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, err
}
