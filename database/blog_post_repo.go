package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns blog posts, most recently published first
func (r *BlogPostRepo) FindAll(ctx context.Context, publishedOnly bool) ([]*models.BlogPost, error) {
	tx := r.db.WithContext(ctx)
	if publishedOnly {
		tx = tx.Where("published = ?", true)
	}

	var blogPosts []*models.BlogPost
	err := tx.Order("COALESCE(published_at, created_at) DESC").Order("created_at DESC").Find(&blogPosts).Error
	return blogPosts, err
}

// FindBySlug returns a blog post by slug, or gorm.ErrRecordNotFound
func (r *BlogPostRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&blogPost).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// SlugExists reports whether any blog post already uses slug
func (r *BlogPostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(blogPost).Error
}

// UpdateFields writes only the given columns of the blog post with id
func (r *BlogPostRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.BlogPost{ID: id}).Updates(fields).Error
}

// DeleteBySlug removes a blog post and reports how many rows were deleted
func (r *BlogPostRepo) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.BlogPost{})
	return res.RowsAffected, res.Error
}

func (r *BlogPostRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&count).Error
	return count, err
}
