package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const blogPostEntity = "blog post"

// BlogFilter selects which posts List returns
type BlogFilter struct {
	Tag                string
	IncludeUnpublished bool
}

// BlogPostPatch carries the fields of a partial update; nil means "leave as is"
type BlogPostPatch struct {
	Slug        *string    `json:"slug"`
	Title       *string    `json:"title"`
	Summary     *string    `json:"summary"`
	Content     *string    `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	Tags        *[]string  `json:"tags"`
	Author      *string    `json:"author"`
	ReadTime    *int       `json:"readTime"`
	Published   *bool      `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type BlogService struct {
	logger zerolog.Logger
	repo   *database.BlogPostRepo
	now    func() time.Time
}

func NewBlogService(repo *database.BlogPostRepo) *BlogService {
	return &BlogService{
		logger: log.With().Str("service", "blog").Logger(),
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns posts matching filter, most recently published first.
// On a storage failure it returns an empty slice together with the error.
func (s *BlogService) List(ctx context.Context, filter BlogFilter) ([]*models.BlogPost, error) {
	posts, err := s.repo.FindAll(ctx, !filter.IncludeUnpublished)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list blog posts")
		return []*models.BlogPost{}, errs.NewDatabaseError("list", "blog posts", err)
	}

	out := make([]*models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if filter.Tag != "" && !p.HasTag(filter.Tag) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get looks a post up by slug. Drafts are only visible with includeUnpublished.
func (s *BlogService) Get(ctx context.Context, slug string, includeUnpublished bool) (*models.BlogPost, error) {
	post, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published && !includeUnpublished {
		return nil, errs.NewNotFound(blogPostEntity)
	}
	return post, nil
}

// Create validates and stores a new post, deriving the slug, read time and
// publish date when they are missing.
func (s *BlogService) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	post.Title = strings.TrimSpace(post.Title)
	if post.Slug == "" {
		post.Slug = DeriveSlug(post.Title)
	}

	switch {
	case post.Title == "":
		return nil, errs.NewMissingRequiredFieldError("title")
	case post.Slug == "":
		return nil, errs.NewMissingRequiredFieldError("slug")
	case !IsSlug(post.Slug):
		return nil, errs.NewInvalidFieldError("slug", "must contain only lowercase letters, digits and single hyphens")
	case strings.TrimSpace(post.Summary) == "":
		return nil, errs.NewMissingRequiredFieldError("summary")
	case strings.TrimSpace(post.Content) == "":
		return nil, errs.NewMissingRequiredFieldError("content")
	}

	if post.ReadTime < 1 {
		post.ReadTime = EstimateReadTime(post.Content)
	}
	if post.Published && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.ensureSlugFree(ctx, post.Slug); err != nil {
		return nil, err
	}

	post.ID = uuid.Nil
	post.CreatedAt = time.Time{}
	post.UpdatedAt = time.Time{}
	if err := s.repo.Add(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("slug", post.Slug).Msg("Failed to create blog post")
		return nil, errs.NewDatabaseError("create", blogPostEntity, err)
	}
	return s.find(ctx, post.Slug)
}

// Update applies patch to the post with slug, leaving unspecified fields untouched.
// New content without an explicit read time re-estimates it; publishing a post
// that has no publish date stamps the current time.
func (s *BlogService) Update(ctx context.Context, slug string, patch BlogPostPatch) (*models.BlogPost, error) {
	existing, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}

	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	if patch.Content != nil && (patch.ReadTime == nil || *patch.ReadTime < 1) {
		fields["read_time"] = EstimateReadTime(*patch.Content)
	}
	if patch.Published != nil && *patch.Published && patch.PublishedAt == nil && existing.PublishedAt == nil {
		fields["published_at"] = s.now()
	}
	if patch.Slug != nil && *patch.Slug != existing.Slug {
		if err := s.ensureSlugFree(ctx, *patch.Slug); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to update blog post")
		return nil, errs.NewDatabaseError("update", blogPostEntity, err)
	}

	current := existing.Slug
	if patch.Slug != nil {
		current = *patch.Slug
	}
	return s.find(ctx, current)
}

// Delete permanently removes the post with slug
func (s *BlogService) Delete(ctx context.Context, slug string) error {
	n, err := s.repo.DeleteBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to delete blog post")
		return errs.NewDatabaseError("delete", blogPostEntity, err)
	}
	if n == 0 {
		return errs.NewNotFound(blogPostEntity)
	}
	return nil
}

func (s *BlogService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "blog posts", err)
	}
	return n, nil
}

func (s *BlogService) find(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(blogPostEntity)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to find blog post")
		return nil, errs.NewDatabaseError("find", blogPostEntity, err)
	}
	return post, nil
}

func (s *BlogService) ensureSlugFree(ctx context.Context, slug string) error {
	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return errs.NewDatabaseError("check slug of", blogPostEntity, err)
	}
	if taken {
		return errs.NewSlugConflict(blogPostEntity, slug)
	}
	return nil
}

func (p BlogPostPatch) fields() (map[string]any, error) {
	fields := map[string]any{}

	if err := requiredText(fields, "title", "title", p.Title); err != nil {
		return nil, err
	}
	if err := requiredText(fields, "summary", "summary", p.Summary); err != nil {
		return nil, err
	}
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return nil, errs.NewInvalidFieldError("content", "cannot be empty")
		}
		fields["content"] = *p.Content
	}
	if p.Slug != nil {
		if !IsSlug(*p.Slug) {
			return nil, errs.NewInvalidFieldError("slug", "must contain only lowercase letters, digits and single hyphens")
		}
		fields["slug"] = *p.Slug
	}
	if p.Author != nil {
		author := strings.TrimSpace(*p.Author)
		if author == "" {
			author = models.DefaultAuthor
		}
		fields["author"] = author
	}

	optionalText(fields, "cover_image", p.CoverImage)
	optionalList(fields, "tags", p.Tags)

	if p.ReadTime != nil && *p.ReadTime >= 1 {
		fields["read_time"] = *p.ReadTime
	}
	if p.Published != nil {
		fields["published"] = *p.Published
	}
	if p.PublishedAt != nil {
		fields["published_at"] = p.PublishedAt.UTC()
	}
	return fields, nil
}
