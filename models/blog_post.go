package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultAuthor is stored when a post is created without an author
const DefaultAuthor = "Admin"

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Slug        string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_blog_posts_slug"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Summary     string                      `json:"summary" db:"summary" gorm:"type:text;not null"`
	Content     string                      `json:"content" db:"content" gorm:"type:text;not null"`
	CoverImage  string                      `json:"coverImage" db:"cover_image" gorm:"type:text;not null;default:''"`
	Tags        datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	Author      string                      `json:"author" db:"author" gorm:"type:text;not null"`
	ReadTime    int                         `json:"readTime" db:"read_time" gorm:"type:integer;not null;default:1"`
	Published   bool                        `json:"published" db:"published" gorm:"not null;default:false;index"`
	PublishedAt *time.Time                  `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt   time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time                   `json:"updatedAt" db:"updated_at"`
}

// BeforeCreate assigns an ID and fills the schema defaults
func (b *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	if b.Author == "" {
		b.Author = DefaultAuthor
	}
	return nil
}

// HasTag reports whether the post carries the given tag
func (b BlogPost) HasTag(tag string) bool {
	return containsValue(b.Tags, tag)
}
