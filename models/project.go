package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectMetrics holds the view and click counters shown on the admin project table
type ProjectMetrics struct {
	Views  int `json:"views" db:"views" gorm:"type:integer;not null;default:0"`
	Clicks int `json:"clicks" db:"clicks" gorm:"type:integer;not null;default:0"`
}

// Project represents a showcased project
type Project struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Slug        string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_projects_slug"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Summary     string                      `json:"summary" db:"summary" gorm:"type:text;not null"`
	Description string                      `json:"description" db:"description" gorm:"type:text;not null"`
	CoverImage  string                      `json:"coverImage" db:"cover_image" gorm:"type:text;not null;default:''"`
	Gallery     datatypes.JSONSlice[string] `json:"gallery" db:"gallery"`
	Tags        datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	Tech        datatypes.JSONSlice[string] `json:"tech" db:"tech"`
	Year        *int                        `json:"year,omitempty" db:"year" gorm:"type:integer"`
	Role        string                      `json:"role" db:"role" gorm:"type:text"`
	RepoURL     string                      `json:"repoUrl" db:"repo_url" gorm:"type:text"`
	DemoURL     string                      `json:"demoUrl" db:"demo_url" gorm:"type:text"`
	Featured    bool                        `json:"featured" db:"featured" gorm:"not null;default:false;index"`
	Metrics     ProjectMetrics              `json:"metrics" gorm:"embedded;embeddedPrefix:metrics_"`
	Published   bool                        `json:"published" db:"published" gorm:"not null;default:false;index"`
	CreatedAt   time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time                   `json:"updatedAt" db:"updated_at"`
}

// BeforeCreate assigns an ID and replaces nil collections so they serialize as empty arrays
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Gallery == nil {
		p.Gallery = datatypes.JSONSlice[string]{}
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	if p.Tech == nil {
		p.Tech = datatypes.JSONSlice[string]{}
	}
	return nil
}

// HasTag reports whether the project carries the given tag
func (p Project) HasTag(tag string) bool {
	return containsValue(p.Tags, tag)
}

// UsesTech reports whether the project lists the given technology
func (p Project) UsesTech(tech string) bool {
	return containsValue(p.Tech, tech)
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
