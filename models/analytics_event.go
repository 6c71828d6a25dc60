package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventType is the closed set of analytics event kinds
type EventType string

const (
	EventPageView       EventType = "page_view"
	EventProjectClick   EventType = "project_click"
	EventResumeDownload EventType = "resume_download"
	EventContactSubmit  EventType = "contact_submit"
	EventDemoClick      EventType = "demo_click"
)

var eventTypes = map[EventType]struct{}{
	EventPageView:       {},
	EventProjectClick:   {},
	EventResumeDownload: {},
	EventContactSubmit:  {},
	EventDemoClick:      {},
}

// Valid reports whether t is one of the known event types
func (t EventType) Valid() bool {
	_, ok := eventTypes[t]
	return ok
}

// AnalyticsEvent is an append-only tracking record.
//
// Metadata is an open bag and nothing is enforced. Read back from the store,
// values are string, json.Number, bool, nil, []any or map[string]any.
type AnalyticsEvent struct {
	ID          uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Type        EventType         `json:"type" db:"type" gorm:"type:text;not null;index:idx_analytics_type_created,priority:1"`
	Page        string            `json:"page,omitempty" db:"page" gorm:"type:text"`
	ProjectSlug string            `json:"projectSlug,omitempty" db:"project_slug" gorm:"type:text"`
	Metadata    datatypes.JSONMap `json:"metadata" db:"metadata"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at" gorm:"index:idx_analytics_type_created,priority:2;index"`
}

func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Metadata == nil {
		e.Metadata = datatypes.JSONMap{}
	}
	return nil
}
