package models

import "gorm.io/gorm"

// All lists every model owned by the content store, in migration order
func All() []any {
	return []any{
		&Project{},
		&BlogPost{},
		&ContactMessage{},
		&AnalyticsEvent{},
	}
}

// AutoMigrate creates or updates the tables for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
