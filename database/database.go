package database

import (
	"context"
	"fmt"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db                 *gorm.DB
	projectRepo        *ProjectRepo
	blogPostRepo       *BlogPostRepo
	contactMessageRepo *ContactMessageRepo
	analyticsEventRepo *AnalyticsEventRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                 db,
		projectRepo:        NewProjectRepo(db),
		blogPostRepo:       NewBlogPostRepo(db),
		contactMessageRepo: NewContactMessageRepo(db),
		analyticsEventRepo: NewAnalyticsEventRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) ContactMessageRepo() *ContactMessageRepo {
	return d.contactMessageRepo
}

func (d Database) AnalyticsEventRepo() *AnalyticsEventRepo {
	return d.analyticsEventRepo
}

// Migrate creates or updates every collection's table and indexes
func (d Database) Migrate() error {
	if err := models.AutoMigrate(d.db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is alive
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
