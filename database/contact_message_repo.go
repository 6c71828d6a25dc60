package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ContactMessageRepo struct {
	db *gorm.DB
}

func NewContactMessageRepo(db *gorm.DB) *ContactMessageRepo {
	return &ContactMessageRepo{db}
}

// FindAll returns all messages, newest first
func (r *ContactMessageRepo) FindAll(ctx context.Context) ([]*models.ContactMessage, error) {
	return r.FindRecent(ctx, -1)
}

// FindRecent returns at most limit messages, newest first. A negative limit means no limit.
func (r *ContactMessageRepo) FindRecent(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	var messages []*models.ContactMessage
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// FindByID returns a message by its ID, or gorm.ErrRecordNotFound
func (r *ContactMessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Add inserts a new message into the database
func (r *ContactMessageRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// SetRead writes the read flag and nothing else
func (r *ContactMessageRepo) SetRead(ctx context.Context, id uuid.UUID, read bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("read", read)
	return res.RowsAffected, res.Error
}

// Delete removes a message by id and reports how many rows were deleted
func (r *ContactMessageRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ContactMessage{})
	return res.RowsAffected, res.Error
}

func (r *ContactMessageRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&count).Error
	return count, err
}

func (r *ContactMessageRepo) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("read = ?", false).Count(&count).Error
	return count, err
}
