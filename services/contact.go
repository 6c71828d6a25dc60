package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const contactEntity = "message"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like local@domain.tld with no whitespace
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// ContactInput is the public contact form payload
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	// Page is where the form was submitted from; it is only used for analytics
	Page string `json:"page"`
}

type ContactService struct {
	logger   zerolog.Logger
	repo     *database.ContactMessageRepo
	tracker  *Tracker
	notifier *Notifier
}

// NewContactService builds the service. tracker and notifier may be nil.
func NewContactService(repo *database.ContactMessageRepo, tracker *Tracker, notifier *Notifier) *ContactService {
	return &ContactService{
		logger:   log.With().Str("service", "contact").Logger(),
		repo:     repo,
		tracker:  tracker,
		notifier: notifier,
	}
}

// Create validates and stores a new unread message, then records a contact_submit
// event and notifies the owner in the background.
func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	body := strings.TrimSpace(in.Message)

	switch {
	case name == "":
		return nil, errs.NewMissingRequiredFieldError("name")
	case email == "":
		return nil, errs.NewMissingRequiredFieldError("email")
	case body == "":
		return nil, errs.NewMissingRequiredFieldError("message")
	case !ValidEmail(email):
		return nil, errs.NewInvalidFieldError("email", "invalid email address")
	}

	msg := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Message: body,
		Read:    false,
	}
	if err := s.repo.Add(ctx, msg); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store contact message")
		return nil, errs.NewDatabaseError("create", contactEntity, err)
	}

	s.tracker.Track(EventInput{
		Type:     models.EventContactSubmit,
		Page:     in.Page,
		Metadata: map[string]any{"hasSubject": msg.Subject != ""},
	})
	s.notifier.ContactReceived(*msg)

	return msg, nil
}

// List returns all messages, newest first
func (s *ContactService) List(ctx context.Context) ([]*models.ContactMessage, error) {
	messages, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list contact messages")
		return []*models.ContactMessage{}, errs.NewDatabaseError("list", "messages", err)
	}
	return messages, nil
}

// Recent returns at most limit messages, newest first
func (s *ContactService) Recent(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	messages, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return []*models.ContactMessage{}, errs.NewDatabaseError("list", "messages", err)
	}
	return messages, nil
}

// Get returns message id
func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return s.find(ctx, id)
}

// SetRead sets the read flag of message id. A nil read flips the current value.
func (s *ContactService) SetRead(ctx context.Context, id uuid.UUID, read *bool) (*models.ContactMessage, error) {
	msg, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next := !msg.Read
	if read != nil {
		next = *read
	}

	n, err := s.repo.SetRead(ctx, id, next)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("Failed to update contact message")
		return nil, errs.NewDatabaseError("update", contactEntity, err)
	}
	if n == 0 {
		return nil, errs.NewNotFound(contactEntity)
	}
	return s.find(ctx, id)
}

// Delete permanently removes message id
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("Failed to delete contact message")
		return errs.NewDatabaseError("delete", contactEntity, err)
	}
	if n == 0 {
		return errs.NewNotFound(contactEntity)
	}
	return nil
}

func (s *ContactService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "messages", err)
	}
	return n, nil
}

func (s *ContactService) CountUnread(ctx context.Context) (int64, error) {
	n, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "unread messages", err)
	}
	return n, nil
}

func (s *ContactService) find(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(contactEntity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", contactEntity, err)
	}
	return msg, nil
}
