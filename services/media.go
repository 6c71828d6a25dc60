package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const uploadPrefix = "uploads/"

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// UploadedMedia describes an object stored by Upload
type UploadedMedia struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// MediaStore keeps project/blog images and the resume in S3.
// A nil *MediaStore means storage is not configured; its methods return a 503 error.
type MediaStore struct {
	logger    zerolog.Logger
	objects   objectPutter
	presigner objectPresigner
	bucket    string
	baseURL   string
	resumeKey string
	resumeTTL time.Duration
}

// NewMediaStore connects to S3 when S3_BUCKET is configured, otherwise it returns nil
func NewMediaStore(ctx context.Context, cfg config.Config) (*MediaStore, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return newMediaStore(client, s3.NewPresignClient(client), cfg), nil
}

func newMediaStore(objects objectPutter, presigner objectPresigner, cfg config.Config) *MediaStore {
	baseURL := strings.TrimSuffix(cfg.S3PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.S3Bucket)
	}
	return &MediaStore{
		logger:    log.With().Str("service", "media").Logger(),
		objects:   objects,
		presigner: presigner,
		bucket:    cfg.S3Bucket,
		baseURL:   baseURL,
		resumeKey: cfg.ResumeObjectKey,
		resumeTTL: cfg.ResumeURLTTL,
	}
}

// AllowedMediaType reports whether contentType may be uploaded
func AllowedMediaType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return strings.HasPrefix(ct, "image/") || ct == "application/pdf"
}

// Upload stores body under a fresh key that keeps the file extension and returns its public URL
func (m *MediaStore) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*UploadedMedia, error) {
	if m == nil {
		return nil, errs.NewServiceUnavailableError("media storage")
	}
	if !AllowedMediaType(contentType) {
		return nil, errs.NewInvalidFieldError("file", "only images and PDF files can be uploaded")
	}

	key := uploadPrefix + uuid.NewString() + strings.ToLower(path.Ext(filename))
	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := m.objects.PutObject(ctx, input); err != nil {
		m.logger.Error().Err(err).Str("key", key).Msg("Failed to upload media")
		return nil, errs.NewInternalErrorWithCause("failed to upload media", err)
	}

	return &UploadedMedia{Key: key, URL: m.baseURL + "/" + key}, nil
}

// ResumeURL returns a short-lived link to the resume object
func (m *MediaStore) ResumeURL(ctx context.Context) (string, error) {
	if m == nil || m.resumeKey == "" {
		return "", errs.NewServiceUnavailableError("resume download")
	}
	req, err := m.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.resumeKey),
	}, s3.WithPresignExpires(m.resumeTTL))
	if err != nil {
		m.logger.Error().Err(err).Str("key", m.resumeKey).Msg("Failed to presign resume")
		return "", errs.NewInternalErrorWithCause("failed to presign resume", err)
	}
	return req.URL, nil
}
