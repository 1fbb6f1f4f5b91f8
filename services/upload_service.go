package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"skillConnectAPI/internal/apperr"
	"skillConnectAPI/internal/upload"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type UploadService struct {
	db     *pgxpool.Pool
	client *minio.Client
	cfg    MinioConfig
}

func NewUploadService(db *pgxpool.Pool, cfg MinioConfig) (*UploadService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &UploadService{db: db, client: client, cfg: cfg}, nil
}

// EnsureBucket creates the bucket on first boot.
func (s *UploadService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Save streams one multipart file into object storage under
// <kind>/<uuid><ext> and upserts the metadata row for (email, kind).
// Re-uploading a resume replaces the previous record.
func (s *UploadService) Save(ctx context.Context, kind, email, filename, contentType string, size int64, reader io.Reader) (*upload.Upload, error) {
	ext := filepath.Ext(filename)
	objectKey := fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), ext)

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	publicURL := fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectKey)

	up := &upload.Upload{
		Email:       email,
		Kind:        kind,
		ObjectKey:   objectKey,
		MinioURL:    publicURL,
		Size:        info.Size,
		ContentType: contentType,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO uploads (id, email, kind, object_key, minio_url, size, content_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email, kind)
		DO UPDATE SET object_key = $4, minio_url = $5, size = $6, content_type = $7, created_at = NOW()
		RETURNING id, created_at
	`, uuid.New().String(), email, kind, objectKey, publicURL, info.Size, contentType).Scan(&up.ID, &up.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	return up, nil
}

// GetResume returns the stored resume metadata for an email.
func (s *UploadService) GetResume(ctx context.Context, email string) (*upload.Upload, error) {
	return s.getByKind(ctx, email, upload.KindResume)
}

func (s *UploadService) getByKind(ctx context.Context, email, kind string) (*upload.Upload, error) {
	up := &upload.Upload{}
	err := s.db.QueryRow(ctx, `
		SELECT id, email, kind, object_key, minio_url, size, content_type, created_at
		FROM uploads
		WHERE email = $1 AND kind = $2
	`, email, kind).Scan(&up.ID, &up.Email, &up.Kind, &up.ObjectKey, &up.MinioURL, &up.Size, &up.ContentType, &up.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("No %s found for this email", kind))
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return up, nil
}
