// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/phantomos/phantomos-backend/internal/config"
)

// StorageService archives imported sales files to S3 so a bad import can be
// audited and replayed. Without AWS credentials it degrades to a no-op
// archive for local development.
type StorageService struct {
	s3Client *s3.S3
	cfg      config.AWSConfig
}

type ArchiveResult struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		// Local development, archive is skipped.
		return &StorageService{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{s3Client: s3.New(sess), cfg: cfg}, nil
}

// ArchiveImport stores the raw uploaded file under
// imports/<publisher>/<date>_<id><ext>.
func (s *StorageService) ArchiveImport(publisherID uuid.UUID, filename string, content []byte) (*ArchiveResult, error) {
	key := fmt.Sprintf("imports/%s/%s_%s%s",
		publisherID,
		time.Now().Format("20060102"),
		uuid.New().String()[:8],
		filepath.Ext(filename),
	)

	if s.s3Client == nil {
		logrus.WithField("key", key).Debug("S3 not configured, skipping import archive")
		return &ArchiveResult{Key: key, Size: int64(len(content))}, nil
	}

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive import to S3: %w", err)
	}

	return &ArchiveResult{Key: key, Size: int64(len(content))}, nil
}

// PresignedURL returns a time-limited download link for an archived import.
func (s *StorageService) PresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}
