// Package storage provides object storage for sales-location QR code images.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	businessapp "github.com/pos/backend/internal/application/business"
	infraconfig "github.com/pos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3QRCodeStorage implements QRCodeStorage
var _ businessapp.QRCodeStorage = (*S3QRCodeStorage)(nil)

// S3QRCodeStorage stores QR code images in any S3-compatible backend
// (AWS S3, MinIO, RustFS, etc.)
type S3QRCodeStorage struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// S3QRCodeStorageOption is a functional option for configuring S3QRCodeStorage
type S3QRCodeStorageOption func(*S3QRCodeStorage)

// WithLogger sets a custom logger for S3QRCodeStorage
func WithLogger(logger *zap.Logger) S3QRCodeStorageOption {
	return func(s *S3QRCodeStorage) {
		s.logger = logger
	}
}

// NewS3QRCodeStorage creates a new S3QRCodeStorage from configuration
func NewS3QRCodeStorage(cfg *infraconfig.StorageConfig, opts ...S3QRCodeStorageOption) (*S3QRCodeStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = endpoint + "/" + cfg.Bucket
	}

	storage := &S3QRCodeStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(storage)
	}

	return storage, nil
}

// Upload puts a QR code image and returns its public URL
func (s *S3QRCodeStorage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Uploaded QR code image",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(body)))

	return s.publicURL + "/" + key, nil
}

// Delete removes a QR code image. Deleting a missing key is not an error
// in S3 semantics.
func (s *S3QRCodeStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
