package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"greendrake/storefront/internal/config"
)

// IS3Storage defines the interface for S3 operations on catalog images.
type IS3Storage interface {
	UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error
	GeneratePresignedPutURL(ctx context.Context, itemID, filename, contentType string) (string, string, error)
	NewImageKey(itemID, filename string) string
}

// s3Storage implements IS3Storage.
type s3Storage struct {
	cfg           *config.Config
	s3Client      *s3.Client
	presignClient *s3.PresignClient
}

// NewS3Storage creates a new S3 storage service.
func NewS3Storage(cfg *config.Config) (IS3Storage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)
	return &s3Storage{
		cfg:           cfg,
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
	}, nil
}

// NewImageKey builds a unique object key for a catalog item image.
func (s *s3Storage) NewImageKey(itemID, filename string) string {
	return fmt.Sprintf("catalog/%s/%s_%s", itemID, uuid.NewString(), filename)
}

// UploadObject writes an object to the configured bucket.
func (s *s3Storage) UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// GeneratePresignedPutURL creates a pre-signed URL for uploading a catalog
// image directly from the admin UI. Returns the URL and the object key.
func (s *s3Storage) GeneratePresignedPutURL(ctx context.Context, itemID, filename, contentType string) (string, string, error) {
	objectKey := s.NewImageKey(itemID, filename)

	presignedReq, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned PUT URL for key %s: %w", objectKey, err)
	}

	return presignedReq.URL, objectKey, nil
}
