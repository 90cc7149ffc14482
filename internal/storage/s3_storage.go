package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// IS3Storage defines the interface for S3 operations.
type IS3Storage interface {
	GeneratePresignedPutURL(ctx context.Context, kind models.ResourceKind, resourceID, filename, contentType string) (string, string, error)
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
		// Static credentials from config for simplicity; prefer IAM roles in
		// a real deployment.
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
	presignClient := s3.NewPresignClient(s3Client)

	return &s3Storage{
		cfg:           cfg,
		s3Client:      s3Client,
		presignClient: presignClient,
	}, nil
}

// GeneratePresignedPutURL creates a pre-signed URL for uploading a catalog
// photo. It returns the URL and the generated S3 object key. The key lands
// under uploads/ so the processing task can tell raw uploads from processed
// photos.
func (s *s3Storage) GeneratePresignedPutURL(ctx context.Context, kind models.ResourceKind, resourceID, filename, contentType string) (string, string, error) {
	key := fmt.Sprintf("uploads/%s/%s/%s%s", kind, resourceID, uuid.NewString(), path.Ext(filename))

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	return req.URL, key, nil
}
