package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	appconfig "storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Store implements BlobStore against an S3-compatible bucket. The client
// is built once at startup and injected; it is safe for concurrent use.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	timeout   time.Duration
	signTTL   time.Duration
	logger    *zap.Logger
}

// NewS3Store builds the S3 client from static credentials. Endpoint, when
// set, points the client at an S3-compatible store instead of AWS.
func NewS3Store(ctx context.Context, cfg appconfig.S3Config, logger *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	signTTL := time.Duration(cfg.PresignExpiry) * time.Minute
	if signTTL <= 0 {
		signTTL = DefaultSignedURLTTL
	}

	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		timeout:   timeout,
		signTTL:   signTTL,
		logger:    logger,
	}, nil
}

// Store uploads the payload under the suggested name verbatim and returns
// the object key. A name collision overwrites the existing object.
func (s *S3Store) Store(ctx context.Context, payload []byte, suggestedName string) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrIOFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(suggestedName),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		s.logger.Error("Failed to upload object",
			zap.String("key", suggestedName),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return suggestedName, nil
}

// SignedURL returns a GET URL valid for the store's configured lifetime.
// Legacy full-URL keys are normalized first.
func (s *S3Store) SignedURL(ctx context.Context, key string) (string, error) {
	key = NormalizeKey(key)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.signTTL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return req.URL, nil
}

// Delete removes the object. An empty key is a no-op. The returned error is
// informational only; record deletion must not be blocked by it.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	key = NormalizeKey(key)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return nil
}
