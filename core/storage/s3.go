// Package storage uploads export artifacts to S3.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"parking-rsvp-api/core/config"
	"parking-rsvp-api/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type s3Storage struct {
	client *s3.Client
	bucket string
}

func NewS3(cfg config.AWSConfig) Uploader {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	})
	return &s3Storage{client: client, bucket: cfg.Bucket}
}

// Upload writes the object and returns its key.
func (s *s3Storage) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Storage:Upload:Error", "error", err, "bucket", s.bucket, "key", key)
		return "", fmt.Errorf("upload %s/%s: %w", s.bucket, key, err)
	}
	logger.Info("Storage:Upload:Success", "bucket", s.bucket, "key", key, "bytes", len(body))
	return key, nil
}
