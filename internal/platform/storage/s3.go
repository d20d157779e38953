package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"peopledesk/internal/platform/config"
)

const presignTTL = 15 * time.Minute

// S3 issues presigned PUT/GET URLs for document content. Works against
// AWS or any S3-compatible endpoint (e.g. MinIO) via S3_BASE_ENDPOINT.
type S3 struct {
	cfg config.Config
}

func NewS3(cfg config.Config) *S3 {
	return &S3{cfg: cfg}
}

func (s *S3) Configured() bool {
	return s.cfg.S3Configured()
}

// NewObjectKey returns a date-partitioned random object key.
func NewObjectKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("documents/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.NewString())
}

func (s *S3) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.S3AccessKey,
			s.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.S3BaseEndpoint)
		}
	})
	return s3.NewPresignClient(client), nil
}

// PresignPut returns an upload URL for the given object key.
func (s *S3) PresignPut(ctx context.Context, key string) (string, error) {
	client, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}
	req, err := client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignGet returns a download URL for the given object key.
func (s *S3) PresignGet(ctx context.Context, key string) (string, error) {
	client, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}
	req, err := client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
