package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"newsblog/internal/logger"
	"newsblog/internal/render"
)

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config selects the destination bucket. Region falls back to the
// standard AWS configuration chain when empty.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	UsePathStyle bool
}

// S3 uploads artifacts to a bucket.
type S3 struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3 builds a publisher from the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3WithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client ObjectPutter, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3) Publish(ctx context.Context, artifacts []render.Artifact) ([]string, error) {
	locations := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		key := path.Base(a.Name)
		if s.prefix != "" {
			key = s.prefix + "/" + key
		}

		in := &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(a.Data),
		}
		if a.ContentType != "" {
			in.ContentType = aws.String(a.ContentType)
		}
		if _, err := s.client.PutObject(ctx, in); err != nil {
			return locations, fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucket, err)
		}

		location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
		logger.Info("Uploaded artifact", "location", location, "bytes", len(a.Data))
		locations = append(locations, location)
	}
	return locations, nil
}
