package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-training-planner/internal/config"
)

// putObjectAPI is the subset of *s3.Client the store needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes artifacts to an S3-compatible bucket. References have the
// form s3://bucket/prefix/key.
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Store creates a client for cfg. A custom endpoint (MinIO and the
// like) switches to path-style addressing. Static credentials are used when
// an access key is configured; otherwise the default AWS chain applies.
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("s3 artifact store initialized")
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Put uploads body under prefix/key.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	objectKey := clean
	if s.prefix != "" {
		objectKey = path.Join(s.prefix, clean)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, objectKey, err)
	}
	return "s3://" + s.bucket + "/" + objectKey, nil
}
