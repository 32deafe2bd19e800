package slot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 stores the document as a single object in an S3-compatible bucket
// (AWS S3 or MinIO).
type S3 struct {
	client s3API
	bucket string
	key    string
}

// s3API is the subset of the S3 client the slot needs; tests substitute it.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds explicit construction parameters, mostly for tests. Prod
// configuration comes from environment variables.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; enables a custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//   RIMBORSIKM_SLOT_DRIVER=s3
//   RIMBORSIKM_SLOT_S3_BUCKET=<bucket> (required)
//   RIMBORSIKM_SLOT_S3_REGION=<region> (default us-east-1)
//   RIMBORSIKM_SLOT_S3_ENDPOINT=<url> (optional, for MinIO)
//   RIMBORSIKM_SLOT_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// NewS3 creates an S3 slot from S3Config.
func NewS3(ctx context.Context, cfg S3Config, key string) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket, key: key}, nil
}

// OpenS3FromEnv constructs an S3 slot from process environment.
func OpenS3FromEnv(ctx context.Context, key string) (*S3, error) {
	bucket := os.Getenv("RIMBORSIKM_SLOT_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("RIMBORSIKM_SLOT_S3_BUCKET required for s3 driver")
	}
	cfg := S3Config{
		Bucket:    bucket,
		Region:    os.Getenv("RIMBORSIKM_SLOT_S3_REGION"),
		Endpoint:  os.Getenv("RIMBORSIKM_SLOT_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("RIMBORSIKM_SLOT_S3_PATH_STYLE"), "true"),
	}
	return NewS3(ctx, cfg, key)
}

func (s *S3) Driver() Driver { return DriverS3 }

func (s *S3) Read(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()
	return io.ReadAll(out.Body)
}

func (s *S3) Write(ctx context.Context, payload []byte) error {
	contentType := "application/json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	return err
}
