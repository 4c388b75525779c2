package corpus

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// S3Config describes where the corpus object lives. Endpoint is optional and
// points the client at an S3-compatible store such as Cloudflare R2.
type S3Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// R2Endpoint returns the S3 endpoint of a Cloudflare R2 account.
func R2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// S3Fetcher reads objects from a bucket.
type S3Fetcher struct {
	client *s3.Client
	bucket string
}

// NewS3Fetcher builds an S3 client from static credentials, or the default chain when none are set.
func NewS3Fetcher(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Fetcher{client: client, bucket: cfg.Bucket}, nil
}

// Fetch opens the object body. The caller closes it.
func (f *S3Fetcher) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}

// ObjectSource reads the corpus from a single object in remote storage.
type ObjectSource struct {
	fetcher ports.ObjectFetcher
	key     string
}

// NewObjectSource creates a source for key.
func NewObjectSource(fetcher ports.ObjectFetcher, key string) *ObjectSource {
	return &ObjectSource{fetcher: fetcher, key: key}
}

// Examples downloads and parses the object.
func (s *ObjectSource) Examples(ctx context.Context) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, s.key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	examples, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", s.key, err)
	}
	return examples, nil
}

// Name returns the object key.
func (s *ObjectSource) Name() string { return "object:" + s.key }
