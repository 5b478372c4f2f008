// Package upload publishes finished voice pack archives to object storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
)

// Uploader is the slice of the S3 transfer manager we use.
// It allows for easy mocking in tests.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Config contains configuration for the S3 publisher.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

// S3Publisher uploads archives to S3-compatible object storage.
type S3Publisher struct {
	bucket   string
	prefix   string
	uploader Uploader
}

// NewS3Publisher creates a publisher from the given configuration.
func NewS3Publisher(ctx context.Context, cfg S3Config) (*S3Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)

	// Custom endpoint for S3-compatible services (R2, MinIO, etc.)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &S3Publisher{
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		uploader: manager.NewUploader(client),
	}, nil
}

// NewS3PublisherWithUploader creates a publisher with a custom uploader.
// This is useful for testing.
func NewS3PublisherWithUploader(bucket, prefix string, uploader Uploader) *S3Publisher {
	return &S3Publisher{
		bucket:   bucket,
		prefix:   prefix,
		uploader: uploader,
	}
}

func (p *S3Publisher) Name() string {
	if p.prefix != "" {
		return fmt.Sprintf("s3(%s/%s)", p.bucket, p.prefix)
	}
	return fmt.Sprintf("s3(%s)", p.bucket)
}

// PublishFile uploads the file at filePath under its base name, prefixed
// with the configured key prefix.
func (p *S3Publisher) PublishFile(ctx context.Context, fsys afero.Fs, filePath string) (err error) {
	f, err := fsys.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	name := path.Base(filePath)
	key := name
	if p.prefix != "" {
		key = path.Join(p.prefix, name)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   f,
	}

	if contentType := contentTypeFromPath(name); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := p.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", p.bucket, key, err)
	}

	return nil
}

// contentTypeFromPath returns the Content-Type based on the file extension.
func contentTypeFromPath(p string) string {
	switch path.Ext(p) {
	case ".gz":
		return "application/gzip"
	case ".zst":
		return "application/zstd"
	case ".tar":
		return "application/x-tar"
	case ".ogg":
		return "audio/ogg"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return ""
	}
}
