package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OffsiteConfig configures the S3-compatible bucket workbooks are mirrored to.
type OffsiteConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Enabled reports whether a bucket is configured.
func (c OffsiteConfig) Enabled() bool {
	return c.Bucket != ""
}

// objectUploader is the part of manager.Uploader the mirror uses.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Mirror uploads finished workbooks to an S3-compatible bucket.
type S3Mirror struct {
	uploader objectUploader
	bucket   string
	prefix   string
	logger   zerolog.Logger
}

// NewS3Mirror creates an S3Mirror from cfg. Without static keys the default
// AWS credential chain is used.
func NewS3Mirror(ctx context.Context, cfg OffsiteConfig, logger zerolog.Logger) (*S3Mirror, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("offsite bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if cfg.AccessKeyID != "" {
		awsOpts = append(awsOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		endpointURL := fmt.Sprintf("%s://%s", scheme, endpoint)
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.Concurrency = 2
	})

	return newS3Mirror(uploader, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Mirror(uploader objectUploader, bucket, prefix string, logger zerolog.Logger) *S3Mirror {
	return &S3Mirror{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		logger:   logger.With().Str("component", "offsite_mirror").Str("bucket", bucket).Logger(),
	}
}

// Key returns the object key a workbook at path is stored under.
func (m *S3Mirror) Key(path string) string {
	name := filepath.Base(path)
	if m.prefix == "" {
		return name
	}
	return m.prefix + "/" + name
}

// Upload copies the workbook at path to the bucket and returns its s3:// URI.
func (m *S3Mirror) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	key := m.Key(path)
	if _, err := m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(xlsxContentType),
	}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", m.bucket, key)
	m.logger.Debug().Str("uri", uri).Msg("workbook mirrored")
	return uri, nil
}
