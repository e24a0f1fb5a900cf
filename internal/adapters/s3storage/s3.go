package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"reportfetch/internal/core/domain"
)

// Config holds the S3 archive settings.
type Config struct {
	Bucket    string
	Region    string
	KeyPrefix string
	// Endpoint overrides the AWS endpoint, for S3-compatible object
	// stores and for tests.
	Endpoint string
	// Static credentials; when empty the default ambient AWS chain is
	// used, mirroring how the report fetch itself authenticates.
	AccessKeyID     string
	SecretAccessKey string
	Timeout         time.Duration
}

// Storage implements ports.Storage against an S3 bucket, for
// deployments that archive fetched reports to object storage instead
// of a local directory.
type Storage struct {
	client *s3.Client
	cfg    Config
	logger *log.Logger
}

// New creates an S3-backed storage adapter.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	return &Storage{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = true
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		}),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Save uploads the report body to s3://<bucket>/<prefix>/<filename> and
// verifies the object exists afterwards. The body is buffered first so
// the upload has a known content length.
func (s *Storage) Save(ctx context.Context, job domain.ReportJob, filename string, r io.Reader) (string, error) {
	key := path.Join(s.cfg.KeyPrefix, job.NamePrefix, filename)

	buf := &bytes.Buffer{}
	n, err := io.Copy(buf, r)
	if err != nil {
		return "", domain.NewNetworkError("read report body",
			fmt.Errorf("failed to read body for %s: %w", key, err))
	}
	if n == 0 {
		return "", domain.NewVerificationError("verify payload",
			fmt.Errorf("report body for %s is empty", key))
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", domain.NewFilesystemError("put object",
			fmt.Errorf("failed to put s3://%s/%s: %w", s.cfg.Bucket, key, err))
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", domain.NewVerificationError("verify object",
			fmt.Errorf("object s3://%s/%s absent after upload: %w", s.cfg.Bucket, key, err))
	}

	location := "s3://" + s.cfg.Bucket + "/" + key
	s.logger.Printf("Archived %d bytes to %s", n, location)
	return location, nil
}

func buildAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	optFns = append(optFns, awsconfig.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))

	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}
