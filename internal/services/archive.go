package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/config"
)

type ReportArchive interface {
	// Upload stores a rendered report and returns its object key.
	Upload(ctx context.Context, runID uuid.UUID, report string) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3ReportArchive struct {
	client objectPutter
	bucket string
}

// NewReportArchive connects to an S3-compatible bucket. With an account id set the
// Cloudflare R2 endpoint of that account is used.
func NewReportArchive(ctx context.Context, cfg config.ArchiveConfig) (ReportArchive, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AccountID != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		}
	})

	return newReportArchive(client, cfg.Bucket), nil
}

func newReportArchive(client objectPutter, bucket string) ReportArchive {
	return &s3ReportArchive{client: client, bucket: bucket}
}

func ReportObjectKey(runID uuid.UUID) string {
	return fmt.Sprintf("rankings/%s.csv", runID)
}

// Upload implements ReportArchive.
func (a *s3ReportArchive) Upload(ctx context.Context, runID uuid.UUID, report string) (string, error) {
	key := ReportObjectKey(runID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(report),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	return key, nil
}
