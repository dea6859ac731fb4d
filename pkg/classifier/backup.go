package classifier

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupConfig configures off-host artifact backups. AccessKey/SecretKey are
// optional; when empty the default AWS credential chain is used. Endpoint
// supports S3-compatible object stores.
type BackupConfig struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// ArtifactBackup uploads saved model artifacts to an S3 bucket.
type ArtifactBackup struct {
	cfg    BackupConfig
	client *s3.Client
}

// NewArtifactBackup builds the S3 client from the backup configuration.
func NewArtifactBackup(ctx context.Context, cfg BackupConfig) (*ArtifactBackup, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("backup bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ArtifactBackup{cfg: cfg, client: client}, nil
}

// Upload copies the artifact file at localPath to the bucket under a
// timestamped key and returns the key.
func (b *ArtifactBackup) Upload(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read artifact for backup: %w", err)
	}

	key := BackupKey(b.cfg.Prefix, path.Base(localPath), time.Now().UTC())
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("upload artifact to s3: %w", err)
	}
	return key, nil
}

// BackupKey builds the object key for an artifact backup.
func BackupKey(prefix, filename string, ts time.Time) string {
	stamped := fmt.Sprintf("%s-%s", ts.Format("20060102T150405Z"), filename)
	if prefix == "" {
		return stamped
	}
	return path.Join(prefix, stamped)
}
