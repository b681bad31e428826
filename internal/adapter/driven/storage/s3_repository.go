package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// S3RepositoryImpl uploads finished reports to S3.
type S3RepositoryImpl struct {
	profile string
	console types.ConsoleInterface

	mu  sync.Mutex
	cfg *aws.Config
}

// NewS3Repository creates the uploader. An empty profile uses the default chain.
func NewS3Repository(profile string, console types.ConsoleInterface) repository.UploadRepository {
	return &S3RepositoryImpl{profile: profile, console: console}
}

func (r *S3RepositoryImpl) getAWSConfig(ctx context.Context) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return *r.cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if r.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(r.profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", r.profile, err)
	}
	r.cfg = &cfg
	return cfg, nil
}

// Upload puts localPath under the s3://bucket/prefix given by destURI.
func (r *S3RepositoryImpl) Upload(ctx context.Context, localPath, destURI string) (string, error) {
	bucket, key, err := ParseS3URI(destURI, filepath.Base(localPath))
	if err != nil {
		return "", err
	}

	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return "", err
	}

	identity, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", &types.UpstreamError{Source: "sts", Attempts: 1, Err: fmt.Errorf("error checking AWS identity: %w", err)}
	}
	r.console.LogInfo("Uploading as account %s", aws.ToString(identity.Account))

	file, err := os.Open(localPath)
	if err != nil {
		return "", &types.IOError{Op: "open", Path: localPath, Err: err}
	}
	defer file.Close()

	_, err = s3.NewFromConfig(cfg).PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", &types.UpstreamError{Source: "s3", Attempts: 1, Err: fmt.Errorf("error uploading %s to s3://%s/%s: %w", localPath, bucket, key, err)}
	}

	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// ParseS3URI splits s3://bucket/prefix. A prefix ending in "/" (or empty) gets
// fileName appended; otherwise the prefix is used as the full key.
func ParseS3URI(uri, fileName string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", types.NewValidationError("s3-uri", "expected s3://bucket[/prefix], got %q", uri)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		key = path.Join(key, fileName)
	}
	return u.Host, key, nil
}

func contentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx":
		return xlsxContentType
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
