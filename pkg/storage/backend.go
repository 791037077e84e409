// Package storage provides blob backends for saved station layouts.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("blob not found")

// BlobStore defines the interface for abstract storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// Open returns an S3Store for "s3://bucket/prefix" targets and a LocalStore
// rooted at target otherwise.
func Open(ctx context.Context, target string) (BlobStore, error) {
	bucket, prefix, ok := ParseS3URL(target)
	if !ok {
		return NewLocalStore(target), nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	s := NewS3Store(cfg, bucket)
	s.Prefix = prefix
	return s, nil
}

// ParseS3URL splits "s3://bucket/prefix" into its parts.
func ParseS3URL(target string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(target, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, strings.Trim(prefix, "/"), true
}
