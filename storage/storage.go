// Package storage uploads rendered documents to an S3-compatible object
// store and builds their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ContentType is the content type of every uploaded document.
const ContentType = "application/pdf"

// ErrNotConfigured is returned when required store options are missing.
var ErrNotConfigured = errors.New("storage: not configured")

// Object describes an uploaded document.
type Object struct {
	Key  string
	URL  string
	Size int64
}

// Store puts a local file under key and returns the stored object.
type Store interface {
	Put(ctx context.Context, key, filePath string) (Object, error)
}

// Options configures an S3 store.
type Options struct {
	Endpoint  string // host[:port]; defaults to s3.amazonaws.com
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	BaseURL   string // public URL prefix; defaults to the AWS virtual-host URL
}

// DefaultEndpoint is the AWS S3 endpoint.
const DefaultEndpoint = "s3.amazonaws.com"

func (o Options) validate() error {
	var missing []string
	if o.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if o.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if o.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// S3 stores documents in a bucket with public-read access.
type S3 struct {
	client *minio.Client
	opts   Options
}

var _ Store = (*S3)(nil)

// NewS3 creates a store client. It does not contact the server.
func NewS3(opts Options) (*S3, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: client: %w", err)
	}
	return &S3{client: client, opts: opts}, nil
}

// Put uploads filePath as key.
func (s *S3) Put(ctx context.Context, key, filePath string) (Object, error) {
	info, err := s.client.FPutObject(ctx, s.opts.Bucket, key, filePath, minio.PutObjectOptions{
		ContentType:  ContentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return Object{}, fmt.Errorf("storage: put %s: %w", key, err)
	}
	return Object{Key: key, URL: s.URL(key), Size: info.Size}, nil
}

// URL returns the public URL of key.
func (s *S3) URL(key string) string {
	return PublicURL(s.opts.BaseURL, s.opts.Bucket, s.opts.Region, key)
}

// PublicURL joins key to base, or builds the AWS virtual-host URL
// https://<bucket>.s3.<region>.amazonaws.com/<key> when base is empty.
func PublicURL(base, bucket, region, key string) string {
	if base != "" {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
	}
	if region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// NewKey returns a fresh object key of the form <prefix>/<uuid>.pdf.
func NewKey(prefix string) string {
	name := uuid.NewString() + ".pdf"
	if prefix = strings.Trim(prefix, "/"); prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
