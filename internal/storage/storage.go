package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedURL string, err error)
}

type Deleter interface {
	Delete(ctx context.Context, objectName string) error
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

// Store is what the services need from a bucket.
type Store interface {
	Uploader
	Deleter
}

type Options struct {
	Driver          string // gcs|s3
	Bucket          string
	Region          string
	CredentialsFile string
}

// New opens the backend named by opts.Driver.
func New(ctx context.Context, opts Options) (Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not set")
	}
	switch opts.Driver {
	case "gcs", "":
		return NewGCSUploader(ctx, opts.Bucket, opts.CredentialsFile)
	case "s3":
		return NewS3Uploader(opts.Bucket, opts.Region)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// ObjectName builds "<prefix>/<owner>/<uuid><ext>", keeping the extension of the original file name.
func ObjectName(prefix, owner, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return prefix + "/" + owner + "/" + uuid.NewString() + ext
}
