// Package s3 provides a media.StorageDisk for S3-compatible object stores
// (AWS S3, MinIO, ...).
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/modernice/nice-upload/media"
)

// Config configures a Disk.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool

	// PublicBase is the browser-accessible base URL of the bucket, e.g.
	// "https://cdn.example.com/uploads". URL returns false if it is empty.
	PublicBase string
}

// Disk is a media.StorageDisk that stores files as objects in a bucket.
type Disk struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// New returns a Disk for the bucket described by cfg. New does not connect
// to the object store; use EnsureBucket to create the bucket on startup.
func New(cfg Config) (*Disk, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return NewDisk(client, cfg.Bucket, cfg.PublicBase), nil
}

// NewDisk returns a Disk that uses an existing client.
func NewDisk(client *minio.Client, bucket, publicBase string) *Disk {
	return &Disk{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// EnsureBucket creates the bucket if it does not exist.
func (d *Disk) EnsureBucket(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", d.bucket, err)
	}
	return nil
}

// Put streams r into the object at path. If r is a file, its size is passed
// to the object store; otherwise the upload is buffered by the client.
func (d *Disk) Put(ctx context.Context, path string, r io.Reader, mimeType string) error {
	size := int64(-1)
	if f, ok := r.(interface{ Stat() (os.FileInfo, error) }); ok {
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
	}

	if _, err := d.client.PutObject(ctx, d.bucket, key(path), r, size, minio.PutObjectOptions{
		ContentType: mimeType,
	}); err != nil {
		return fmt.Errorf("put object %q: %w", key(path), err)
	}

	return nil
}

func (d *Disk) Get(ctx context.Context, path string) ([]byte, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, key(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key(path), err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, media.ErrFileNotFound
		}
		return nil, fmt.Errorf("read object %q: %w", key(path), err)
	}

	return b, nil
}

func (d *Disk) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := d.client.StatObject(ctx, d.bucket, key(path), minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %q: %w", key(path), err)
	}
	return true, nil
}

func (d *Disk) URL(path string) (string, bool) {
	if d.publicBase == "" {
		return "", false
	}
	return d.publicBase + "/" + key(path), true
}

func (d *Disk) Delete(ctx context.Context, path string) error {
	if err := d.client.RemoveObject(ctx, d.bucket, key(path), minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", key(path), err)
	}
	return nil
}

// Presign returns a URL that grants read access to the object at path for
// the given duration.
func (d *Disk) Presign(ctx context.Context, path string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedGetObject(ctx, d.bucket, key(path), ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key(path), err)
	}
	return u.String(), nil
}

func key(path string) string {
	return strings.TrimLeft(path, "/")
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
	}
	return false
}
