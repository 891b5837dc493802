// Package local provides a media.StorageDisk that stores files in a directory
// of the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/modernice/nice-upload/media"
)

// Disk is a media.StorageDisk backed by a root directory.
type Disk struct {
	root    string
	baseURL string
	perm    os.FileMode
}

// Option is a Disk option.
type Option func(*Disk)

// BaseURL returns an Option that makes the Disk serve its files under the
// given base URL.
func BaseURL(url string) Option {
	return func(d *Disk) {
		d.baseURL = strings.TrimRight(url, "/")
	}
}

// DirPerm returns an Option that sets the permissions for created
// directories. Default is 0755.
func DirPerm(perm os.FileMode) Option {
	return func(d *Disk) {
		d.perm = perm
	}
}

// NewDisk returns a Disk that stores its files below root.
func NewDisk(root string, opts ...Option) *Disk {
	d := Disk{
		root: strings.TrimRight(root, "/"),
		perm: 0o755,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// Root returns the root directory of the Disk.
func (d *Disk) Root() string {
	return d.root
}

// Path resolves the storage path to an absolute filesystem path.
func (d *Disk) Path(path string) string {
	return d.root + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (d *Disk) Put(_ context.Context, path string, r io.Reader, _ string) error {
	full := d.Path(path)

	if err := os.MkdirAll(filepath.Dir(full), d.perm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return fmt.Errorf("write %q: %w", path, err)
	}

	return f.Close()
}

func (d *Disk) Get(_ context.Context, path string) ([]byte, error) {
	b, err := os.ReadFile(d.Path(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, media.ErrFileNotFound
		}
		return nil, err
	}
	return b, nil
}

func (d *Disk) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(d.Path(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (d *Disk) URL(path string) (string, bool) {
	if d.baseURL == "" {
		return "", false
	}
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/"), true
}

func (d *Disk) Delete(_ context.Context, path string) error {
	return media.RemoveLocal(d.Path(path))
}
