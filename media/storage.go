package media

//go:generate mockgen -source=storage.go -destination=./mock_media/storage.go

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bounoable/godrive"
)

// DefaultDisk is the disk name that is used when an upload does not specify
// a disk.
const DefaultDisk = "default"

// Storage is a storage for files.
type Storage interface {
	// Disk returns the StorageDisk that was configured with the given name or
	// ErrUnconfiguredDisk if the disk wasn't configured.
	Disk(string) (StorageDisk, error)
}

// StorageDisk is a disk of a Storage.
type StorageDisk interface {
	// Put streams the contents of the Reader to the specified storage path.
	// The mime type is passed to backends that store a content type.
	Put(_ context.Context, path string, _ io.Reader, mimeType string) error

	// Get returns the contents of the file at the specified path or
	// ErrFileNotFound if the file does not exist.
	Get(context.Context, string) ([]byte, error)

	// Exists reports whether a file exists at the specified path.
	Exists(context.Context, string) (bool, error)

	// URL returns the public URL of the file at the specified path. URL
	// returns false if the disk has no public address.
	URL(string) (string, bool)

	// Delete deletes the file at the specified path. Delete returns no error
	// if the specified file does not exist.
	Delete(context.Context, string) error
}

// Presigner is implemented by disks that can hand out time-limited URLs.
type Presigner interface {
	Presign(_ context.Context, path string, ttl time.Duration) (string, error)
}

// Presign returns a presigned URL for the file at path if disk implements
// Presigner. Otherwise path is returned unchanged.
func Presign(ctx context.Context, disk StorageDisk, path string, ttl time.Duration) (string, error) {
	p, ok := disk.(Presigner)
	if !ok {
		return path, nil
	}
	u, err := p.Presign(ctx, path, ttl)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", path, err)
	}
	return u, nil
}

// RemoveLocal removes the local file at path. A file that does not exist is
// not an error.
func RemoveLocal(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// StorageOption is an option for creating a Storage.
type StorageOption func(*storage)

type storage struct {
	mux   sync.RWMutex
	disks map[string]StorageDisk
}

// ConfigureDisk returns a StorageOption that configures a StorageDisk under the
// provided name.
func ConfigureDisk(name string, disk StorageDisk) StorageOption {
	return func(s *storage) {
		s.disks[name] = disk
	}
}

// NewStorage returns a Storage, configured by opts.
func NewStorage(opts ...StorageOption) Storage {
	s := storage{disks: make(map[string]StorageDisk)}
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

func (s *storage) Disk(name string) (StorageDisk, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if disk, ok := s.disks[name]; ok {
		return disk, nil
	}

	return nil, ErrUnconfiguredDisk
}

// BytesDisk is a disk that reads and writes whole files. godrive disks are
// BytesDisks.
type BytesDisk interface {
	Put(context.Context, string, []byte) error
	Get(context.Context, string) ([]byte, error)
	Delete(context.Context, string) error
}

// BytesDiskOption is an option for a StorageDisk that wraps a BytesDisk.
type BytesDiskOption func(*bytesDisk)

// PublicBase returns a BytesDiskOption that serves files under the given base
// URL.
func PublicBase(base string) BytesDiskOption {
	return func(d *bytesDisk) {
		d.publicBase = strings.TrimRight(base, "/")
	}
}

type bytesDisk struct {
	disk       BytesDisk
	publicBase string
}

// WrapBytesDisk returns a StorageDisk that buffers streams into memory before
// handing them to disk. Exists is implemented by Get, so any Get error counts
// as a missing file.
func WrapBytesDisk(disk BytesDisk, opts ...BytesDiskOption) StorageDisk {
	d := bytesDisk{disk: disk}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

func (d *bytesDisk) Put(ctx context.Context, path string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read contents: %w", err)
	}
	return d.disk.Put(ctx, path, b)
}

func (d *bytesDisk) Get(ctx context.Context, path string) ([]byte, error) {
	return d.disk.Get(ctx, path)
}

func (d *bytesDisk) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := d.disk.Get(ctx, path); err != nil {
		return false, nil
	}
	return true, nil
}

func (d *bytesDisk) URL(path string) (string, bool) {
	if d.publicBase == "" {
		return "", false
	}
	return d.publicBase + "/" + strings.TrimLeft(path, "/"), true
}

func (d *bytesDisk) Delete(ctx context.Context, path string) error {
	return d.disk.Delete(ctx, path)
}

type godriveStorage struct {
	manager *godrive.Manager
	opts    []BytesDiskOption
}

// GoDriveStorage returns a Storage that uses `godrive` as the storage engine.
func GoDriveStorage(manager *godrive.Manager, opts ...BytesDiskOption) Storage {
	return &godriveStorage{manager: manager, opts: opts}
}

func (s *godriveStorage) Disk(name string) (StorageDisk, error) {
	disk, err := s.manager.Disk(name)
	if err != nil {
		var unconfiguredError godrive.UnconfiguredDiskError
		if errors.As(err, &unconfiguredError) {
			return nil, ErrUnconfiguredDisk
		}
		return nil, fmt.Errorf("godrive: %w", err)
	}
	return WrapBytesDisk(disk, s.opts...), nil
}

// MemoryDisk is an in-memory StorageDisk.
type MemoryDisk struct {
	mux        sync.RWMutex
	files      map[string][]byte
	mimeTypes  map[string]string
	publicBase string
}

// NewMemoryDisk returns an in-memory StorageDisk. If publicBase is provided,
// URL returns URLs below it.
func NewMemoryDisk(publicBase ...string) *MemoryDisk {
	d := MemoryDisk{
		files:     make(map[string][]byte),
		mimeTypes: make(map[string]string),
	}
	if len(publicBase) > 0 {
		d.publicBase = strings.TrimRight(publicBase[0], "/")
	}
	return &d
}

func (d *MemoryDisk) Put(_ context.Context, path string, r io.Reader, mimeType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return fmt.Errorf("read contents: %w", err)
	}

	d.mux.Lock()
	defer d.mux.Unlock()
	d.files[path] = buf.Bytes()
	d.mimeTypes[path] = mimeType
	return nil
}

func (d *MemoryDisk) Get(_ context.Context, path string) ([]byte, error) {
	d.mux.RLock()
	defer d.mux.RUnlock()
	if b, ok := d.files[path]; ok {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}
	return nil, ErrFileNotFound
}

func (d *MemoryDisk) Exists(_ context.Context, path string) (bool, error) {
	d.mux.RLock()
	defer d.mux.RUnlock()
	_, ok := d.files[path]
	return ok, nil
}

func (d *MemoryDisk) URL(path string) (string, bool) {
	if d.publicBase == "" {
		return "", false
	}
	return d.publicBase + "/" + strings.TrimLeft(path, "/"), true
}

func (d *MemoryDisk) Delete(_ context.Context, path string) error {
	d.mux.Lock()
	defer d.mux.Unlock()
	delete(d.files, path)
	delete(d.mimeTypes, path)
	return nil
}

// MIMEType returns the mime type the file at path was stored with.
func (d *MemoryDisk) MIMEType(path string) string {
	d.mux.RLock()
	defer d.mux.RUnlock()
	return d.mimeTypes[path]
}

// Paths returns the paths of all stored files.
func (d *MemoryDisk) Paths() []string {
	d.mux.RLock()
	defer d.mux.RUnlock()
	paths := make([]string, 0, len(d.files))
	for path := range d.files {
		paths = append(paths, path)
	}
	return paths
}
