package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/modernice/nice-upload/media"
	"github.com/modernice/nice-upload/media/image"
)

// DefaultMaxMemory is the number of bytes of a multipart form that are kept
// in memory while parsing. The rest is stored in temporary files.
const DefaultMaxMemory = 32 << 20

// MethodOverrideField is the form field that turns a POST into a PUT.
const MethodOverrideField = "_method"

// Source provides the file of an upload.
type Source interface {
	// Resolve makes the file available as a local file. Copies are created in
	// tempDir and removed by Resolved.Release.
	Resolve(ctx context.Context, tempDir string) (Resolved, error)
}

// Resolved is a resolved Source.
type Resolved struct {
	// Path is the local path of the file.
	Path string

	// Name is the original file name.
	Name string

	// MIMEType is the sniffed mime type of the file.
	MIMEType string

	// Size is the size of the file in bytes.
	Size int64

	release func() error
}

// Release removes the local copy of the file, if one was made.
func (r Resolved) Release() error {
	if r.release == nil {
		return nil
	}
	return r.release()
}

// FormField returns a Source for the file in the given multipart form field
// of req.
//
// For a POST, or a POST with "_method" set to "PUT", the field must contain a
// file; otherwise Resolve fails with media.ErrFieldNotFound. For a real PUT,
// Resolve fails with media.ErrFieldNotFound if the field is missing and with
// media.ErrNotAFile if the field holds a plain value.
func FormField(req *http.Request, field string) Source {
	return formSource{req: req, field: field}
}

type formSource struct {
	req   *http.Request
	field string
}

func (s formSource) Resolve(ctx context.Context, tempDir string) (Resolved, error) {
	if err := s.req.ParseMultipartForm(DefaultMaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return Resolved{}, fmt.Errorf("parse form: %w", err)
	}

	fh := s.file()

	if s.createStyle() {
		if fh == nil {
			return Resolved{}, fmt.Errorf("field %q: %w", s.field, media.ErrFieldNotFound)
		}
		return UploadedFile(fh).Resolve(ctx, tempDir)
	}

	if fh == nil {
		if s.hasValue() {
			return Resolved{}, fmt.Errorf("field %q: %w", s.field, media.ErrNotAFile)
		}
		return Resolved{}, fmt.Errorf("field %q: %w", s.field, media.ErrFieldNotFound)
	}

	return UploadedFile(fh).Resolve(ctx, tempDir)
}

func (s formSource) createStyle() bool {
	if s.req.Method != http.MethodPut {
		return true
	}
	return strings.EqualFold(s.req.FormValue(MethodOverrideField), http.MethodPut)
}

func (s formSource) file() *multipart.FileHeader {
	if s.req.MultipartForm == nil {
		return nil
	}
	files := s.req.MultipartForm.File[s.field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func (s formSource) hasValue() bool {
	return s.req.FormValue(s.field) != ""
}

// UploadedFile returns a Source for an already parsed multipart file. The
// file is copied into the temporary directory so that it has a local path.
func UploadedFile(fh *multipart.FileHeader) Source {
	return uploadedSource{fh: fh}
}

type uploadedSource struct {
	fh *multipart.FileHeader
}

func (s uploadedSource) Resolve(_ context.Context, tempDir string) (Resolved, error) {
	if s.fh == nil {
		return Resolved{}, media.ErrSourceNotConfigured
	}

	f, err := s.fh.Open()
	if err != nil {
		return Resolved{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	path, err := spool(f, tempDir, filepath.Ext(s.fh.Filename))
	if err != nil {
		return Resolved{}, err
	}

	mimeType, err := image.DetectMIME(path)
	if err != nil {
		mimeType = s.fh.Header.Get("Content-Type")
	}

	return Resolved{
		Path:     path,
		Name:     filepath.Base(s.fh.Filename),
		MIMEType: mimeType,
		Size:     s.fh.Size,
		release:  func() error { return media.RemoveLocal(path) },
	}, nil
}

// LocalFile returns a Source for the local file at path. The file is used in
// place and never removed.
func LocalFile(path string) Source {
	return localSource{path: path}
}

type localSource struct {
	path string
}

func (s localSource) Resolve(context.Context, string) (Resolved, error) {
	info, err := os.Stat(s.path)
	if err != nil || info.IsDir() {
		return Resolved{}, fmt.Errorf("%s: %w", s.path, media.ErrSourceFileMissing)
	}

	mimeType, err := image.DetectMIME(s.path)
	if err != nil {
		return Resolved{}, fmt.Errorf("detect mime type: %w", err)
	}

	return Resolved{
		Path:     s.path,
		Name:     info.Name(),
		MIMEType: mimeType,
		Size:     info.Size(),
	}, nil
}

func spool(r io.Reader, tempDir, ext string) (string, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}

	path := filepath.Join(tempDir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("copy to temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return path, nil
}
