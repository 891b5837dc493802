package image

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/modernice/nice-upload/media"
)

// DefaultTempDir is the directory that a Transformer writes its working files
// to if no other directory is configured.
var DefaultTempDir = filepath.Join(os.TempDir(), "nice-upload", "images")

// Transformer resizes and re-encodes image files. Every transformation reads
// a file and writes its result to a new file, unless told to overwrite.
type Transformer struct {
	codec   Codec
	tempDir string
}

// TransformerOption is an option for a Transformer.
type TransformerOption func(*Transformer)

// WithCodec returns a TransformerOption that replaces the default Codec.
func WithCodec(c Codec) TransformerOption {
	return func(t *Transformer) {
		t.codec = c
	}
}

// TempDir returns a TransformerOption that sets the directory for working
// files. The directory is created on first use.
func TempDir(dir string) TransformerOption {
	return func(t *Transformer) {
		t.tempDir = dir
	}
}

// NewTransformer returns a Transformer that uses ImagingCodec unless another
// Codec is provided.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := Transformer{tempDir: DefaultTempDir}
	for _, opt := range opts {
		opt(&t)
	}
	if t.codec == nil {
		t.codec = ImagingCodec(NewEncoder())
	}
	return &t
}

// ResizeOption is an option for ResizeToMaxBounds.
type ResizeOption func(*resizeConfig)

type resizeConfig struct {
	bounds    Bounds
	widthSet  bool
	heightSet bool
	overwrite bool
	saveTo    string
}

// MaxWidth returns a ResizeOption that bounds the width of the image.
func MaxWidth(width int) ResizeOption {
	return func(cfg *resizeConfig) {
		cfg.bounds.MaxWidth = width
		cfg.widthSet = true
	}
}

// MaxHeight returns a ResizeOption that bounds the height of the image.
func MaxHeight(height int) ResizeOption {
	return func(cfg *resizeConfig) {
		cfg.bounds.MaxHeight = height
		cfg.heightSet = true
	}
}

// WithinBounds returns a ResizeOption that sets both bounds at once.
func WithinBounds(b Bounds) ResizeOption {
	return func(cfg *resizeConfig) {
		MaxWidth(b.MaxWidth)(cfg)
		MaxHeight(b.MaxHeight)(cfg)
	}
}

// Overwrite returns a ResizeOption that writes the result back to the
// source file.
func Overwrite() ResizeOption {
	return func(cfg *resizeConfig) {
		cfg.overwrite = true
	}
}

// SaveTo returns a ResizeOption that writes the result to path instead of a
// new working file. Overwrite takes precedence.
func SaveTo(path string) ResizeOption {
	return func(cfg *resizeConfig) {
		cfg.saveTo = path
	}
}

// ResizeToMaxBounds scales the image at src down so that it fits within the
// configured bounds and returns the path of the result. Only bounds that are
// exceeded constrain the image; the aspect ratio is preserved. The result is
// written even if no resize was necessary, which re-encodes the image.
//
// ResizeToMaxBounds returns media.ErrInvalidDimension if a bound is not
// positive, media.ErrImageDecodeFailed if src is not an image and
// media.ErrWriteFailed if the result cannot be written.
func (t *Transformer) ResizeToMaxBounds(src string, opts ...ResizeOption) (string, error) {
	var cfg resizeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.widthSet && cfg.bounds.MaxWidth <= 0 {
		return "", fmt.Errorf("max width %d: %w", cfg.bounds.MaxWidth, media.ErrInvalidDimension)
	}

	if cfg.heightSet && cfg.bounds.MaxHeight <= 0 {
		return "", fmt.Errorf("max height %d: %w", cfg.bounds.MaxHeight, media.ErrInvalidDimension)
	}

	h, err := t.decode(src)
	if err != nil {
		return "", err
	}

	dest := cfg.saveTo
	if cfg.overwrite {
		dest = src
	}
	if dest == "" {
		ext := strings.TrimPrefix(filepath.Ext(src), ".")
		if ext == "" {
			ext = h.Format
		}
		if dest, err = t.tempPath(ext); err != nil {
			return "", err
		}
	}

	if target, ok := cfg.bounds.Target(h.Dimensions()); ok {
		h = t.codec.Resize(h, target.Width, target.Height)
	}

	if err := t.save(h, dest, 0); err != nil {
		return "", err
	}

	return dest, nil
}

// ConvertFormat re-encodes the image at src into the given format and returns
// the path of the new working file, which has the format as its extension.
// Quality is passed to the encoder; lossless formats ignore it.
//
// ConvertFormat returns media.ErrUnsupportedFormat if format is not one of
// Formats.
func (t *Transformer) ConvertFormat(src, format string, quality int) (string, error) {
	if !Supported(format) {
		return "", fmt.Errorf("convert to %q: %w", format, media.ErrUnsupportedFormat)
	}

	h, err := t.decode(src)
	if err != nil {
		return "", err
	}
	h.Format = format

	dest, err := t.tempPath(format)
	if err != nil {
		return "", err
	}

	if err := t.save(h, dest, quality); err != nil {
		return "", err
	}

	return dest, nil
}

// DeriveThumbnail writes a copy of the image at src that fits within
// size x size to a new working file and returns its path.
func (t *Transformer) DeriveThumbnail(src string, size int) (string, error) {
	return t.ResizeToMaxBounds(src, WithinBounds(Square(size)))
}

// Classify returns the Kind of the file at path.
func (t *Transformer) Classify(path string) Kind {
	return Classify(path)
}

func (t *Transformer) decode(path string) (Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return Handle{}, fmt.Errorf("%s: %w", path, media.ErrSourceFileMissing)
	}

	h, err := t.codec.Decode(path)
	if err != nil {
		return Handle{}, fmt.Errorf("decode %s: %w: %v", path, media.ErrImageDecodeFailed, err)
	}

	return h, nil
}

func (t *Transformer) save(h Handle, path string, quality int) error {
	if err := t.codec.Save(h, path, quality); err != nil {
		return fmt.Errorf("save %s: %w: %v", path, media.ErrWriteFailed, err)
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err == nil {
			err = errors.New("is a directory")
		}
		return fmt.Errorf("save %s: %w: %v", path, media.ErrWriteFailed, err)
	}

	return nil
}

func (t *Transformer) tempPath(ext string) (string, error) {
	if err := os.MkdirAll(t.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp directory %s: %w: %v", t.tempDir, media.ErrWriteFailed, err)
	}
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(t.tempDir, name), nil
}
