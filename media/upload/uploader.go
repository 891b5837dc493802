package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modernice/nice-upload/media"
	"github.com/modernice/nice-upload/media/image"
	"go.uber.org/zap"
)

// DefaultTempDir is the directory for copies of uploaded files.
var DefaultTempDir = filepath.Join(os.TempDir(), "nice-upload", "uploads")

// Transformer transforms image files. *image.Transformer implements
// Transformer.
type Transformer interface {
	ResizeToMaxBounds(src string, opts ...image.ResizeOption) (string, error)
	ConvertFormat(src, format string, quality int) (string, error)
	DeriveThumbnail(src string, size int) (string, error)
	Classify(path string) image.Kind
}

// Uploader uploads files to the disks of a Storage. An Uploader holds no
// state between uploads and can be used concurrently.
type Uploader struct {
	storage     media.Storage
	transformer Transformer
	names       NameGenerator
	log         *zap.Logger
	now         func() time.Time
	tempDir     string
	presignTTL  time.Duration
}

// UploaderOption is an option for an Uploader.
type UploaderOption func(*Uploader)

// WithTransformer returns an UploaderOption that sets the image Transformer.
func WithTransformer(t Transformer) UploaderOption {
	return func(u *Uploader) {
		u.transformer = t
	}
}

// WithNames returns an UploaderOption that sets the NameGenerator. The default
// is StorageNames.
func WithNames(g NameGenerator) UploaderOption {
	return func(u *Uploader) {
		u.names = g
	}
}

// WithLogger returns an UploaderOption that sets the logger.
func WithLogger(l *zap.Logger) UploaderOption {
	return func(u *Uploader) {
		u.log = l
	}
}

// WithClock returns an UploaderOption that sets the clock for dated
// directories and file name prefixes.
func WithClock(now func() time.Time) UploaderOption {
	return func(u *Uploader) {
		u.now = now
	}
}

// WithTempDir returns an UploaderOption that sets the directory for copies of
// uploaded files.
func WithTempDir(dir string) UploaderOption {
	return func(u *Uploader) {
		u.tempDir = dir
	}
}

// PresignURLs returns an UploaderOption that addresses files on disks that
// implement media.Presigner by presigned URLs with the given lifetime instead
// of their public URL.
func PresignURLs(ttl time.Duration) UploaderOption {
	return func(u *Uploader) {
		u.presignTTL = ttl
	}
}

// NewUploader returns an Uploader for the given Storage.
func NewUploader(storage media.Storage, opts ...UploaderOption) *Uploader {
	u := Uploader{
		storage: storage,
		log:     zap.NewNop(),
		now:     time.Now,
		tempDir: DefaultTempDir,
	}
	for _, opt := range opts {
		opt(&u)
	}
	if u.transformer == nil {
		u.transformer = image.NewTransformer()
	}
	if u.names == nil {
		u.names = StorageNames(NameClock(u.now), NameLogger(u.log))
	}
	return &u
}

// Upload uploads the file of the Request.
//
// Invalid requests fail immediately. An error of the storage disk while
// writing the file is returned as an error that wraps both
// media.ErrWriteFailed and the disk error. If the disk accepts the file but
// does not report it as existing afterwards, Upload returns a Result that is
// not successful and no error.
//
// If a thumbnail is requested and the file is an image, the thumbnail is
// stored in the "thumbs" sub-directory under the same name. A thumbnail that
// cannot be stored does not fail the upload; the Result just has no
// thumbnail path.
func (u *Uploader) Upload(ctx context.Context, req Request) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}

	disk, err := u.storage.Disk(req.disk)
	if err != nil {
		return Result{}, fmt.Errorf("get %q disk: %w", req.disk, err)
	}

	src, err := req.sources[0].Resolve(ctx, u.tempDir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve source: %w", err)
	}
	defer func() {
		if err := src.Release(); err != nil {
			u.log.Warn("release source", zap.String("path", src.Path), zap.Error(err))
		}
	}()

	dir := Directory(req.dir, req.dateDir, req.subDirs, u.now())
	mimeType := src.MIMEType

	var fileName string
	if req.keepOriginal {
		fileName = src.Name
	} else if fileName, err = u.names.Generate(ctx, dir, src.Name, disk.Exists, req.prefixDate); err != nil {
		return Result{}, fmt.Errorf("generate file name: %w", err)
	}

	var temps tempFiles
	defer temps.remove(u.log)

	isImage := u.transformer.Classify(src.Path) == image.KindImage
	working := src.Path

	if isImage && req.resizes() {
		if working, err = u.transformer.ResizeToMaxBounds(working, resizeOptions(req)...); err != nil {
			return Result{}, fmt.Errorf("resize: %w", err)
		}
		temps.add(working)
	}

	if isImage && req.format != "" {
		if working, err = u.transformer.ConvertFormat(working, req.format, req.quality); err != nil {
			return Result{}, fmt.Errorf("convert to %q: %w", req.format, err)
		}
		temps.add(working)

		fileName = replaceExt(fileName, req.format)
		if mimeType, err = image.DetectMIME(working); err != nil {
			return Result{}, fmt.Errorf("detect mime type: %w", err)
		}
	}

	path := dir + fileName

	stored, err := u.write(ctx, disk, path, working, mimeType)
	if err != nil {
		return Result{}, err
	}

	if !stored {
		u.log.Warn("file not found on disk after upload", zap.String("disk", req.disk), zap.String("path", path))
		return Result{}, nil
	}

	res := Result{
		successful:   true,
		disk:         req.disk,
		dir:          dir,
		fileName:     fileName,
		originalName: src.Name,
		size:         src.Size,
		mimeType:     mimeType,
	}
	res.publicURL = u.publicURL(ctx, disk, res.FilePath())

	u.log.Debug(
		"uploaded file",
		zap.String("disk", res.disk),
		zap.String("path", res.FilePath()),
		zap.String("mimeType", mimeType),
		zap.Int64("size", res.size),
	)

	if !req.thumbnail || !isImage {
		return res, nil
	}

	thumb, err := u.uploadThumbnail(ctx, disk, req, src, dir, fileName, &temps)
	if err != nil {
		return res, fmt.Errorf("thumbnail: %w", err)
	}

	if thumb.Successful() {
		res.thumbnailPath = thumb.FilePath()
		res.publicThumbnailURL = thumb.PublicURL()
	}

	return res, nil
}

func (u *Uploader) uploadThumbnail(
	ctx context.Context,
	disk media.StorageDisk,
	req Request,
	src Resolved,
	dir, fileName string,
	temps *tempFiles,
) (Result, error) {
	working, err := u.transformer.DeriveThumbnail(src.Path, req.thumbnailSize)
	if err != nil {
		return Result{}, fmt.Errorf("derive: %w", err)
	}
	temps.add(working)

	if req.format != "" {
		if working, err = u.transformer.ConvertFormat(working, req.format, req.quality); err != nil {
			return Result{}, fmt.Errorf("convert to %q: %w", req.format, err)
		}
		temps.add(working)
	}

	mimeType, err := image.DetectMIME(working)
	if err != nil {
		mimeType = src.MIMEType
	}

	dir = dir + ThumbnailDirectory + "/"
	path := dir + fileName

	stored, err := u.write(ctx, disk, path, working, mimeType)
	if err != nil {
		u.log.Warn("store thumbnail", zap.String("disk", req.disk), zap.String("path", path), zap.Error(err))
		return Result{}, nil
	}

	if !stored {
		return Result{}, nil
	}

	thumb := Result{
		successful: true,
		disk:       req.disk,
		dir:        dir,
		fileName:   fileName,
		mimeType:   mimeType,
	}
	thumb.publicURL = u.publicURL(ctx, disk, thumb.FilePath())

	return thumb, nil
}

// write streams the local file at working to path on disk and reports
// whether the disk has the file afterwards.
func (u *Uploader) write(ctx context.Context, disk media.StorageDisk, path, working, mimeType string) (bool, error) {
	f, err := os.Open(working)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", working, media.ErrSourceFileMissing)
	}
	defer f.Close()

	if err := disk.Put(ctx, path, f, mimeType); err != nil {
		return false, fmt.Errorf("put %q: %w: %w", path, media.ErrWriteFailed, err)
	}

	ok, err := disk.Exists(ctx, path)
	if err != nil {
		u.log.Warn("check uploaded file", zap.String("path", path), zap.Error(err))
		return false, nil
	}

	return ok, nil
}

func (u *Uploader) publicURL(ctx context.Context, disk media.StorageDisk, path string) string {
	if _, ok := disk.(media.Presigner); ok && u.presignTTL > 0 {
		url, err := media.Presign(ctx, disk, path, u.presignTTL)
		if err == nil {
			return url
		}
		u.log.Warn("presign url", zap.String("path", path), zap.Error(err))
	}
	url, _ := disk.URL(path)
	return url
}

func validate(req Request) error {
	if len(req.sources) != 1 {
		return fmt.Errorf("%d sources configured: %w", len(req.sources), media.ErrSourceNotConfigured)
	}

	if req.hasMaxWidth && req.maxWidth <= 0 {
		return fmt.Errorf("max width %d: %w", req.maxWidth, media.ErrInvalidDimension)
	}

	if req.hasMaxHeight && req.maxHeight <= 0 {
		return fmt.Errorf("max height %d: %w", req.maxHeight, media.ErrInvalidDimension)
	}

	if req.format != "" && !image.Supported(req.format) {
		return fmt.Errorf("format %q: %w", req.format, media.ErrUnsupportedFormat)
	}

	return nil
}

func resizeOptions(req Request) []image.ResizeOption {
	var opts []image.ResizeOption
	if req.hasMaxWidth {
		opts = append(opts, image.MaxWidth(req.maxWidth))
	}
	if req.hasMaxHeight {
		opts = append(opts, image.MaxHeight(req.maxHeight))
	}
	return opts
}

func replaceExt(name, format string) string {
	base, _ := splitExt(name)
	return base + "." + format
}

type tempFiles []string

func (t *tempFiles) add(path string) {
	*t = append(*t, path)
}

func (t *tempFiles) remove(log *zap.Logger) {
	for _, path := range *t {
		if err := media.RemoveLocal(path); err != nil {
			log.Warn("remove temp file", zap.String("path", path), zap.Error(err))
		}
	}
}
