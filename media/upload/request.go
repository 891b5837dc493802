package upload

import (
	"mime/multipart"
	"net/http"

	"github.com/modernice/nice-upload/media"
)

const (
	// DefaultDirectoryDate is the layout of dated sub-directories if
	// SubDirectoryDate is given an empty layout.
	DefaultDirectoryDate = "20060102"

	// DefaultThumbnailSize is the thumbnail size if WithThumbnail is given a
	// size <= 0.
	DefaultThumbnailSize = 100

	// ThumbnailDirectory is the sub-directory of the destination directory
	// that thumbnails are stored in.
	ThumbnailDirectory = "thumbs"
)

// Request configures a single upload. A Request is a value: options that are
// applied with With return a new Request and never change the original.
type Request struct {
	sources      []Source
	dir          string
	disk         string
	dateDir      string
	subDirs      []string
	prefixDate   string
	keepOriginal bool

	maxWidth     int
	maxHeight    int
	hasMaxWidth  bool
	hasMaxHeight bool

	format  string
	quality int

	thumbnail     bool
	thumbnailSize int
}

// Option is an option for a Request.
type Option func(*Request)

// NewRequest returns a Request for the default disk, configured by opts.
func NewRequest(opts ...Option) Request {
	return Request{disk: media.DefaultDisk}.With(opts...)
}

// With returns a copy of the Request with opts applied.
func (r Request) With(opts ...Option) Request {
	r.sources = append([]Source(nil), r.sources...)
	r.subDirs = append([]string(nil), r.subDirs...)
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Disk returns the name of the disk the file is uploaded to.
func (r Request) Disk() string {
	return r.disk
}

// Thumbnail returns the thumbnail size and whether a thumbnail is requested.
func (r Request) Thumbnail() (int, bool) {
	return r.thumbnailSize, r.thumbnail
}

// FromSource returns an Option that uploads the file provided by src.
// Exactly one source must be configured.
func FromSource(src Source) Option {
	return func(r *Request) {
		r.sources = append(r.sources, src)
	}
}

// FromForm returns an Option that uploads the file in the given multipart
// form field of req.
func FromForm(req *http.Request, field string) Option {
	return FromSource(FormField(req, field))
}

// FromUploadedFile returns an Option that uploads an already parsed
// multipart file.
func FromUploadedFile(fh *multipart.FileHeader) Option {
	return FromSource(UploadedFile(fh))
}

// FromLocalFile returns an Option that uploads the local file at path.
func FromLocalFile(path string) Option {
	return FromSource(LocalFile(path))
}

// SaveTo returns an Option that sets the destination directory.
func SaveTo(dir string) Option {
	return func(r *Request) {
		r.dir = dir
	}
}

// ToDisk returns an Option that sets the disk to upload to.
func ToDisk(name string) Option {
	return func(r *Request) {
		r.disk = name
	}
}

// SubDirectoryDate returns an Option that stores the file in a sub-directory
// named after the current date, formatted with the given time layout.
func SubDirectoryDate(layout string) Option {
	if layout == "" {
		layout = DefaultDirectoryDate
	}
	return func(r *Request) {
		r.dateDir = layout
	}
}

// SubDirectories returns an Option that appends literal sub-directories to
// the destination directory, after the dated sub-directory.
func SubDirectories(dirs ...string) Option {
	return func(r *Request) {
		r.subDirs = append(r.subDirs, dirs...)
	}
}

// PrefixDate returns an Option that prefixes generated file names with the
// current date, formatted with the given time layout.
func PrefixDate(layout string) Option {
	return func(r *Request) {
		r.prefixDate = layout
	}
}

// KeepOriginalName returns an Option that stores the file under its original
// name. An existing file with that name is replaced.
func KeepOriginalName() Option {
	return func(r *Request) {
		r.keepOriginal = true
	}
}

// MaxWidth returns an Option that scales images down to the given width.
func MaxWidth(width int) Option {
	return func(r *Request) {
		r.maxWidth = width
		r.hasMaxWidth = true
	}
}

// MaxHeight returns an Option that scales images down to the given height.
func MaxHeight(height int) Option {
	return func(r *Request) {
		r.maxHeight = height
		r.hasMaxHeight = true
	}
}

// ConvertTo returns an Option that re-encodes images into the given format
// ("jpg", "png", "gif", "tif" or "bmp") before they are stored. Quality is
// used by lossy formats; 0 means the encoder default.
func ConvertTo(format string, quality int) Option {
	return func(r *Request) {
		r.format = format
		r.quality = quality
	}
}

// WithThumbnail returns an Option that additionally stores a thumbnail of
// images that fits within size x size.
func WithThumbnail(size int) Option {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return func(r *Request) {
		r.thumbnail = true
		r.thumbnailSize = size
	}
}

func (r Request) resizes() bool {
	return r.hasMaxWidth || r.hasMaxHeight
}
