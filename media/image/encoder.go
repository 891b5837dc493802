package image

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnknownFormat is returned when trying to encode an image whose format
	// is not registered in an Encoder.
	ErrUnknownFormat = errors.New("unknown format")
)

// DefaultJPEGQuality is the JPEG quality that is used when no quality is
// specified.
const DefaultJPEGQuality = 90

// Formats are the formats that images can be converted into.
var Formats = []string{"jpg", "png", "gif", "tif", "bmp"}

// Supported returns whether format is one of Formats.
func Supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// NormalizeFormat returns the file extension style name of an image format
// as returned by image.Decode ("jpeg" -> "jpg", "tiff" -> "tif").
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	switch format {
	case "jpeg":
		return "jpg"
	case "tiff":
		return "tif"
	}
	return format
}

// FormatEncoder encodes images of a specific format (JPEG, PNG etc.).
type FormatEncoder interface {
	// Encode encodes the provided Image with the given quality and writes the
	// result into the specified Writer. Quality 0 means the encoder default.
	// Encoders of lossless formats ignore the quality.
	Encode(_ io.Writer, _ image.Image, quality int) error
}

// Func allows functions to be used as FormatEncoders.
type Func func(io.Writer, image.Image, int) error

// Encode returns fn(w, img, quality).
func (fn Func) Encode(w io.Writer, img image.Image, quality int) error {
	return fn(w, img, quality)
}

// Encoder is a multi-format image encoder.
type Encoder interface {
	// Encode encodes an image using the appropriate FormatEncoder for the
	// specified format.
	Encode(_ io.Writer, _ image.Image, format string, quality int) error
}

type encoder struct {
	mux      sync.RWMutex
	encoders map[string]FormatEncoder
}

// EncoderOption is an Encoder option.
type EncoderOption func(*encoder)

// WithFormat returns an EncoderOption that registers a FormatEncoder for the
// given image format.
//
// Format is a file extension without the dot ("jpg", "png"). Provide an empty
// string as format to set the default encoder for unknown formats.
func WithFormat(format string, enc FormatEncoder) EncoderOption {
	return func(e *encoder) {
		e.encoders[format] = enc
	}
}

// NewEncoder returns a new Encoder with support for JPEGs, PNGs, GIFs, TIFFs
// and BMPs. Unknown formats fail with ErrUnknownFormat unless a default
// encoder is registered.
func NewEncoder(opts ...EncoderOption) Encoder {
	return newEncoder(opts...)
}

func newEncoder(opts ...EncoderOption) *encoder {
	enc := encoder{
		encoders: map[string]FormatEncoder{
			"jpg": Func(JPEGEncoder),
			"png": Func(PNGEncoder),
			"gif": Func(GIFEncoder),
			"tif": Func(TIFFEncoder),
			"bmp": Func(BMPEncoder),
		},
	}
	for _, opt := range opts {
		opt(&enc)
	}
	return &enc
}

// JPEGEncoder encodes images as JPEG with the given quality (1-100) or
// DefaultJPEGQuality.
func JPEGEncoder(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// PNGEncoder encodes images as PNG with png.BestCompression as the compression
// level.
func PNGEncoder(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

// GIFEncoder encodes images as GIF with a 256 color palette.
func GIFEncoder(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.GIF, imaging.GIFNumColors(256))
}

// TIFFEncoder encodes images as TIFF.
func TIFFEncoder(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.TIFF)
}

// BMPEncoder encodes images as BMP.
func BMPEncoder(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.BMP)
}

// Encode encodes the provided Image using the appropriate encoder for the
// specified format or the default encoder if the format has no configured
// FormatEncoder.
func (enc *encoder) Encode(w io.Writer, img image.Image, format string, quality int) error {
	fenc, err := enc.get(NormalizeFormat(format))
	if err != nil {
		return fmt.Errorf("get %q encoder: %w", format, err)
	}

	if err := fenc.Encode(w, img, quality); err != nil {
		return fmt.Errorf("%q encoder: %w", format, err)
	}

	return nil
}

func (enc *encoder) get(format string) (FormatEncoder, error) {
	enc.mux.RLock()
	defer enc.mux.RUnlock()
	if fenc, ok := enc.encoders[format]; ok {
		return fenc, nil
	}
	if fenc, ok := enc.encoders[""]; ok {
		return fenc, nil
	}
	return nil, ErrUnknownFormat
}
