package image

import (
	"fmt"
	"image"
	"io"
	"os"

	// Register the decoders of all supported formats with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/disintegration/imaging"
)

// Handle is a decoded image together with the format it was decoded from.
type Handle struct {
	Image image.Image

	// Format is the file extension style name of the image format ("jpg",
	// "png", ...).
	Format string
}

// Dimensions returns the width and height of the image.
func (h Handle) Dimensions() Dimensions {
	b := h.Image.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Codec decodes, resizes and encodes images.
type Codec interface {
	// Decode decodes the image file at the given path.
	Decode(path string) (Handle, error)

	// Resize resizes the image, preserving its aspect ratio. A zero width or
	// height is derived from the aspect ratio. If both are non-zero, the image
	// is scaled down to fit within width x height.
	Resize(_ Handle, width, height int) Handle

	// Encode encodes the image in its Format with the given quality.
	Encode(_ io.Writer, _ Handle, quality int) error

	// Save encodes the image in its Format with the given quality and writes
	// it to path.
	Save(_ Handle, path string, quality int) error
}

type imagingCodec struct {
	enc Encoder
}

// ImagingCodec returns a Codec that uses `imaging` for resizing and enc for
// encoding.
func ImagingCodec(enc Encoder) Codec {
	if enc == nil {
		enc = NewEncoder()
	}
	return &imagingCodec{enc: enc}
}

func (c *imagingCodec) Decode(path string) (Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Handle{}, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Handle{}, err
	}

	return Handle{Image: img, Format: NormalizeFormat(format)}, nil
}

func (c *imagingCodec) Resize(h Handle, width, height int) Handle {
	if width > 0 && height > 0 {
		h.Image = imaging.Fit(h.Image, width, height, imaging.Lanczos)
		return h
	}
	h.Image = imaging.Resize(h.Image, width, height, imaging.Lanczos)
	return h
}

func (c *imagingCodec) Encode(w io.Writer, h Handle, quality int) error {
	return c.enc.Encode(w, h.Image, h.Format, quality)
}

func (c *imagingCodec) Save(h Handle, path string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if err := c.Encode(f, h, quality); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}
