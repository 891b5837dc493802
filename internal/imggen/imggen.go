package imggen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

// ColoredRectangle creates a rectangle with the given dimensions and color.
func ColoredRectangle(width, height int, color color.Color) (image.Image, *bytes.Buffer) {
	img := rectangle(width, height, color)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Errorf("encode png: %w", err))
	}
	return img, &buf
}

// ColoredJPEG creates a JPEG encoded rectangle with the given dimensions and
// color.
func ColoredJPEG(width, height int, color color.Color) (image.Image, *bytes.Buffer) {
	img := rectangle(width, height, color)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(fmt.Errorf("encode jpeg: %w", err))
	}
	return img, &buf
}

// WriteFile writes buf to name in dir and returns the path of the file.
func WriteFile(dir, name string, buf *bytes.Buffer) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		panic(fmt.Errorf("write %s: %w", path, err))
	}
	return path
}

func rectangle(width, height int, color color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color)
		}
	}
	return img
}
