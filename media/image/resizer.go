package image

// Dimensions are image dimensions (width & height).
type Dimensions struct {
	Width  int
	Height int
}

// Bounds are the maximum dimensions of an image. A zero MaxWidth or
// MaxHeight leaves that dimension unbounded.
type Bounds struct {
	MaxWidth  int
	MaxHeight int
}

// Target returns the Dimensions to resize an image of the given Dimensions
// into so that it fits within the Bounds. Only the bounds that are exceeded
// by the image are returned as non-zero; a zero dimension in the result must
// be derived from the aspect ratio. Target returns false if the image already
// fits.
//
//	b := Bounds{MaxWidth: 1200, MaxHeight: 800}
//	b.Target(Dimensions{2000, 1000}) // {1200, 0}, true
//	b.Target(Dimensions{1000, 1000}) // {0, 800}, true
//	b.Target(Dimensions{640, 480})   // {0, 0}, false
func (b Bounds) Target(current Dimensions) (Dimensions, bool) {
	var target Dimensions

	if b.MaxWidth > 0 && current.Width > b.MaxWidth {
		target.Width = b.MaxWidth
	}

	if b.MaxHeight > 0 && current.Height > b.MaxHeight {
		target.Height = b.MaxHeight
	}

	return target, target.Width > 0 || target.Height > 0
}

// Square returns Bounds of size x size.
func Square(size int) Bounds {
	return Bounds{MaxWidth: size, MaxHeight: size}
}
