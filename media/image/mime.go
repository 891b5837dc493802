package image

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the media kind of a file.
type Kind int

const (
	// KindOther is any file that is not an image.
	KindOther Kind = iota

	// KindImage is an image file.
	KindImage
)

func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "other"
}

// DetectMIME sniffs the mime type of the file at path from its contents.
// Parameters like charset are stripped.
func DetectMIME(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	mt, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(mt), nil
}

// Classify returns KindImage if the sniffed mime type of the file at path is
// an "image/*" type.
func Classify(path string) Kind {
	mt, err := DetectMIME(path)
	if err != nil {
		return KindOther
	}
	if primary, _, _ := strings.Cut(mt, "/"); primary == "image" {
		return KindImage
	}
	return KindOther
}
