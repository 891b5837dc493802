package media

import "errors"

var (
	// ErrUnconfiguredDisk is returned when trying to get a StorageDisk that
	// isn't configured.
	ErrUnconfiguredDisk = errors.New("unconfigured disk")

	// ErrFileNotFound is returned when a file cannot be found in a Storage.
	ErrFileNotFound = errors.New("file not found")

	// ErrUploadFailed is returned when a storage disk accepted a file but does
	// not report it as stored.
	ErrUploadFailed = errors.New("upload failed")

	// ErrSourceNotConfigured is returned when an upload has no source file,
	// or more than one.
	ErrSourceNotConfigured = errors.New("source not configured")

	// ErrSourceFileMissing is returned when the configured source file does
	// not exist or cannot be read.
	ErrSourceFileMissing = errors.New("source file missing")

	// ErrFieldNotFound is returned when a form field that should carry the
	// uploaded file is absent from the request.
	ErrFieldNotFound = errors.New("form field not found")

	// ErrNotAFile is returned when a form field is present but does not carry
	// a file.
	ErrNotAFile = errors.New("form field is not a file")

	// ErrNameGenerationFailed is returned when no unique file name could be
	// found within the configured number of attempts.
	ErrNameGenerationFailed = errors.New("unique file name generation failed")

	// ErrImageDecodeFailed is returned when a file cannot be decoded as an
	// image.
	ErrImageDecodeFailed = errors.New("image decode failed")

	// ErrInvalidDimension is returned when a resize bound is zero or negative.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrUnsupportedFormat is returned when converting an image into a format
	// outside of the supported formats.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrWriteFailed is returned when a file could not be written, or was
	// written but cannot be found afterwards.
	ErrWriteFailed = errors.New("write failed")
)
