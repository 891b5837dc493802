package upload

import (
	"encoding/json"
)

// Result describes the outcome of an upload. A Result that is not successful
// carries no file information.
type Result struct {
	successful         bool
	disk               string
	dir                string
	fileName           string
	originalName       string
	size               int64
	mimeType           string
	thumbnailPath      string
	publicURL          string
	publicThumbnailURL string
}

// Successful returns whether the file was stored.
func (r Result) Successful() bool {
	return r.successful
}

// Disk returns the name of the disk the file was stored on.
func (r Result) Disk() string {
	return r.disk
}

// Dir returns the directory of the file, including a trailing slash.
func (r Result) Dir() string {
	return r.dir
}

// FileName returns the name the file was stored under.
func (r Result) FileName() string {
	return r.fileName
}

// OriginalName returns the name of the uploaded file.
func (r Result) OriginalName() string {
	return r.originalName
}

// Size returns the size of the uploaded file in bytes.
func (r Result) Size() int64 {
	return r.size
}

// MIMEType returns the mime type the file was stored with.
func (r Result) MIMEType() string {
	return r.mimeType
}

// FilePath returns the path of the file on its disk, or an empty string if
// the upload was not successful.
func (r Result) FilePath() string {
	if !r.successful || r.fileName == "" {
		return ""
	}
	return withTrailingSlash(r.dir) + r.fileName
}

// ThumbnailPath returns the path of the thumbnail, or an empty string if no
// thumbnail was stored.
func (r Result) ThumbnailPath() string {
	return r.thumbnailPath
}

// PublicURL returns the public URL of the file, if its disk has one.
func (r Result) PublicURL() string {
	return r.publicURL
}

// PublicThumbnailURL returns the public URL of the thumbnail, if its disk has
// one.
func (r Result) PublicThumbnailURL() string {
	return r.publicThumbnailURL
}

type jsonResult struct {
	Successful         bool   `json:"successful"`
	Disk               string `json:"disk,omitempty"`
	Dir                string `json:"dir,omitempty"`
	FileName           string `json:"fileName,omitempty"`
	FilePath           string `json:"filePath,omitempty"`
	OriginalName       string `json:"originalName,omitempty"`
	Size               int64  `json:"size,omitempty"`
	MIMEType           string `json:"mimeType,omitempty"`
	ThumbnailPath      string `json:"thumbnailPath,omitempty"`
	PublicURL          string `json:"publicUrl,omitempty"`
	PublicThumbnailURL string `json:"publicThumbnailUrl,omitempty"`
}

// MarshalJSON encodes the Result as a JSON object.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonResult{
		Successful:         r.successful,
		Disk:               r.disk,
		Dir:                r.dir,
		FileName:           r.fileName,
		FilePath:           r.FilePath(),
		OriginalName:       r.originalName,
		Size:               r.size,
		MIMEType:           r.mimeType,
		ThumbnailPath:      r.thumbnailPath,
		PublicURL:          r.publicURL,
		PublicThumbnailURL: r.publicThumbnailURL,
	})
}
