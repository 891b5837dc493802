package uploadserver

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/modernice/nice-upload/internal/api"
	"github.com/modernice/nice-upload/media"
	"github.com/modernice/nice-upload/media/upload"
	"github.com/modernice/nice-upload/media/uploadserver/routes"
	"go.uber.org/zap"
)

// DefaultField is the form field that files are read from.
const DefaultField = "file"

// Uploader uploads files. *upload.Uploader implements Uploader.
type Uploader interface {
	Upload(context.Context, upload.Request) (upload.Result, error)
}

// Server is the upload server. It accepts multipart uploads on "/":
//
//	POST / (file, [dir], [thumbnail])
//	PUT  / (file, [dir], [thumbnail])
//
// "dir" is appended to the configured destination directory as a
// sub-directory. "thumbnail" requests a thumbnail of the given size, or of
// upload.DefaultThumbnailSize if it is not a number.
type Server struct {
	router   chi.Router
	uploader Uploader
	field    string
	preset   upload.Request
	routes   []routes.Option
	log      *zap.Logger
}

// Option is a server option.
type Option func(*Server)

// Field returns an Option that sets the form field that files are read from.
func Field(name string) Option {
	return func(s *Server) {
		s.field = name
	}
}

// Preset returns an Option that applies opts to every upload request.
func Preset(opts ...upload.Option) Option {
	return func(s *Server) {
		s.preset = s.preset.With(opts...)
	}
}

// Routes returns an Option that configures the installed routes.
func Routes(opts ...routes.Option) Option {
	return func(s *Server) {
		s.routes = append(s.routes, opts...)
	}
}

// WithLogger returns an Option that sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// New returns the upload server.
//
//	uploader := upload.NewUploader(storage)
//	srv := New(uploader, Preset(upload.SaveTo("images"), upload.MaxWidth(1920)))
func New(uploader Uploader, opts ...Option) *Server {
	s := Server{
		router:   chi.NewRouter(),
		uploader: uploader,
		field:    DefaultField,
		preset:   upload.NewRequest(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.init()
	return &s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) init() {
	rs := routes.New(s.routes...)
	rs.Install(s.router, routes.Upload, http.HandlerFunc(s.upload))
	rs.Install(s.router, routes.Replace, http.HandlerFunc(s.upload))
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	opts := []upload.Option{upload.FromForm(r, s.field)}

	if dir := r.FormValue("dir"); dir != "" {
		clean, ok := cleanDir(dir)
		if !ok {
			api.Error(w, r, http.StatusBadRequest, api.Friendly(nil, "Invalid directory %q.", dir))
			return
		}
		opts = append(opts, upload.SubDirectories(clean))
	}

	if thumb := r.FormValue("thumbnail"); thumb != "" && thumb != "0" && thumb != "false" {
		size, _ := strconv.Atoi(thumb)
		opts = append(opts, upload.WithThumbnail(size))
	}

	res, err := s.uploader.Upload(r.Context(), s.preset.With(opts...))
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("upload failed", zap.String("method", r.Method), zap.Error(err))
		}
		api.Error(w, r, status, api.Friendly(err, "Failed to upload file: %v", err))
		return
	}

	if !res.Successful() {
		api.Error(w, r, http.StatusBadGateway, api.Friendly(media.ErrUploadFailed, "File was not stored."))
		return
	}

	api.JSON(w, r, http.StatusCreated, res)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, media.ErrFieldNotFound), errors.Is(err, media.ErrNotAFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrUnsupportedFormat), errors.Is(err, media.ErrInvalidDimension):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// cleanDir returns dir as a relative path. Paths that leave the destination
// directory are rejected.
func cleanDir(dir string) (string, bool) {
	clean := path.Clean("/" + strings.TrimSpace(dir))
	if clean == "/" || strings.Contains(dir, "..") {
		return "", false
	}
	return strings.TrimPrefix(clean, "/"), true
}
