package upload_test

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/modernice/nice-upload/internal/imggen"
	"github.com/modernice/nice-upload/media"
	"github.com/modernice/nice-upload/media/image"
	"github.com/modernice/nice-upload/media/mock_media"
	"github.com/modernice/nice-upload/media/upload"
)

type testSetup struct {
	disk      *media.MemoryDisk
	uploader  *upload.Uploader
	sourceDir string
	tempDirs  []string
}

func newTestSetup(t *testing.T, disk media.StorageDisk, opts ...upload.UploaderOption) testSetup {
	t.Helper()

	root := t.TempDir()
	imageTemp := filepath.Join(root, "images")
	uploadTemp := filepath.Join(root, "uploads")

	storage := media.NewStorage(media.ConfigureDisk(media.DefaultDisk, disk))
	opts = append([]upload.UploaderOption{
		upload.WithTransformer(image.NewTransformer(image.TempDir(imageTemp))),
		upload.WithTempDir(uploadTemp),
		upload.WithClock(fixedClock),
	}, opts...)

	s := testSetup{
		uploader:  upload.NewUploader(storage, opts...),
		sourceDir: t.TempDir(),
		tempDirs:  []string{imageTemp, uploadTemp},
	}
	if md, ok := disk.(*media.MemoryDisk); ok {
		s.disk = md
	}

	return s
}

func (s testSetup) assertNoTempFiles(t *testing.T) {
	t.Helper()
	for _, dir := range s.tempDirs {
		assertEmptyDir(t, dir)
	}
}

func decodeStored(t *testing.T, disk *media.MemoryDisk, path string) (stdimage.Config, string) {
	t.Helper()

	b, err := disk.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("get %q from disk: %v", path, err)
	}

	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode %q: %v", path, err)
	}

	return cfg, format
}

func TestUploader_Upload(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk("https://cdn.example.com"))
	_, buf := imggen.ColoredJPEG(300, 200, color.White)
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("uploads"),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if !res.Successful() {
		t.Fatalf("Upload should be successful")
	}

	if res.Disk() != media.DefaultDisk || res.Dir() != "uploads/" || res.OriginalName() != "photo.jpg" {
		t.Fatalf("Upload returned unexpected result %+v", res)
	}

	if filepath.Ext(res.FileName()) != ".jpg" {
		t.Fatalf("stored file should keep the %q extension; got %q", ".jpg", res.FileName())
	}

	if res.Size() != int64(buf.Len()) {
		t.Fatalf("Result.Size should be %d; is %d", buf.Len(), res.Size())
	}

	if res.MIMEType() != "image/jpeg" {
		t.Fatalf("Result.MIMEType should be %q; is %q", "image/jpeg", res.MIMEType())
	}

	b, err := s.disk.Get(context.Background(), res.FilePath())
	if err != nil {
		t.Fatalf("stored file should be on the disk; Get failed with %q", err)
	}

	if !bytes.Equal(b, buf.Bytes()) {
		t.Fatalf("untransformed file should be stored unchanged")
	}

	if want := "https://cdn.example.com/" + res.FilePath(); res.PublicURL() != want {
		t.Fatalf("Result.PublicURL should be %q; is %q", want, res.PublicURL())
	}

	if _, err := os.Stat(src); err != nil {
		t.Fatalf("local source should never be removed; stat returned %v", err)
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_resize(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	_, buf := imggen.ColoredJPEG(2000, 1000, color.RGBA{10, 200, 10, 0xff})
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("uploads"),
		upload.MaxWidth(1200),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if !res.Successful() {
		t.Fatalf("Upload should be successful")
	}

	cfg, format := decodeStored(t, s.disk, res.FilePath())
	if cfg.Width != 1200 || cfg.Height != 600 {
		t.Fatalf("stored image should be %dx%d; is %dx%d", 1200, 600, cfg.Width, cfg.Height)
	}

	if format != "jpeg" {
		t.Fatalf("stored image should still be a jpeg; is %q", format)
	}

	if res.Size() != int64(buf.Len()) {
		t.Fatalf("Result.Size should report the size of the uploaded file (%d); is %d", buf.Len(), res.Size())
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_thumbnail(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk("https://cdn.example.com/"))
	_, buf := imggen.ColoredJPEG(2000, 1000, color.White)
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("uploads"),
		upload.WithThumbnail(150),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	want := "uploads/thumbs/" + res.FileName()
	if res.ThumbnailPath() != want {
		t.Fatalf("Result.ThumbnailPath should be %q; is %q", want, res.ThumbnailPath())
	}

	if res.PublicThumbnailURL() != "https://cdn.example.com/"+want {
		t.Fatalf("Result.PublicThumbnailURL should be %q; is %q", "https://cdn.example.com/"+want, res.PublicThumbnailURL())
	}

	cfg, _ := decodeStored(t, s.disk, want)
	if cfg.Width > 150 || cfg.Height > 150 {
		t.Fatalf("thumbnail should fit within 150x150; is %dx%d", cfg.Width, cfg.Height)
	}

	if cfg.Width != 150 || cfg.Height != 75 {
		t.Fatalf("thumbnail should be %dx%d; is %dx%d", 150, 75, cfg.Width, cfg.Height)
	}

	cfg, _ = decodeStored(t, s.disk, res.FilePath())
	if cfg.Width != 2000 {
		t.Fatalf("primary image should not be resized; is %dx%d", cfg.Width, cfg.Height)
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_thumbnailDefaultSize(t *testing.T) {
	req := upload.NewRequest(upload.WithThumbnail(0))
	if size, ok := req.Thumbnail(); !ok || size != upload.DefaultThumbnailSize {
		t.Fatalf("thumbnail size should default to %d; is %d (%v)", upload.DefaultThumbnailSize, size, ok)
	}
}

func TestUploader_Upload_thumbnailNotAnImage(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	src := filepath.Join(s.sourceDir, "notes.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.WithThumbnail(100),
		upload.MaxWidth(10),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if !res.Successful() || res.ThumbnailPath() != "" {
		t.Fatalf("non-images should be uploaded without a thumbnail; got %+v", res)
	}

	if len(s.disk.Paths()) != 1 {
		t.Fatalf("disk should contain only the uploaded file; contains %v", s.disk.Paths())
	}
}

func TestUploader_Upload_keepOriginalName(t *testing.T) {
	disk := media.NewMemoryDisk()
	s := newTestSetup(t, disk)
	ctx := context.Background()

	if err := disk.Put(ctx, "uploads/photo.jpg", strings.NewReader("old"), "image/jpeg"); err != nil {
		t.Fatalf("Put failed with %q", err)
	}

	_, buf := imggen.ColoredJPEG(40, 40, color.White)
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(ctx, upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("uploads"),
		upload.KeepOriginalName(),
	))
	if err != nil {
		t.Fatalf("Upload should replace an existing file; failed with %q", err)
	}

	if res.FilePath() != "uploads/photo.jpg" {
		t.Fatalf("Result.FilePath should be %q; is %q", "uploads/photo.jpg", res.FilePath())
	}

	b, _ := disk.Get(ctx, "uploads/photo.jpg")
	if !bytes.Equal(b, buf.Bytes()) {
		t.Fatalf("existing file should be replaced by the upload")
	}
}

func TestUploader_Upload_convert(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	_, buf := imggen.ColoredJPEG(320, 240, color.White)
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("uploads"),
		upload.KeepOriginalName(),
		upload.ConvertTo("png", 0),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if res.FileName() != "photo.png" {
		t.Fatalf("converted file should be named %q; is %q", "photo.png", res.FileName())
	}

	if res.MIMEType() != "image/png" {
		t.Fatalf("Result.MIMEType should be %q; is %q", "image/png", res.MIMEType())
	}

	if mt := s.disk.MIMEType(res.FilePath()); mt != "image/png" {
		t.Fatalf("file should be stored as %q; stored as %q", "image/png", mt)
	}

	cfg, format := decodeStored(t, s.disk, res.FilePath())
	if format != "png" || cfg.Width != 320 || cfg.Height != 240 {
		t.Fatalf("stored file should be a 320x240 png; is a %dx%d %s", cfg.Width, cfg.Height, format)
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_convertWithThumbnail(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	_, buf := imggen.ColoredJPEG(400, 400, color.White)
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.ConvertTo("png", 0),
		upload.WithThumbnail(50),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if !strings.HasSuffix(res.ThumbnailPath(), ".png") {
		t.Fatalf("thumbnail should use the converted name; is %q", res.ThumbnailPath())
	}

	if mt := s.disk.MIMEType(res.ThumbnailPath()); mt != "image/png" {
		t.Fatalf("thumbnail should be stored as %q; stored as %q", "image/png", mt)
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_directories(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	src := filepath.Join(s.sourceDir, "doc.pdf")
	if err := os.WriteFile(src, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("files"),
		upload.SubDirectoryDate("2006/01"),
		upload.SubDirectories("docs"),
		upload.PrefixDate("20060102"),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if res.Dir() != "files/2024/05/docs/" {
		t.Fatalf("Result.Dir should be %q; is %q", "files/2024/05/docs/", res.Dir())
	}

	if !strings.HasPrefix(res.FileName(), "20240517") {
		t.Fatalf("file name should be prefixed with the date; is %q", res.FileName())
	}
}

func TestUploader_Upload_form(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	_, buf := imggen.ColoredRectangle(50, 50, color.White)
	req := newFormRequest(t, http.MethodPost, nil, formFile{field: "image", name: "avatar.png", contents: buf.Bytes()})

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromForm(req, "image"),
		upload.SaveTo("avatars"),
		upload.WithThumbnail(10),
	))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if !res.Successful() || res.OriginalName() != "avatar.png" || res.ThumbnailPath() == "" {
		t.Fatalf("Upload returned unexpected result %+v", res)
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_invalidRequest(t *testing.T) {
	s := newTestSetup(t, media.NewMemoryDisk())
	_, buf := imggen.ColoredRectangle(10, 10, color.White)
	src := imggen.WriteFile(s.sourceDir, "img.png", buf)

	tests := []struct {
		name string
		req  upload.Request
		want error
	}{
		{name: "no source", req: upload.NewRequest(), want: media.ErrSourceNotConfigured},
		{
			name: "two sources",
			req:  upload.NewRequest(upload.FromLocalFile(src), upload.FromLocalFile(src)),
			want: media.ErrSourceNotConfigured,
		},
		{
			name: "zero width",
			req:  upload.NewRequest(upload.FromLocalFile(src), upload.MaxWidth(0)),
			want: media.ErrInvalidDimension,
		},
		{
			name: "unsupported format",
			req:  upload.NewRequest(upload.FromLocalFile(src), upload.ConvertTo("webp", 0)),
			want: media.ErrUnsupportedFormat,
		},
		{
			name: "unconfigured disk",
			req:  upload.NewRequest(upload.FromLocalFile(src), upload.ToDisk("s3")),
			want: media.ErrUnconfiguredDisk,
		},
		{
			name: "form field missing",
			req:  upload.NewRequest(upload.FromForm(newFormRequest(t, http.MethodPost, nil), "file")),
			want: media.ErrFieldNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.uploader.Upload(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("Upload should fail with %q; got %v", tt.want, err)
			}
		})
	}

	if len(s.disk.Paths()) != 0 {
		t.Fatalf("invalid requests should not store files; disk contains %v", s.disk.Paths())
	}
}

func TestUploader_Upload_writeFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	disk := mock_media.NewMockStorageDisk(ctrl)
	s := newTestSetup(t, disk)
	mockError := errors.New("mock error")

	disk.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)
	disk.EXPECT().
		Put(gomock.Any(), gomock.Any(), gomock.Any(), "image/png").
		DoAndReturn(func(_ context.Context, _ string, r io.Reader, _ string) error {
			io.Copy(io.Discard, r)
			return mockError
		})

	_, buf := imggen.ColoredRectangle(200, 100, color.White)
	req := newFormRequest(t, http.MethodPost, nil, formFile{field: "file", name: "img.png", contents: buf.Bytes()})

	_, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromForm(req, "file"),
		upload.MaxWidth(100),
		upload.ConvertTo("png", 0),
	))

	if !errors.Is(err, mockError) {
		t.Fatalf("Upload should fail with the disk error %q; got %v", mockError, err)
	}

	if !errors.Is(err, media.ErrWriteFailed) {
		t.Fatalf("Upload should fail with %q; got %v", media.ErrWriteFailed, err)
	}

	s.assertNoTempFiles(t)
}

func TestUploader_Upload_notStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	disk := mock_media.NewMockStorageDisk(ctrl)
	s := newTestSetup(t, disk)

	disk.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	disk.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, buf := imggen.ColoredRectangle(10, 10, color.White)
	src := imggen.WriteFile(s.sourceDir, "img.png", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(upload.FromLocalFile(src)))
	if err != nil {
		t.Fatalf("Upload should not fail when the disk does not report the file; failed with %q", err)
	}

	if diff := cmp.Diff(upload.Result{}, res, cmp.AllowUnexported(upload.Result{})); diff != "" {
		t.Fatalf("Upload should return an empty Result:\n%s", diff)
	}

	if res.FilePath() != "" {
		t.Fatalf("Result.FilePath should be empty; is %q", res.FilePath())
	}
}

// thumbFailDisk fails to store thumbnails.
type thumbFailDisk struct {
	*media.MemoryDisk
}

func (d thumbFailDisk) Put(ctx context.Context, path string, r io.Reader, mimeType string) error {
	if strings.Contains(path, "/"+upload.ThumbnailDirectory+"/") {
		return errors.New("mock error")
	}
	return d.MemoryDisk.Put(ctx, path, r, mimeType)
}

func TestUploader_Upload_thumbnailFailed(t *testing.T) {
	disk := thumbFailDisk{media.NewMemoryDisk()}
	s := newTestSetup(t, disk)
	_, buf := imggen.ColoredJPEG(300, 300, color.White)
	src := imggen.WriteFile(s.sourceDir, "photo.jpg", buf)

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(
		upload.FromLocalFile(src),
		upload.SaveTo("uploads"),
		upload.WithThumbnail(100),
	))
	if err != nil {
		t.Fatalf("a failed thumbnail should not fail the upload; failed with %q", err)
	}

	if !res.Successful() {
		t.Fatalf("Upload should be successful")
	}

	if res.ThumbnailPath() != "" {
		t.Fatalf("Result.ThumbnailPath should be empty; is %q", res.ThumbnailPath())
	}

	if ok, _ := disk.Exists(context.Background(), res.FilePath()); !ok {
		t.Fatalf("primary file should be stored")
	}

	s.assertNoTempFiles(t)
}

func TestRequest_With(t *testing.T) {
	base := upload.NewRequest(upload.SaveTo("uploads"), upload.SubDirectories("a"))
	derived := base.With(upload.ToDisk("s3"), upload.SubDirectories("b"))

	if base.Disk() != media.DefaultDisk {
		t.Fatalf("With should not change the original Request; disk is %q", base.Disk())
	}

	if derived.Disk() != "s3" {
		t.Fatalf("derived Request should use disk %q; uses %q", "s3", derived.Disk())
	}
}

type presignDisk struct {
	*media.MemoryDisk
	*mock_media.MockPresigner
}

func TestPresignURLs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	presigner := mock_media.NewMockPresigner(ctrl)
	disk := presignDisk{MemoryDisk: media.NewMemoryDisk("https://cdn.example.com"), MockPresigner: presigner}
	s := newTestSetup(t, disk, upload.PresignURLs(10*time.Minute))

	presigner.EXPECT().
		Presign(gomock.Any(), gomock.Any(), 10*time.Minute).
		DoAndReturn(func(_ context.Context, path string, _ time.Duration) (string, error) {
			return "https://signed.example.com/" + path, nil
		})

	src := filepath.Join(s.sourceDir, "notes.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	res, err := s.uploader.Upload(context.Background(), upload.NewRequest(upload.FromLocalFile(src)))
	if err != nil {
		t.Fatalf("Upload failed with %q", err)
	}

	if want := "https://signed.example.com/" + res.FilePath(); res.PublicURL() != want {
		t.Fatalf("Result.PublicURL should be %q; is %q", want, res.PublicURL())
	}
}
