package media_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bounoable/godrive"
	"github.com/golang/mock/gomock"
	"github.com/modernice/nice-upload/media"
	"github.com/modernice/nice-upload/media/mock_media"
)

func TestStorage_Disk_unconfigured(t *testing.T) {
	storage := media.NewStorage()

	disk, err := storage.Disk("foo")
	if !errors.Is(err, media.ErrUnconfiguredDisk) {
		t.Fatalf("storage.Disk should return %q for an unconfigured disk; got %v", media.ErrUnconfiguredDisk, err)
	}

	if disk != nil {
		t.Fatalf("storage.Disk should return nil for an unconfigured disk; got %v", disk)
	}
}

func TestStorage_Disk(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	name := "foo"
	disk := mock_media.NewMockStorageDisk(ctrl)
	storage := media.NewStorage(media.ConfigureDisk(name, disk))

	disk2, err := storage.Disk(name)
	if err != nil {
		t.Fatalf("storage.Disk should return no error for a configured disk; got %v", err)
	}

	if disk2 != disk {
		t.Fatalf("storage.Disk should return the configured disk %v; got %v", disk, disk2)
	}
}

func TestGoDriveStorage_Disk_unconfigured(t *testing.T) {
	storage := media.GoDriveStorage(&godrive.Manager{})

	disk, err := storage.Disk("foo")
	if err == nil {
		t.Fatalf("storage.Disk should fail for an unconfigured disk")
	}

	if disk != nil {
		t.Fatalf("storage.Disk should return nil for an unconfigured disk; got %v", disk)
	}
}

func TestMemoryDisk(t *testing.T) {
	ctx := context.Background()
	disk := media.NewMemoryDisk("https://cdn.example.com/")

	if ok, _ := disk.Exists(ctx, "foo/bar.png"); ok {
		t.Fatalf("Exists should return false for a missing file")
	}

	if err := disk.Put(ctx, "foo/bar.png", strings.NewReader("contents"), "image/png"); err != nil {
		t.Fatalf("Put failed with %q", err)
	}

	if ok, _ := disk.Exists(ctx, "foo/bar.png"); !ok {
		t.Fatalf("Exists should return true after Put")
	}

	b, err := disk.Get(ctx, "foo/bar.png")
	if err != nil {
		t.Fatalf("Get failed with %q", err)
	}

	if string(b) != "contents" {
		t.Fatalf("Get should return %q; got %q", "contents", b)
	}

	if mt := disk.MIMEType("foo/bar.png"); mt != "image/png" {
		t.Fatalf("MIMEType should return %q; got %q", "image/png", mt)
	}

	u, ok := disk.URL("/foo/bar.png")
	if !ok || u != "https://cdn.example.com/foo/bar.png" {
		t.Fatalf("URL should return %q; got %q (%v)", "https://cdn.example.com/foo/bar.png", u, ok)
	}

	if err := disk.Delete(ctx, "foo/bar.png"); err != nil {
		t.Fatalf("Delete failed with %q", err)
	}

	if _, err := disk.Get(ctx, "foo/bar.png"); !errors.Is(err, media.ErrFileNotFound) {
		t.Fatalf("Get should return %q for a deleted file; got %q", media.ErrFileNotFound, err)
	}

	if err := disk.Delete(ctx, "foo/bar.png"); err != nil {
		t.Fatalf("Delete should not fail for a missing file; failed with %q", err)
	}
}

func TestMemoryDisk_URL_noPublicBase(t *testing.T) {
	disk := media.NewMemoryDisk()
	if u, ok := disk.URL("foo.png"); ok {
		t.Fatalf("URL should return false without a public base; got %q", u)
	}
}

func TestWrapBytesDisk(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	bd := mock_media.NewMockBytesDisk(ctrl)
	disk := media.WrapBytesDisk(bd, media.PublicBase("https://files.example.com"))

	bd.EXPECT().Put(gomock.Any(), "dir/file.txt", []byte("hello")).Return(nil)
	bd.EXPECT().Get(gomock.Any(), "dir/file.txt").Return([]byte("hello"), nil)
	bd.EXPECT().Get(gomock.Any(), "dir/missing.txt").Return(nil, errors.New("not found"))

	if err := disk.Put(ctx, "dir/file.txt", strings.NewReader("hello"), "text/plain"); err != nil {
		t.Fatalf("Put failed with %q", err)
	}

	if ok, err := disk.Exists(ctx, "dir/file.txt"); !ok || err != nil {
		t.Fatalf("Exists should return true for a stored file; got %v, %v", ok, err)
	}

	if ok, err := disk.Exists(ctx, "dir/missing.txt"); ok || err != nil {
		t.Fatalf("Exists should return false for a missing file; got %v, %v", ok, err)
	}

	if u, _ := disk.URL("dir/file.txt"); u != "https://files.example.com/dir/file.txt" {
		t.Fatalf("URL returned wrong URL %q", u)
	}
}

func TestPresign_fallback(t *testing.T) {
	disk := media.NewMemoryDisk()

	u, err := media.Presign(context.Background(), disk, "images/foo.png", time.Minute)
	if err != nil {
		t.Fatalf("Presign failed with %q", err)
	}

	if u != "images/foo.png" {
		t.Fatalf("Presign should return the path unchanged for disks without presigning; got %q", u)
	}
}

type presignDisk struct {
	*media.MemoryDisk
	*mock_media.MockPresigner
}

func TestPresign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := mock_media.NewMockPresigner(ctrl)
	disk := presignDisk{MemoryDisk: media.NewMemoryDisk(), MockPresigner: p}

	p.EXPECT().Presign(gomock.Any(), "images/foo.png", 10*time.Minute).Return("https://signed.example.com/foo", nil)

	u, err := media.Presign(context.Background(), disk, "images/foo.png", 10*time.Minute)
	if err != nil {
		t.Fatalf("Presign failed with %q", err)
	}

	if u != "https://signed.example.com/foo" {
		t.Fatalf("Presign should return the presigned URL; got %q", u)
	}
}

func TestRemoveLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	if err := media.RemoveLocal(path); err != nil {
		t.Fatalf("RemoveLocal failed with %q", err)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file should be removed; stat returned %v", err)
	}

	if err := media.RemoveLocal(path); err != nil {
		t.Fatalf("RemoveLocal should ignore missing files; failed with %q", err)
	}
}
