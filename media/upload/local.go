package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/modernice/nice-upload/media"
)

// SaveLocal copies the file of src into the local directory absDir under a
// name generated by FileSystemNames and returns its path. If relDir is not
// empty, the returned path is relDir joined with the name; otherwise it is
// the absolute path of the file.
func SaveLocal(ctx context.Context, src Source, absDir, relDir string, opts ...NameOption) (string, error) {
	if src == nil {
		return "", media.ErrSourceNotConfigured
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", absDir, err)
	}

	resolved, err := src.Resolve(ctx, DefaultTempDir)
	if err != nil {
		return "", fmt.Errorf("resolve source: %w", err)
	}
	defer resolved.Release()

	absDir = strings.TrimRight(absDir, "/") + "/"

	name, err := FileSystemNames(opts...).Generate(ctx, absDir, resolved.Name, LocalExists, "")
	if err != nil {
		return "", err
	}

	if err := copyFile(resolved.Path, absDir+name); err != nil {
		return "", err
	}

	if relDir != "" {
		return strings.TrimRight(relDir, "/") + "/" + name, nil
	}

	return absDir + name, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(dest), err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy to %s: %w", filepath.Base(dest), err)
	}

	return out.Close()
}
