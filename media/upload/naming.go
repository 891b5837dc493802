package upload

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modernice/nice-upload/media"
	"go.uber.org/zap"
)

const (
	// StorageAttempts is the number of names StorageNames tries before it
	// falls back to a hashed name.
	StorageAttempts = 50

	// FileSystemAttempts is the number of names FileSystemNames tries before
	// it fails.
	FileSystemAttempts = 500

	// FileSystemPrefix is the date layout that FileSystemNames prefixes names
	// with.
	FileSystemPrefix = "20060102"

	tokenLength   = 15
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	fallbackStamp = "150405"
)

// ExistsFunc reports whether a file exists at path.
type ExistsFunc func(ctx context.Context, path string) (bool, error)

// NameGenerator generates file names that do not exist in a directory yet.
type NameGenerator interface {
	// Generate returns a random name for a file in dir that keeps the
	// extension of originalName. Candidates are checked with exists. If
	// prefix is not empty, it is used as a time layout and the formatted
	// current time is prepended to the name.
	Generate(ctx context.Context, dir, originalName string, exists ExistsFunc, prefix string) (string, error)
}

// NameOption is an option for a NameGenerator.
type NameOption func(*nameGenerator)

type nameGenerator struct {
	attempts      int
	defaultPrefix string
	fallback      bool
	now           func() time.Time
	log           *zap.Logger
}

// Attempts returns a NameOption that sets the number of candidates that are
// checked.
func Attempts(n int) NameOption {
	return func(g *nameGenerator) {
		g.attempts = n
	}
}

// NameClock returns a NameOption that sets the clock for date prefixes.
func NameClock(now func() time.Time) NameOption {
	return func(g *nameGenerator) {
		g.now = now
	}
}

// NameLogger returns a NameOption that sets the logger.
func NameLogger(l *zap.Logger) NameOption {
	return func(g *nameGenerator) {
		g.log = l
	}
}

// StorageNames returns the NameGenerator for storage disks. It tries
// StorageAttempts names and then falls back to a name built from the time
// of day and the md5 hash of the original base name. The fallback name is
// not checked for existence and may overwrite an existing file.
func StorageNames(opts ...NameOption) NameGenerator {
	return newNameGenerator(StorageAttempts, "", true, opts...)
}

// FileSystemNames returns the NameGenerator for local directories. It
// prefixes names with the current date (FileSystemPrefix) unless another
// prefix is given and returns ErrNameGenerationFailed after
// FileSystemAttempts collisions.
func FileSystemNames(opts ...NameOption) NameGenerator {
	return newNameGenerator(FileSystemAttempts, FileSystemPrefix, false, opts...)
}

func newNameGenerator(attempts int, prefix string, fallback bool, opts ...NameOption) *nameGenerator {
	g := nameGenerator{
		attempts:      attempts,
		defaultPrefix: prefix,
		fallback:      fallback,
		now:           time.Now,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&g)
	}
	return &g
}

func (g *nameGenerator) Generate(ctx context.Context, dir, originalName string, exists ExistsFunc, prefix string) (string, error) {
	if prefix == "" {
		prefix = g.defaultPrefix
	}

	var datePrefix string
	if prefix != "" {
		datePrefix = g.now().Format(prefix)
	}

	base, ext := splitExt(filepath.Base(originalName))
	dir = withTrailingSlash(dir)

	for i := 0; i < g.attempts; i++ {
		token, err := randomToken(tokenLength)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}

		name := datePrefix + token + ext

		ok, err := exists(ctx, dir+name)
		if err != nil {
			return "", fmt.Errorf("check %q: %w", dir+name, err)
		}

		if !ok {
			return name, nil
		}
	}

	if !g.fallback {
		return "", fmt.Errorf("%d attempts in %q: %w", g.attempts, dir, media.ErrNameGenerationFailed)
	}

	sum := md5.Sum([]byte(base))
	name := datePrefix + g.now().Format(fallbackStamp) + hex.EncodeToString(sum[:]) + ext

	g.log.Warn(
		"name generation exhausted, using unverified fallback name",
		zap.String("dir", dir),
		zap.String("original", originalName),
		zap.String("name", name),
		zap.Int("attempts", g.attempts),
	)

	return name, nil
}

// LocalExists is an ExistsFunc for the local filesystem.
func LocalExists(_ context.Context, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// splitExt splits name into its base name and its extension including the
// dot. A name without an extension has an empty extension.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == "." {
		ext = ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name)), ext
}

func randomToken(n int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[idx.Int64()]
	}
	return string(b), nil
}
