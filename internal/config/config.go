// Package config loads the configuration of the upload server from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the upload server.
type Config struct {
	Port     string
	LogLevel string

	// DefaultDisk is the disk ("local" or "s3") that is used as the default
	// disk.
	DefaultDisk string

	// Upload defaults
	Directory     string
	Field         string
	MaxWidth      int
	MaxHeight     int
	ThumbnailSize int
	TempDir       string

	// Local disk
	LocalRoot    string
	LocalBaseURL string

	// S3-compatible object storage. The s3 disk is only configured if an
	// endpoint is set.
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3Bucket     string
	S3Region     string
	S3UseSSL     bool
	S3PublicBase string

	// PresignTTL is the lifetime of presigned URLs. Zero disables presigning.
	PresignTTL time.Duration
}

// Load reads the configuration from the given .env files (".env" if none are
// given) and the environment. Missing .env files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:        getEnv("UPLOAD_PORT", "8080"),
		LogLevel:    getEnv("UPLOAD_LOG_LEVEL", "info"),
		DefaultDisk: getEnv("UPLOAD_DEFAULT_DISK", "local"),

		Directory: getEnv("UPLOAD_DIR", "uploads"),
		Field:     getEnv("UPLOAD_FIELD", "file"),
		TempDir:   getEnv("UPLOAD_TEMP_DIR", filepath.Join(os.TempDir(), "nice-upload")),

		LocalRoot:    getEnv("UPLOAD_LOCAL_ROOT", "storage"),
		LocalBaseURL: getEnv("UPLOAD_LOCAL_BASE_URL", ""),

		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		S3Bucket:     getEnv("S3_BUCKET", "uploads"),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		S3UseSSL:     getEnv("S3_USE_SSL", "false") == "true",
		S3PublicBase: getEnv("S3_PUBLIC_BASE", ""),
	}

	var err error
	if cfg.MaxWidth, err = getInt("UPLOAD_MAX_WIDTH", 0); err != nil {
		return nil, err
	}
	if cfg.MaxHeight, err = getInt("UPLOAD_MAX_HEIGHT", 0); err != nil {
		return nil, err
	}
	if cfg.ThumbnailSize, err = getInt("UPLOAD_THUMBNAIL_SIZE", 0); err != nil {
		return nil, err
	}

	if cfg.PresignTTL, err = time.ParseDuration(getEnv("S3_PRESIGN_TTL", "0s")); err != nil {
		return nil, fmt.Errorf("S3_PRESIGN_TTL: %w", err)
	}

	return &cfg, nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	if len(c.Port) > 0 && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

// HasS3 returns whether an S3-compatible endpoint is configured.
func (c *Config) HasS3() bool {
	return c.S3Endpoint != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
