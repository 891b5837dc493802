package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/modernice/nice-upload/internal/config"
	"github.com/modernice/nice-upload/internal/logger"
	"github.com/modernice/nice-upload/media"
	"github.com/modernice/nice-upload/media/image"
	"github.com/modernice/nice-upload/media/local"
	"github.com/modernice/nice-upload/media/s3"
	"github.com/modernice/nice-upload/media/upload"
	"github.com/modernice/nice-upload/media/uploadserver"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatal("configure storage", zap.Error(err))
	}

	uploader := upload.NewUploader(
		storage,
		upload.WithTransformer(image.NewTransformer(image.TempDir(filepath.Join(cfg.TempDir, "images")))),
		upload.WithTempDir(filepath.Join(cfg.TempDir, "uploads")),
		upload.WithLogger(log),
		upload.PresignURLs(cfg.PresignTTL),
	)

	srv := uploadserver.New(
		uploader,
		uploadserver.Field(cfg.Field),
		uploadserver.Preset(presets(cfg)...),
		uploadserver.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Mount("/upload", srv)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("upload server listening", zap.String("addr", cfg.Addr()), zap.String("disk", cfg.DefaultDisk))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("serve http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (media.Storage, error) {
	disks := map[string]media.StorageDisk{
		"local": local.NewDisk(cfg.LocalRoot, local.BaseURL(cfg.LocalBaseURL)),
	}

	if cfg.HasS3() {
		disk, err := s3.New(s3.Config{
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			UseSSL:     cfg.S3UseSSL,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			return nil, err
		}
		if err := disk.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %q: %w", cfg.S3Bucket, err)
		}
		disks["s3"] = disk
	}

	def, ok := disks[cfg.DefaultDisk]
	if !ok {
		return nil, fmt.Errorf("default disk %q: %w", cfg.DefaultDisk, media.ErrUnconfiguredDisk)
	}

	opts := []media.StorageOption{media.ConfigureDisk(media.DefaultDisk, def)}
	for name, disk := range disks {
		opts = append(opts, media.ConfigureDisk(name, disk))
	}

	return media.NewStorage(opts...), nil
}

func presets(cfg *config.Config) []upload.Option {
	opts := []upload.Option{upload.SaveTo(cfg.Directory)}
	if cfg.MaxWidth > 0 {
		opts = append(opts, upload.MaxWidth(cfg.MaxWidth))
	}
	if cfg.MaxHeight > 0 {
		opts = append(opts, upload.MaxHeight(cfg.MaxHeight))
	}
	if cfg.ThumbnailSize > 0 {
		opts = append(opts, upload.WithThumbnail(cfg.ThumbnailSize))
	}
	return opts
}
