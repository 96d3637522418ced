package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/motilinbal/question-bank/pkg/questionbank/api"
	"github.com/motilinbal/question-bank/pkg/questionbank/config"
)

// Config is the process environment for the question-bank server.
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"`
	DatabaseURL  string `env:"DATABASE_URL" env-default:""`

	StorageType string `env:"STORAGE_TYPE" env-default:"memory"`
	FSBaseDir   string `env:"FS_BASE_DIR" env-default:""`
	FSURLPrefix string `env:"FS_URL_PREFIX" env-default:"/static"`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`

	AssetRoot    string `env:"ASSET_ROOT" env-default:"assets"`
	MediaURLMode string `env:"MEDIA_URL_MODE" env-default:"static"`
	MaxDepth     int    `env:"MAX_HYDRATION_DEPTH" env-default:"8"`
}

func (c Config) serverConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:         c.Port,
		Environment:  c.Environment,
		DatabaseType: c.DatabaseType,
		DatabaseURL:  c.DatabaseURL,
		StorageType:  c.StorageType,
		FSBaseDir:    c.FSBaseDir,
		FSURLPrefix:  c.FSURLPrefix,
		S3: config.S3Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			Endpoint:        c.S3Endpoint,
			UsePathStyle:    c.S3UsePathStyle,
		},
		AssetRoot:    c.AssetRoot,
		MediaURLMode: c.MediaURLMode,
		MaxDepth:     c.MaxDepth,
	}
}

func main() {
	var envCfg Config
	if err := cleanenv.ReadEnv(&envCfg); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	serverConfig := envCfg.serverConfig()
	svc, err := serverConfig.BuildService(context.Background())
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/questions", api.NewQuestionHandler(svc).Routes())
		r.Mount("/", api.NewFiltersHandler(svc).Routes())
	})

	// Serve media files directly in fs mode; other storage modes render
	// their own URLs (presigned or inline).
	if serverConfig.StorageType == "fs" {
		prefix := strings.TrimSuffix(serverConfig.FSURLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/",
			http.FileServer(http.Dir(serverConfig.FSBaseDir))))
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Question bank server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}
