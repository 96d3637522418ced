package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motilinbal/question-bank/pkg/questionbank"
	"github.com/motilinbal/question-bank/pkg/questionbank/mediaurl"
	memoryrepo "github.com/motilinbal/question-bank/pkg/questionbank/repo/memory"
	pgrepo "github.com/motilinbal/question-bank/pkg/questionbank/repo/postgres"
	fsstorage "github.com/motilinbal/question-bank/pkg/questionbank/storage/fs"
	memorystorage "github.com/motilinbal/question-bank/pkg/questionbank/storage/memory"
	s3storage "github.com/motilinbal/question-bank/pkg/questionbank/storage/s3"
)

// ServerConfig represents server configuration for the question-bank service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseType string // "memory", "postgres"
	DatabaseURL  string

	// Media storage configuration
	StorageType string // "memory", "fs", "s3"
	FSBaseDir   string
	FSURLPrefix string
	S3          S3Config

	// Hydration configuration
	AssetRoot    string // root prefix for derived file paths
	MediaURLMode string // "static" (paths under FSURLPrefix) or "inline" (data: payloads)
	MaxDepth     int    // nested fragment recursion ceiling
}

// S3Config represents configuration for the S3 storage backend
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	PresignDuration int
}

// Default returns the development defaults: in-memory everything, static
// media URLs.
func Default() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		StorageType:  "memory",
		AssetRoot:    "assets",
		MediaURLMode: "static",
		MaxDepth:     questionbank.DefaultMaxDepth,
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs_base_dir is required when using fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory', 'fs' or 's3'")
	}

	if c.MediaURLMode != "static" && c.MediaURLMode != "inline" {
		return errors.New("media_url_mode must be 'static' or 'inline'")
	}

	return nil
}

// BuildRepository creates the configured repository.
func (c *ServerConfig) BuildRepository(ctx context.Context) (questionbank.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return pgrepo.NewWithPool(pool), nil
	default:
		return memoryrepo.New(), nil
	}
}

// BuildBlobStore creates the configured media storage backend.
func (c *ServerConfig) BuildBlobStore() (questionbank.BlobStore, error) {
	switch c.StorageType {
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.FSURLPrefix,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.S3.Region,
			Bucket:          c.S3.Bucket,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
			PresignDuration: c.S3.PresignDuration,
		})
	default:
		return memorystorage.New(), nil
	}
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (questionbank.Service, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, err
	}

	blobs, err := c.BuildBlobStore()
	if err != nil {
		return nil, err
	}

	var strategy questionbank.URLStrategy
	if c.MediaURLMode == "inline" {
		strategy = mediaurl.NewInline(blobs)
	} else {
		strategy = mediaurl.NewStatic(c.FSURLPrefix)
	}

	return questionbank.New(
		questionbank.WithRepository(repo),
		questionbank.WithBlobStore(blobs),
		questionbank.WithURLStrategy(strategy),
		questionbank.WithAssetRoot(c.AssetRoot),
		questionbank.WithMaxDepth(c.MaxDepth),
	)
}
