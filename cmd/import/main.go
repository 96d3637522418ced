// Command import loads one or more question bundles (JSON) into the
// configured repository and blob store.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/motilinbal/question-bank/pkg/questionbank/config"
	"github.com/motilinbal/question-bank/pkg/questionbank/ingest"
)

// Config is the process environment for the importer.
type Config struct {
	DatabaseType string `env:"DATABASE_TYPE" env-default:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL" env-default:""`

	StorageType string `env:"STORAGE_TYPE" env-default:"fs"`
	FSBaseDir   string `env:"FS_BASE_DIR" env-default:"./media"`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("usage: import <bundle.json> [bundle.json ...]")
	}

	var envCfg Config
	if err := cleanenv.ReadEnv(&envCfg); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	serverConfig := config.ServerConfig{
		DatabaseType: envCfg.DatabaseType,
		DatabaseURL:  envCfg.DatabaseURL,
		StorageType:  envCfg.StorageType,
		FSBaseDir:    envCfg.FSBaseDir,
		S3: config.S3Config{
			Region:          envCfg.S3Region,
			Bucket:          envCfg.S3Bucket,
			AccessKeyID:     envCfg.S3AccessKeyID,
			SecretAccessKey: envCfg.S3SecretAccessKey,
			Endpoint:        envCfg.S3Endpoint,
		},
	}

	ctx := context.Background()

	repo, err := serverConfig.BuildRepository(ctx)
	if err != nil {
		log.Fatalf("Failed to build repository: %v", err)
	}
	blobs, err := serverConfig.BuildBlobStore()
	if err != nil {
		log.Fatalf("Failed to build blob store: %v", err)
	}

	importer := ingest.New(repo, blobs)

	for _, bundlePath := range flag.Args() {
		report, err := importer.ImportFile(ctx, bundlePath)
		if err != nil {
			log.Fatalf("Import of %s failed: %v", bundlePath, err)
		}
		slog.Info("Bundle imported",
			"bundle", bundlePath,
			"questions_imported", report.QuestionsImported,
			"questions_skipped", report.QuestionsSkipped,
			"media_imported", report.MediaImported,
			"media_skipped", report.MediaSkipped)
	}
}
