package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/alienstore/storefront-gateway/config"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/internal/app/service"
	"github.com/alienstore/storefront-gateway/internal/db"
	"github.com/alienstore/storefront-gateway/internal/storage"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// One-shot orders report generator. Writes the workbook to a local file, or
// uploads it to S3 with -upload.
func main() {
	output := flag.String("o", "", "write the workbook to this path instead of the default name")
	upload := flag.Bool("upload", false, "upload the workbook to S3 instead of writing a file")
	adminToken := flag.String("admin-token", "", "upstream admin bearer token for the upstream orders sheet")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	upstream, err := storeapi.NewClient(storeapi.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create upstream client", err)
	}

	var uploader service.ReportUploader
	if *upload {
		if cfg.S3.Bucket == "" {
			logger.Fatal("S3 bucket is not configured", nil)
		}
		uploader = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	records := repository.NewOrderRecordRepository(db.GetDB())
	reports := service.NewReportService(records, upstream, uploader)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *upload {
		url, err := reports.Export(ctx, *adminToken)
		if err != nil {
			logger.Fatal("Failed to export orders report", err)
		}
		logger.Info("Orders report uploaded", map[string]interface{}{
			"url": url,
		})
		return
	}

	body, name, err := reports.BuildOrdersWorkbook(ctx, *adminToken)
	if err != nil {
		logger.Fatal("Failed to build orders report", err)
	}

	path := name
	if *output != "" {
		path = *output
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		logger.Fatal("Failed to write orders report", err)
	}

	logger.Info("Orders report written", map[string]interface{}{
		"path": path,
	})
}
