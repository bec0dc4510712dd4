package db

import (
	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/pkg/logger"
)

// Migrate runs database migrations. The gateway only owns the local order
// snapshots; everything else lives upstream.
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := DB.AutoMigrate(&model.OrderRecord{}); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
