package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/flavorfind/backend/internal/logger"
	"github.com/pageza/flavorfind/backend/internal/model"
)

// RunMigrations creates or updates the tables used by session storage
func RunMigrations(db *gorm.DB) error {
	logger.L().Info("running auto-migration", zap.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(&model.StorageEntry{}); err != nil {
		return fmt.Errorf("failed to migrate storage entries: %w", err)
	}
	return nil
}
