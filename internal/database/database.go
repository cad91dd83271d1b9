package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/models"
)

// Connect opens the Postgres connection and runs migrations. A missing
// DATABASE_URL is not an error: the caller runs with the in-memory share
// store instead.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Println("⚠️  DATABASE_URL not set, share links will not survive restarts")
		return nil, nil
	}

	logLevel := gormlogger.Warn
	if cfg.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(&models.ShareArtifact{}); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Println("✅ Database connected and migrated")
	return db, nil
}
