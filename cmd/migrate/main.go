package main

import (
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/flavorfind/backend/config"
	"github.com/pageza/flavorfind/backend/internal/database"
	"github.com/pageza/flavorfind/backend/internal/logger"
)

// migrate creates the session storage table for the SQL storage drivers.
func main() {
	sqlitePath := flag.String("sqlite", "", "migrate this sqlite file instead of the configured Postgres database")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(config.IsProduction())

	if err := migrate(cfg, *sqlitePath); err != nil {
		logger.L().Error("migration failed", zap.Error(err))
		logger.Sync()
		log.Fatal(err)
	}
	logger.L().Info("migrations applied")
	logger.Sync()
}

func migrate(cfg *config.Config, sqlitePath string) error {
	var (
		db  *gorm.DB
		err error
	)
	if sqlitePath != "" {
		db, err = database.NewSQLite(sqlitePath)
	} else {
		db, err = database.NewPostgres(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	return database.RunMigrations(db)
}
