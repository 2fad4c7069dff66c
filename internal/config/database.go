package config

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-ranker/internal/models"
)

// InitDatabase opens the ranking store and migrates the run and entry tables.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	logLevel, err := gormLogLevel(cfg.Database.LogLevel, cfg.Server.Env)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log.Printf("✅ Database %s@%s:%s connected\n", cfg.Database.DBName, cfg.Database.Host, cfg.Database.Port)

	if err := db.AutoMigrate(
		&models.RankingRun{},
		&models.RankingEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate ranking tables: %w", err)
	}

	log.Println("✅ Ranking tables migrated")

	return db, nil
}

// gormLogLevel maps DB_LOG_LEVEL to a GORM level. Without an explicit level SQL is
// logged in development only.
func gormLogLevel(level, env string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		if env == "development" {
			return logger.Info, nil
		}
		return logger.Silent, nil
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return logger.Silent, fmt.Errorf("invalid DB_LOG_LEVEL %q (expected silent, error, warn or info)", level)
}
