package database

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"logistics/config"
)

var DB *gorm.DB

// InitDB initializes the database connection using environment/config
func InitDB() error {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var err error

	switch config.AppConfig.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBUser,
			config.AppConfig.DBPassword,
			config.AppConfig.DBName,
		)

		log.WithFields(log.Fields{
			"host": config.AppConfig.DBHost,
			"port": config.AppConfig.DBPort,
			"db":   config.AppConfig.DBName,
		}).Info("Connecting to PostgreSQL")

		DB, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			log.WithError(err).Error("Failed to connect to PostgreSQL")
			return err
		}

	case "sqlite", "sqlite3":
		dbDir := filepath.Dir(config.AppConfig.DBPath)
		if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
			log.WithError(err).Error("Failed to create SQLite folder")
			return err
		}

		DB, err = gorm.Open(sqlite.Open(config.AppConfig.DBPath), gormConfig)
		if err != nil {
			log.WithError(err).Error("Failed to connect to SQLite")
			return err
		}

		log.WithField("path", config.AppConfig.DBPath).Info("SQLite connection established")

	default:
		return fmt.Errorf("unsupported DB driver: %s", config.AppConfig.DBDriver)
	}

	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
