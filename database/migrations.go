package database

import (
	log "github.com/sirupsen/logrus"
)

// RunMigrations runs all database migrations
func RunMigrations() error {
	log.Info("Running database migrations...")

	// AutoMigrate will create tables if they don't exist
	if err := DB.AutoMigrate(
		&User{},
		&UserActivity{},
		&Driver{},
		&Vehicle{},
		&DriverDocument{},
		&VehicleDocument{},
		&Cost{},
		&MaintenanceRecord{},
	); err != nil {
		log.WithError(err).Error("Migration failed")
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}
