package controllers

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/config"
	"logistics/database"
)

// runPostgresTool invokes pg_dump/psql with the configured credentials.
// PGPASSWORD goes through the environment, never the argument list.
func runPostgresTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+config.AppConfig.DBPassword)
	out, err := cmd.CombinedOutput()
	if err != nil {
		diag := strings.TrimSpace(string(out))
		if diag == "" {
			diag = err.Error()
		}
		return fmt.Errorf("%s: %s", name, diag)
	}
	return nil
}

// CreateBackup dumps the database to a timestamped file
func CreateBackup(c *gin.Context) {
	if config.AppConfig.DBDriver != "postgres" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup requires the postgres driver"})
		return
	}

	if err := os.MkdirAll(config.AppConfig.BackupDir, os.ModePerm); err != nil {
		log.WithError(err).Error("Failed to create backup directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backup directory"})
		return
	}

	backupFile := filepath.Join(config.AppConfig.BackupDir,
		fmt.Sprintf("logistics_backup_%s.sql", time.Now().Format("20060102_150405")))

	err := runPostgresTool("pg_dump",
		"-U", config.AppConfig.DBUser,
		"-h", config.AppConfig.DBHost,
		"-p", config.AppConfig.DBPort,
		"-f", backupFile,
		config.AppConfig.DBName,
	)
	if err != nil {
		log.WithError(err).Error("Backup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Backup failed: %v", err)})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return database.LogActivity(tx, currentUserID(c), "backup", "Created backup: "+backupFile)
	})
	if err != nil {
		log.WithError(err).Error("Failed to log backup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup created: " + backupFile})
}

// RestoreBackup replays an uploaded dump against the database
func RestoreBackup(c *gin.Context) {
	if config.AppConfig.DBDriver != "postgres" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restore requires the postgres driver"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup file is required"})
		return
	}

	if err := os.MkdirAll(config.AppConfig.BackupDir, os.ModePerm); err != nil {
		log.WithError(err).Error("Failed to create backup directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backup directory"})
		return
	}

	stagingFile := filepath.Join(config.AppConfig.BackupDir,
		fmt.Sprintf("restore_%s.sql", time.Now().Format("20060102_150405")))
	if err := c.SaveUploadedFile(file, stagingFile); err != nil {
		log.WithError(err).Error("Failed to stage restore file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage restore file"})
		return
	}

	err = runPostgresTool("psql",
		"-U", config.AppConfig.DBUser,
		"-h", config.AppConfig.DBHost,
		"-p", config.AppConfig.DBPort,
		"-d", config.AppConfig.DBName,
		"-f", stagingFile,
	)
	if err != nil {
		log.WithError(err).Error("Restore failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Restore failed: %v", err)})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return database.LogActivity(tx, currentUserID(c), "restore",
			"Restored database from: "+stagingFile)
	})
	if err != nil {
		log.WithError(err).Error("Failed to log restore")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database restored successfully"})
}
