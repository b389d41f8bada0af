package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/database"
)

// MaintenanceRequest contains the data for a maintenance record
type MaintenanceRequest struct {
	VehicleID           uint    `json:"vehicle_id" binding:"required"`
	MaintenanceType     string  `json:"maintenance_type" binding:"required"`
	Date                string  `json:"date" binding:"required"`
	Cost                float64 `json:"cost"`
	Notes               string  `json:"notes"`
	NextMaintenanceDate string  `json:"next_maintenance_date"`
	Status              string  `json:"status"`
}

// CreateMaintenanceRecord schedules maintenance for a vehicle. A record
// created with status "Completed" stamps the vehicle's last maintenance date
// and resets its maintenance score.
func CreateMaintenanceRecord(c *gin.Context) {
	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}
	nextDate, err := parseDate(req.NextMaintenanceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid next maintenance date"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", req.VehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("vehicle_id", req.VehicleID).
				Error("Maintenance record creation failed: vehicle not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	record := database.MaintenanceRecord{
		VehicleID:           req.VehicleID,
		MaintenanceType:     req.MaintenanceType,
		Date:                *date,
		Cost:                req.Cost,
		Notes:               req.Notes,
		NextMaintenanceDate: nextDate,
		Status:              req.Status,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if record.Status == database.MaintenanceStatusCompleted {
			updates := map[string]interface{}{
				"last_maintenance":  record.Date,
				"maintenance_score": 100,
			}
			if err := tx.Model(&vehicle).Updates(updates).Error; err != nil {
				return err
			}
		}
		return database.LogActivity(tx, currentUserID(c), "schedule_maintenance",
			fmt.Sprintf("Scheduled %s for vehicle %d", record.MaintenanceType, record.VehicleID))
	})
	if err != nil {
		log.WithError(err).Error("Maintenance record creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create maintenance record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListMaintenanceRecords returns all maintenance records
func ListMaintenanceRecords(c *gin.Context) {
	var records []database.MaintenanceRecord
	if err := database.DB.Find(&records).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, records)
}
