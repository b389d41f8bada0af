package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/database"
)

// VehicleRequest contains the data for vehicle create/update
type VehicleRequest struct {
	RegistrationNumber string     `json:"registration_number" binding:"required"`
	VehicleType        string     `json:"vehicle_type" binding:"required"`
	Capacity           float64    `json:"capacity"`
	FuelType           string     `json:"fuel_type"`
	Status             string     `json:"status"`
	LastMaintenance    *time.Time `json:"last_maintenance"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
	Speed              float64    `json:"speed"`
	FuelLevel          *float64   `json:"fuel_level"`
	MaintenanceScore   *float64   `json:"maintenance_score"`
	DriverID           *uint      `json:"driver_id"`
}

func (r *VehicleRequest) apply(v *database.Vehicle) {
	v.RegistrationNumber = r.RegistrationNumber
	v.VehicleType = r.VehicleType
	v.Capacity = r.Capacity
	v.FuelType = r.FuelType
	v.Status = r.Status
	v.LastMaintenance = r.LastMaintenance
	v.Latitude = r.Latitude
	v.Longitude = r.Longitude
	v.Speed = r.Speed
	v.FuelLevel = 100
	if r.FuelLevel != nil {
		v.FuelLevel = *r.FuelLevel
	}
	v.MaintenanceScore = 100
	if r.MaintenanceScore != nil {
		v.MaintenanceScore = *r.MaintenanceScore
	}
	v.DriverID = r.DriverID
}

// CreateVehicle registers a new vehicle
func CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing database.Vehicle
	err := database.DB.Where("registration_number = ?", req.RegistrationNumber).First(&existing).Error
	if err == nil {
		log.WithField("registration_number", req.RegistrationNumber).
			Error("Vehicle creation failed: registration number already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle registration number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	var vehicle database.Vehicle
	req.apply(&vehicle)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vehicle).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "add_vehicle",
			"Added vehicle "+vehicle.RegistrationNumber)
	})
	if err != nil {
		log.WithError(err).Error("Vehicle creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// ListVehicles returns all vehicles
func ListVehicles(c *gin.Context) {
	var vehicles []database.Vehicle
	if err := database.DB.Find(&vehicles).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GetVehicleByID returns one vehicle
func GetVehicleByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", id).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle replaces a vehicle's fields
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", id).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("vehicle_id", id).Error("Vehicle update failed: not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	var existing database.Vehicle
	err = database.DB.Where("registration_number = ? AND id <> ?", req.RegistrationNumber, id).
		First(&existing).Error
	if err == nil {
		log.WithField("registration_number", req.RegistrationNumber).
			Error("Vehicle update failed: registration number already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle registration number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	req.apply(&vehicle)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&vehicle).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "update_vehicle",
			"Updated vehicle "+vehicle.RegistrationNumber)
	})
	if err != nil {
		log.WithError(err).Error("Vehicle update error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle hard-deletes a vehicle
func DeleteVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", id).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("vehicle_id", id).Error("Vehicle deletion failed: not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&vehicle).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "delete_vehicle",
			"Deleted vehicle "+vehicle.RegistrationNumber)
	})
	if err != nil {
		log.WithError(err).Error("Vehicle deletion error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}
