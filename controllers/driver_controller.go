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

// DriverRequest contains the data for driver create/update
type DriverRequest struct {
	Name          string     `json:"name" binding:"required"`
	LicenseNumber string     `json:"license_number" binding:"required"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	JoinDate      *time.Time `json:"join_date"`
	RestHours     *float64   `json:"rest_hours"`
	LastDutyEnd   *time.Time `json:"last_duty_end"`
	TotalTrips    int        `json:"total_trips"`
	Rating        float64    `json:"rating"`
	Notes         string     `json:"notes"`
}

func (r *DriverRequest) apply(d *database.Driver) {
	d.Name = r.Name
	d.LicenseNumber = r.LicenseNumber
	d.LicenseExpiry = r.LicenseExpiry
	d.Phone = r.Phone
	d.Email = r.Email
	d.Status = r.Status
	d.JoinDate = r.JoinDate
	d.RestHours = 8
	if r.RestHours != nil {
		d.RestHours = *r.RestHours
	}
	d.LastDutyEnd = r.LastDutyEnd
	d.TotalTrips = r.TotalTrips
	d.Rating = r.Rating
	d.Notes = r.Notes
}

// CreateDriver registers a new driver
func CreateDriver(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing database.Driver
	err := database.DB.Where("license_number = ?", req.LicenseNumber).First(&existing).Error
	if err == nil {
		log.WithField("license_number", req.LicenseNumber).
			Error("Driver creation failed: license number already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Driver license number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	var driver database.Driver
	req.apply(&driver)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&driver).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "add_driver", "Added driver "+driver.Name)
	})
	if err != nil {
		log.WithError(err).Error("Driver creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create driver"})
		return
	}

	c.JSON(http.StatusOK, driver)
}

// ListDrivers returns all drivers
func ListDrivers(c *gin.Context) {
	var drivers []database.Driver
	if err := database.DB.Find(&drivers).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GetDriverByID returns one driver
func GetDriverByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID"})
		return
	}

	var driver database.Driver
	if err := database.DB.Where("id = ?", id).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}
	c.JSON(http.StatusOK, driver)
}

// UpdateDriver replaces a driver's fields
func UpdateDriver(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID"})
		return
	}

	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver database.Driver
	if err := database.DB.Where("id = ?", id).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("driver_id", id).Error("Driver update failed: not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	var existing database.Driver
	err = database.DB.Where("license_number = ? AND id <> ?", req.LicenseNumber, id).
		First(&existing).Error
	if err == nil {
		log.WithField("license_number", req.LicenseNumber).
			Error("Driver update failed: license number already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Driver license number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	req.apply(&driver)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&driver).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "update_driver", "Updated driver "+driver.Name)
	})
	if err != nil {
		log.WithError(err).Error("Driver update error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update driver"})
		return
	}

	c.JSON(http.StatusOK, driver)
}

// DeleteDriver hard-deletes a driver
func DeleteDriver(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID"})
		return
	}

	var driver database.Driver
	if err := database.DB.Where("id = ?", id).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("driver_id", id).Error("Driver deletion failed: not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&driver).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "delete_driver", "Deleted driver "+driver.Name)
	})
	if err != nil {
		log.WithError(err).Error("Driver deletion error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete driver"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted"})
}
