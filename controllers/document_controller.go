package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/config"
	"logistics/database"
)

// DocumentRequest contains the multipart fields of a document upload
type DocumentRequest struct {
	DocType    string `form:"doc_type" binding:"required"`
	DocNumber  string `form:"doc_number"`
	IssueDate  string `form:"issue_date"`
	ExpiryDate string `form:"expiry_date"`
	Status     string `form:"status"`
}

// storedName derives a storage file name from a prefix and the upload time.
// A short random suffix keeps two uploads within the same second from
// overwriting each other.
func storedName(prefix, originalName string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%s_%s%s",
		prefix, time.Now().Format("20060102150405"), suffix, filepath.Ext(originalName))
}

// saveUpload writes an uploaded file under dir and returns the stored path
func saveUpload(c *gin.Context, file *multipart.FileHeader, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	path := filepath.Join(dir, storedName(prefix, file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// UploadDriverDocument ingests a document for a driver
func UploadDriverDocument(c *gin.Context) {
	driverID, err := strconv.Atoi(c.PostForm("driver_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID"})
		return
	}

	var req DocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document file is required"})
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue date"})
		return
	}
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry date"})
		return
	}

	var driver database.Driver
	if err := database.DB.Where("id = ?", driverID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("driver_id", driverID).Error("Driver document upload failed: driver not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	path, err := saveUpload(c, file, config.AppConfig.DocumentDir,
		fmt.Sprintf("driver_doc_%d", driverID))
	if err != nil {
		log.WithError(err).Error("Failed to store driver document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	document := database.DriverDocument{
		DriverID:   uint(driverID),
		DocType:    req.DocType,
		DocNumber:  req.DocNumber,
		IssueDate:  issueDate,
		ExpiryDate: expiryDate,
		Status:     req.Status,
		FilePath:   path,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&document).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "upload_driver_doc",
			fmt.Sprintf("Uploaded %s for driver %d", req.DocType, driverID))
	})
	if err != nil {
		log.WithError(err).Error("Driver document creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	c.JSON(http.StatusOK, document)
}

// ListDriverDocuments returns a driver's documents
func ListDriverDocuments(c *gin.Context) {
	driverID, err := strconv.Atoi(c.Param("driver_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID"})
		return
	}

	var driver database.Driver
	if err := database.DB.Where("id = ?", driverID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("driver_id", driverID).Error("Driver document fetch failed: driver not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	var documents []database.DriverDocument
	if err := database.DB.Where("driver_id = ?", driverID).Find(&documents).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, documents)
}

// UploadVehicleDocument ingests a document for a vehicle
func UploadVehicleDocument(c *gin.Context) {
	vehicleID, err := strconv.Atoi(c.PostForm("vehicle_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var req DocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document file is required"})
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue date"})
		return
	}
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry date"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("vehicle_id", vehicleID).Error("Vehicle document upload failed: vehicle not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	path, err := saveUpload(c, file, config.AppConfig.DocumentDir,
		fmt.Sprintf("vehicle_doc_%d", vehicleID))
	if err != nil {
		log.WithError(err).Error("Failed to store vehicle document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	document := database.VehicleDocument{
		VehicleID:  uint(vehicleID),
		DocType:    req.DocType,
		DocNumber:  req.DocNumber,
		IssueDate:  issueDate,
		ExpiryDate: expiryDate,
		Status:     req.Status,
		FilePath:   path,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&document).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "upload_vehicle_doc",
			fmt.Sprintf("Uploaded %s for vehicle %d", req.DocType, vehicleID))
	})
	if err != nil {
		log.WithError(err).Error("Vehicle document creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	c.JSON(http.StatusOK, document)
}

// ListVehicleDocuments returns a vehicle's documents
func ListVehicleDocuments(c *gin.Context) {
	vehicleID, err := strconv.Atoi(c.Param("vehicle_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("vehicle_id", vehicleID).Error("Vehicle document fetch failed: vehicle not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	var documents []database.VehicleDocument
	if err := database.DB.Where("vehicle_id = ?", vehicleID).Find(&documents).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, documents)
}
