package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/config"
	"logistics/database"
)

// CostRequest contains the data for a cost entry. It binds from JSON or,
// when a receipt file is attached, from multipart form fields.
type CostRequest struct {
	Date        string  `json:"date" form:"date" binding:"required"`
	Category    string  `json:"category" form:"category" binding:"required"`
	Amount      float64 `json:"amount" form:"amount" binding:"required"`
	Description string  `json:"description" form:"description"`
	VehicleID   *uint   `json:"vehicle_id" form:"vehicle_id"`
	DriverID    *uint   `json:"driver_id" form:"driver_id"`
	Status      string  `json:"status" form:"status"`
}

// CreateCost records a cost entry with an optional receipt upload
func CreateCost(c *gin.Context) {
	var req CostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	receiptPath := ""
	if file, err := c.FormFile("receipt"); err == nil {
		receiptPath, err = saveUpload(c, file, config.AppConfig.ReceiptDir, "receipt")
		if err != nil {
			log.WithError(err).Error("Failed to store receipt")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store receipt"})
			return
		}
	}

	cost := database.Cost{
		Date:        *date,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		ReceiptPath: receiptPath,
		Status:      req.Status,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cost).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "add_cost",
			fmt.Sprintf("Added %s cost of %.2f", cost.Category, cost.Amount))
	})
	if err != nil {
		log.WithError(err).Error("Cost creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cost"})
		return
	}

	c.JSON(http.StatusOK, cost)
}

// ListCosts returns all cost entries
func ListCosts(c *gin.Context) {
	var costs []database.Cost
	if err := database.DB.Find(&costs).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, costs)
}
