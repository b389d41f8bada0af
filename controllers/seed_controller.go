package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/database"
	"logistics/utils"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func floatPtr(v float64) *float64 { return &v }

// SeedData populates sample data. Each entity class is skipped when already
// populated, so repeated calls are safe.
func SeedData(c *gin.Context) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var vehicleCount int64
		if err := tx.Model(&database.Vehicle{}).Count(&vehicleCount).Error; err != nil {
			return err
		}
		if vehicleCount == 0 {
			vehicles := []database.Vehicle{
				{RegistrationNumber: "KBZ123Y", VehicleType: "Truck", Capacity: 10000, FuelType: "Diesel",
					Status: database.VehicleStatusActive, LastMaintenance: datePtr(2024, 1, 1),
					Latitude: floatPtr(-1.2921), Longitude: floatPtr(36.8219),
					Speed: 60, FuelLevel: 75, MaintenanceScore: 90},
				{RegistrationNumber: "KCF456X", VehicleType: "Van", Capacity: 5000, FuelType: "Diesel",
					Status: database.VehicleStatusActive, LastMaintenance: datePtr(2024, 1, 1),
					Latitude: floatPtr(-1.3021), Longitude: floatPtr(36.8119),
					Speed: 55, FuelLevel: 80, MaintenanceScore: 85},
				{RegistrationNumber: "KDG789W", VehicleType: "Truck", Capacity: 15000, FuelType: "Diesel",
					Status: database.VehicleStatusMaintenance, LastMaintenance: datePtr(2024, 1, 1),
					Latitude: floatPtr(-1.2821), Longitude: floatPtr(36.8319),
					Speed: 0, FuelLevel: 45, MaintenanceScore: 40},
			}
			if err := tx.Create(&vehicles).Error; err != nil {
				return err
			}
		}

		var driverCount int64
		if err := tx.Model(&database.Driver{}).Count(&driverCount).Error; err != nil {
			return err
		}
		if driverCount == 0 {
			drivers := []database.Driver{
				{Name: "John Doe", LicenseNumber: "DL12345", LicenseExpiry: datePtr(2026, 1, 1),
					Phone: "0712345678", Email: "john@example.com", Status: "Active",
					JoinDate: datePtr(2023, 1, 1), RestHours: 8.0, TotalTrips: 120, Rating: 4.5,
					Notes: "Experienced driver"},
				{Name: "Jane Smith", LicenseNumber: "DL67890", LicenseExpiry: datePtr(2025, 6, 15),
					Phone: "0723456789", Email: "jane@example.com", Status: "Active",
					JoinDate: datePtr(2023, 3, 15), RestHours: 8.0, TotalTrips: 85, Rating: 4.7,
					Notes: "Safe driver"},
				{Name: "Bob Johnson", LicenseNumber: "DL54321", LicenseExpiry: datePtr(2024, 12, 10),
					Phone: "0734567890", Email: "bob@example.com", Status: "On Leave",
					JoinDate: datePtr(2023, 6, 1), RestHours: 0.0, TotalTrips: 65, Rating: 4.2,
					Notes: "New driver"},
			}
			if err := tx.Create(&drivers).Error; err != nil {
				return err
			}
		}

		var adminCount int64
		if err := tx.Model(&database.User{}).Where("username = ?", "admin").Count(&adminCount).Error; err != nil {
			return err
		}
		if adminCount == 0 {
			hash, err := utils.HashPassword("admin123")
			if err != nil {
				return err
			}
			admin := database.User{
				Username:     "admin",
				Email:        "admin@logistics.com",
				PasswordHash: hash,
				Role:         database.RoleAdmin,
				FullName:     "System Administrator",
				Department:   "IT",
				Status:       database.UserStatusActive,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
		}

		return database.LogActivity(tx, 0, "seed_data", "Database seeded with sample data")
	})
	if err != nil {
		log.WithError(err).Error("Seeding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database seeded"})
}
