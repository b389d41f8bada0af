package database

import (
	"time"
)

// User represents an account in the back office
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"size:20;not null" json:"role"` // admin, manager, user
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone"`
	Department   string     `json:"department"`
	Status       string     `gorm:"default:active" json:"status"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserActivity is the append-only audit trail. Rows are never updated or
// deleted; user_id 0 marks system actions such as seeding.
type UserActivity struct {
	ActivityID    uint      `gorm:"primaryKey" json:"activity_id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	ActionType    string    `gorm:"size:50;not null" json:"action_type"`
	ActionDetails string    `gorm:"type:text" json:"action_details"`
	Timestamp     time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	RegistrationNumber string     `gorm:"uniqueIndex;size:50;not null" json:"registration_number"`
	VehicleType        string     `gorm:"not null" json:"vehicle_type"` // Truck, Van, etc.
	Capacity           float64    `json:"capacity"`
	FuelType           string     `json:"fuel_type"` // Diesel, Petrol, etc.
	Status             string     `json:"status"`
	LastMaintenance    *time.Time `json:"last_maintenance"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
	Speed              float64    `gorm:"default:0" json:"speed"`
	FuelLevel          float64    `gorm:"default:100" json:"fuel_level"`
	MaintenanceScore   float64    `gorm:"default:100" json:"maintenance_score"`
	DriverID           *uint      `gorm:"index" json:"driver_id"`
}

// Driver represents a fleet driver
type Driver struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	LicenseNumber string     `gorm:"uniqueIndex;size:50;not null" json:"license_number"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	JoinDate      *time.Time `json:"join_date"`
	RestHours     float64    `gorm:"default:8" json:"rest_hours"`
	LastDutyEnd   *time.Time `json:"last_duty_end"`
	TotalTrips    int        `gorm:"default:0" json:"total_trips"`
	Rating        float64    `gorm:"default:0" json:"rating"`
	Notes         string     `gorm:"type:text" json:"notes"`
}

// DriverDocument is a document filed against a driver
type DriverDocument struct {
	DocID      uint       `gorm:"primaryKey" json:"doc_id"`
	DriverID   uint       `gorm:"index;not null" json:"driver_id"`
	DocType    string     `gorm:"not null" json:"doc_type"`
	DocNumber  string     `json:"doc_number"`
	IssueDate  *time.Time `json:"issue_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
	Status     string     `json:"status"`
	FilePath   string     `json:"file_path"`
}

// VehicleDocument is a document filed against a vehicle
type VehicleDocument struct {
	DocID      uint       `gorm:"primaryKey" json:"doc_id"`
	VehicleID  uint       `gorm:"index;not null" json:"vehicle_id"`
	DocType    string     `gorm:"not null" json:"doc_type"`
	DocNumber  string     `json:"doc_number"`
	IssueDate  *time.Time `json:"issue_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
	Status     string     `json:"status"`
	FilePath   string     `json:"file_path"`
}

// Cost is an expense entry, optionally tied to a vehicle and/or driver
type Cost struct {
	CostID      uint      `gorm:"primaryKey" json:"cost_id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Category    string    `gorm:"not null" json:"category"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"type:text" json:"description"`
	VehicleID   *uint     `gorm:"index" json:"vehicle_id"`
	DriverID    *uint     `gorm:"index" json:"driver_id"`
	ReceiptPath string    `json:"receipt_path"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// MaintenanceRecord tracks scheduled and completed vehicle maintenance
type MaintenanceRecord struct {
	RecordID            uint       `gorm:"primaryKey" json:"record_id"`
	VehicleID           uint       `gorm:"index;not null" json:"vehicle_id"`
	MaintenanceType     string     `gorm:"not null" json:"maintenance_type"`
	Date                time.Time  `gorm:"not null" json:"date"`
	Cost                float64    `json:"cost"`
	Notes               string     `gorm:"type:text" json:"notes"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
	Status              string     `json:"status"`
}

// TableName overrides keep the original table names
func (UserActivity) TableName() string { return "user_activity" }

// Constants for roles and status values
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"

	UserStatusActive = "active"

	VehicleStatusActive      = "Active"
	VehicleStatusIdle        = "Idle"
	VehicleStatusMaintenance = "Maintenance"

	DriverStatusAvailable = "Available"
	DriverStatusOnTrip    = "On Trip"
	DriverStatusOffDuty   = "Off Duty"

	MaintenanceStatusCompleted = "Completed"
)
