package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/config"
	"logistics/database"
	"logistics/utils"
)

// RegisterRequest contains the data for user registration
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=3"`
	Role       string `json:"role" binding:"required,oneof=admin manager user"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// LoginRequest contains the data for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing database.User
	err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		log.WithFields(log.Fields{"username": req.Username, "email": req.Email}).
			Error("Registration failed: username or email already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error during registration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.WithError(err).Error("Password hashing error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	status := req.Status
	if status == "" {
		status = database.UserStatusActive
	}

	user := database.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Department:   req.Department,
		Status:       status,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, user.ID, "register", "User "+user.Username+" registered")
	})
	if err != nil {
		log.WithError(err).Error("User creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login authenticates a user and returns a bearer token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.User
	err := database.DB.Where("username = ?", req.Username).First(&user).Error
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.WithField("username", req.Username).Error("Login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		return
	}

	expiryTime := time.Now().Add(config.GetJWTExpiration())
	token, err := utils.GenerateJWT(user.ID, user.Username, user.Role, expiryTime)
	if err != nil {
		log.WithError(err).Error("JWT error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	now := time.Now()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("last_login", now).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, user.ID, "login", "User logged in")
	})
	if err != nil {
		log.WithError(err).Error("Failed to record login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the authenticated user's profile
func Me(c *gin.Context) {
	var user database.User
	err := database.DB.Where("id = ?", currentUserID(c)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
