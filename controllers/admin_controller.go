package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/database"
	"logistics/utils"
)

// UserRequest contains the data for admin user create/update. Password is
// optional on update: empty keeps the stored hash.
type UserRequest struct {
	Username   string `json:"username" binding:"required,min=3"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password"`
	Role       string `json:"role" binding:"required,oneof=admin manager user"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// ListUsers returns all users
func ListUsers(c *gin.Context) {
	var users []database.User
	if err := database.DB.Find(&users).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID returns one user
func GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user database.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
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

// AdminCreateUser creates a user on behalf of an admin
func AdminCreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	var existing database.User
	err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		log.WithFields(log.Fields{"username": req.Username, "email": req.Email}).
			Error("User creation failed: username or email already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error")
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
		return database.LogActivity(tx, currentUserID(c), "add_user", "Added user "+user.Username)
	})
	if err != nil {
		log.WithError(err).Error("User creation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser replaces a user's fields. An empty password leaves the stored
// hash untouched.
func UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("user_id", id).Error("User update failed: not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	var existing database.User
	err = database.DB.Where("(username = ? OR email = ?) AND id <> ?", req.Username, req.Email, id).
		First(&existing).Error
	if err == nil {
		log.WithFields(log.Fields{"username": req.Username, "email": req.Email}).
			Error("User update failed: username or email already exists")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	status := req.Status
	if status == "" {
		status = database.UserStatusActive
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Role = req.Role
	user.FullName = req.FullName
	user.Phone = req.Phone
	user.Department = req.Department
	user.Status = status
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			log.WithError(err).Error("Password hashing error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}
		user.PasswordHash = hash
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "update_user", "Updated user "+user.Username)
	})
	if err != nil {
		log.WithError(err).Error("User update error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser hard-deletes a user. Admins cannot delete themselves.
func DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user database.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("user_id", id).Error("User deletion failed: not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	if user.ID == currentUserID(c) {
		log.WithField("user_id", id).Error("User deletion failed: cannot delete self")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return database.LogActivity(tx, currentUserID(c), "delete_user", "Deleted user "+user.Username)
	})
	if err != nil {
		log.WithError(err).Error("User deletion error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListUserActivity returns the full activity trail
func ListUserActivity(c *gin.Context) {
	var activity []database.UserActivity
	if err := database.DB.Find(&activity).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, activity)
}
