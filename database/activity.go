package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LogActivity appends an entry to the user activity trail on the given
// handle. Callers pass their transaction so the entry commits together with
// the action it describes.
func LogActivity(tx *gorm.DB, userID uint, actionType, details string) error {
	activity := UserActivity{
		UserID:        userID,
		ActionType:    actionType,
		ActionDetails: details,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"action":  actionType,
	}).Info(details)
	return nil
}
