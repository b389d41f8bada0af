package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// currentUserID returns the authenticated user's id from the request context
func currentUserID(c *gin.Context) uint {
	v, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// parseDate parses an optional YYYY-MM-DD form value
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
