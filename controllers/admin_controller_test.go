package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics/database"
)

func TestAdminUserCRUD(t *testing.T) {
	r := setupRouter(t)
	token := adminToken(t, r)

	// Create
	w := doJSON(t, r, http.MethodPost, "/admin/users", token, gin.H{
		"username":   "erin",
		"email":      "erin@example.com",
		"password":   "pw1",
		"role":       "user",
		"full_name":  "Erin Ops",
		"department": "Operations",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	id := uint(body["id"].(float64))
	assert.Equal(t, "active", body["status"])

	// Read back
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/admin/users/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "erin", decodeBody(t, w)["username"])

	// List includes both accounts
	w = doJSON(t, r, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Update role without touching the password
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), token, gin.H{
		"username": "erin",
		"email":    "erin@example.com",
		"role":     "manager",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "manager", decodeBody(t, w)["role"])

	// The old password still works after an update with an empty password
	login(t, r, "erin", "pw1")

	// Delete
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/admin/users/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.EqualValues(t, 1, activityCount(t, "add_user"))
	assert.EqualValues(t, 1, activityCount(t, "update_user"))
	assert.EqualValues(t, 1, activityCount(t, "delete_user"))
}

func TestAdminCreateUserRequiresPassword(t *testing.T) {
	r := setupRouter(t)
	token := adminToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/admin/users", token, gin.H{
		"username": "frank",
		"email":    "frank@example.com",
		"role":     "user",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password is required", decodeBody(t, w)["error"])
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	r := setupRouter(t)
	token := adminToken(t, r)

	var admin database.User
	require.NoError(t, database.DB.Where("username = ?", "root").First(&admin).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", admin.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete yourself", decodeBody(t, w)["error"])
}

func TestAdminRoutesForbiddenForOthers(t *testing.T) {
	r := setupRouter(t)
	createUser(t, "gina", "gina@example.com", "pw1", database.RoleManager)
	token := login(t, r, "gina", "pw1")

	w := doJSON(t, r, http.MethodGet, "/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Permission denied", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/admin/user-activity", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateUserNotFound(t *testing.T) {
	r := setupRouter(t)
	token := adminToken(t, r)

	w := doJSON(t, r, http.MethodPut, "/admin/users/9999", token, gin.H{
		"username": "ghost",
		"email":    "ghost@example.com",
		"role":     "user",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserActivityTrail(t *testing.T) {
	r := setupRouter(t)
	token := adminToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/admin/users", token, gin.H{
		"username": "henry",
		"email":    "henry@example.com",
		"password": "pw1",
		"role":     "user",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/admin/user-activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []database.UserActivity
	require.NoError(t, database.DB.Find(&rows).Error)
	actions := make(map[string]bool)
	for _, row := range rows {
		actions[row.ActionType] = true
		assert.False(t, row.Timestamp.IsZero())
	}
	assert.True(t, actions["login"])
	assert.True(t, actions["add_user"])
}
