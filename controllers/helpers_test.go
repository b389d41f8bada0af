package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"logistics/config"
	"logistics/database"
	"logistics/routes"
	"logistics/utils"
)

// setupRouter builds the full application router backed by a fresh in-memory
// database named after the test
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DOCUMENT_DIR", t.TempDir())
	t.Setenv("RECEIPT_DIR", t.TempDir())
	t.Setenv("BACKUP_DIR", t.TempDir())
	config.InitConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// doJSON performs a JSON request against the router
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response body into a map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// createUser inserts a user directly and returns its id
func createUser(t *testing.T, username, email, password, role string) uint {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := database.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       database.UserStatusActive,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user.ID
}

// login authenticates and returns a bearer token
func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, ok := body["access_token"].(string)
	require.True(t, ok)
	return token
}

// adminToken creates an admin account and logs it in
func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	createUser(t, "root", "root@logistics.com", "rootpw", database.RoleAdmin)
	return login(t, r, "root", "rootpw")
}

// managerToken creates a manager account and logs it in
func managerToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	createUser(t, "mgr", "mgr@logistics.com", "mgrpw", database.RoleManager)
	return login(t, r, "mgr", "mgrpw")
}

// activityCount returns the number of activity rows for an action type
func activityCount(t *testing.T, actionType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Model(&database.UserActivity{}).
		Where("action_type = ?", actionType).Count(&count).Error)
	return count
}
