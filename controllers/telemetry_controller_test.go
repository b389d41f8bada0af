package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics/database"
)

func TestOptimizeRoute(t *testing.T) {
	r := setupRouter(t)
	token := managerToken(t, r)
	vehicleID := createVehicle(t, "KBZ123Y")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/optimize-route?vehicle_id=%d", vehicleID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)

	fuelSaved := body["fuel_saved_percent"].(float64)
	timeSaved := body["time_saved_percent"].(float64)
	assert.GreaterOrEqual(t, fuelSaved, 15.0)
	assert.Less(t, fuelSaved, 20.0)
	assert.GreaterOrEqual(t, timeSaved, 15.0)
	assert.Less(t, timeSaved, 20.0)

	// carbon = fuel saved * 2.68 * fuel level
	carbon := body["carbon_reduction"].(float64)
	assert.InDelta(t, fuelSaved*2.68*100, carbon, 0.001)

	assert.EqualValues(t, 1, activityCount(t, "optimize_route"))
}

func TestOptimizeRouteMissingVehicle(t *testing.T) {
	r := setupRouter(t)
	token := managerToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/optimize-route?vehicle_id=9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/optimize-route?vehicle_id=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulatedUpdates(t *testing.T) {
	r := setupRouter(t)
	token := managerToken(t, r)
	vehicleID := createVehicle(t, "KCF456X")
	createDriver(t, "John Doe", "DL12345")

	var before database.Vehicle
	require.NoError(t, database.DB.First(&before, vehicleID).Error)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodGet, "/simulated-updates", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Contains(t, body, "vehicles")
		assert.Contains(t, body, "drivers")

		var after database.Vehicle
		require.NoError(t, database.DB.First(&after, vehicleID).Error)

		// Fuel and maintenance score only ever decrease, bounded at zero
		assert.LessOrEqual(t, after.FuelLevel, before.FuelLevel)
		assert.GreaterOrEqual(t, after.FuelLevel, 0.0)
		assert.LessOrEqual(t, after.MaintenanceScore, before.MaintenanceScore)
		assert.GreaterOrEqual(t, after.MaintenanceScore, 0.0)
		require.NotNil(t, after.Latitude)
		require.NotNil(t, after.Longitude)
		if after.Status != database.VehicleStatusActive {
			assert.Zero(t, after.Speed)
		}
		before = after
	}

	var drivers []database.Driver
	require.NoError(t, database.DB.Find(&drivers).Error)
	for _, d := range drivers {
		assert.LessOrEqual(t, d.Rating, 5.0)
	}

	assert.EqualValues(t, 3, activityCount(t, "simulate_updates"))
}

func TestWebSocketUpdates(t *testing.T) {
	r := setupRouter(t)
	token := managerToken(t, r)
	vehicleID := createVehicle(t, "KDG789W")

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/updates?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	lat, lon, speed := -1.3000, 36.8000, 72.5
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"vehicle_id": vehicleID,
		"latitude":   lat,
		"longitude":  lon,
		"speed":      speed,
	}))

	var ack map[string]interface{}
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "updated", ack["status"])
	assert.EqualValues(t, vehicleID, ack["vehicle_id"])

	var vehicle database.Vehicle
	require.NoError(t, database.DB.First(&vehicle, vehicleID).Error)
	require.NotNil(t, vehicle.Latitude)
	assert.Equal(t, lat, *vehicle.Latitude)
	require.NotNil(t, vehicle.Longitude)
	assert.Equal(t, lon, *vehicle.Longitude)
	assert.Equal(t, speed, vehicle.Speed)
}

func TestWebSocketSkipsUnknownVehicle(t *testing.T) {
	r := setupRouter(t)
	token := managerToken(t, r)
	vehicleID := createVehicle(t, "KEE555E")

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/updates?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Unknown vehicles are skipped silently; the next valid update is acked
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"vehicle_id": 9999, "speed": 10.0}))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"vehicle_id": vehicleID, "speed": 20.0}))

	var ack map[string]interface{}
	require.NoError(t, conn.ReadJSON(&ack))
	assert.EqualValues(t, vehicleID, ack["vehicle_id"])
}

// A syntactically valid token is not enough: the account behind it must
// still exist and be active, as on every HTTP route.
func TestWebSocketRejectsStaleAccounts(t *testing.T) {
	r := setupRouter(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsBase := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/updates?token="

	// Deleted account
	id := createUser(t, "gone", "gone@example.com", "pw1", database.RoleUser)
	token := login(t, r, "gone", "pw1")
	require.NoError(t, database.DB.Delete(&database.User{}, id).Error)

	conn, resp, err := websocket.DefaultDialer.Dial(wsBase+token, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Could not validate credentials", body["error"])

	// Suspended account
	id = createUser(t, "benched", "benched@example.com", "pw1", database.RoleUser)
	token = login(t, r, "benched", "pw1")
	require.NoError(t, database.DB.Model(&database.User{}).
		Where("id = ?", id).Update("status", "suspended").Error)

	conn, resp, err = websocket.DefaultDialer.Dial(wsBase+token, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "Account is not active", body["error"])
}

func TestWebSocketRequiresToken(t *testing.T) {
	r := setupRouter(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/updates"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid or expired token", body["error"])
}
