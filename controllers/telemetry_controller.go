package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"logistics/database"
	"logistics/simulation"
	"logistics/utils"
)

var sim = simulation.New(time.Now().UnixNano())

// RouteOptimizationResponse is the result of a simulated optimization run
type RouteOptimizationResponse struct {
	VehicleID        uint    `json:"vehicle_id"`
	FuelSavedPercent float64 `json:"fuel_saved_percent"`
	TimeSavedPercent float64 `json:"time_saved_percent"`
	CarbonReduction  float64 `json:"carbon_reduction"`
}

// OptimizeRoute returns simulated savings for a vehicle
func OptimizeRoute(c *gin.Context) {
	vehicleID, err := strconv.Atoi(c.Query("vehicle_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.Where("id = ?", vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithField("vehicle_id", vehicleID).Error("Route optimization failed: vehicle not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			log.WithError(err).Error("Database error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	fuelSaved, timeSaved := sim.RouteEstimate()
	carbon := 0.0
	if vehicle.FuelLevel > 0 {
		carbon = fuelSaved * 2.68 * vehicle.FuelLevel
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return database.LogActivity(tx, currentUserID(c), "optimize_route",
			"Optimized route for vehicle "+strconv.Itoa(vehicleID))
	})
	if err != nil {
		log.WithError(err).Error("Failed to log route optimization")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, RouteOptimizationResponse{
		VehicleID:        uint(vehicleID),
		FuelSavedPercent: fuelSaved,
		TimeSavedPercent: timeSaved,
		CarbonReduction:  carbon,
	})
}

// SimulatedUpdates applies one simulation tick to the whole fleet and
// returns the mutated snapshot. All mutations commit as one batch.
func SimulatedUpdates(c *gin.Context) {
	var vehicles []database.Vehicle
	if err := database.DB.Find(&vehicles).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	var drivers []database.Driver
	if err := database.DB.Find(&drivers).Error; err != nil {
		log.WithError(err).Error("Database error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	sim.Step(vehicles, drivers)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := range vehicles {
			if err := tx.Save(&vehicles[i]).Error; err != nil {
				return err
			}
		}
		for i := range drivers {
			if err := tx.Save(&drivers[i]).Error; err != nil {
				return err
			}
		}
		return database.LogActivity(tx, currentUserID(c), "simulate_updates",
			"Fetched simulated vehicle and driver updates")
	})
	if err != nil {
		log.WithError(err).Error("Failed to commit simulated updates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"drivers":  drivers,
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// positionUpdate is a client-pushed vehicle update on the realtime channel
type positionUpdate struct {
	VehicleID uint     `json:"vehicle_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Speed     *float64 `json:"speed"`
	FuelLevel *float64 `json:"fuel_level"`
}

// WebSocketUpdates accepts client-pushed position updates and acknowledges
// each applied one. The token comes from the Authorization header or, for
// browser clients that cannot set headers on a websocket, the token query
// parameter.
func WebSocketUpdates(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && header[:7] == "Bearer " {
			token = header[7:]
		}
	}
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	// The token identity must still exist and have an active account,
	// matching the HTTP middleware gate
	var user database.User
	if err := database.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.WithError(err).Error("User lookup failed during websocket authentication")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
		return
	}
	if user.Status != database.UserStatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not active"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var update positionUpdate
		if err := conn.ReadJSON(&update); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Error("WebSocket error")
			}
			return
		}

		var vehicle database.Vehicle
		if err := database.DB.Where("id = ?", update.VehicleID).First(&vehicle).Error; err != nil {
			// unknown vehicles are skipped without a reply
			continue
		}

		if update.Latitude != nil {
			vehicle.Latitude = update.Latitude
		}
		if update.Longitude != nil {
			vehicle.Longitude = update.Longitude
		}
		if update.Speed != nil {
			vehicle.Speed = *update.Speed
		}
		if update.FuelLevel != nil {
			vehicle.FuelLevel = *update.FuelLevel
		}

		if err := database.DB.Save(&vehicle).Error; err != nil {
			log.WithError(err).Error("Failed to apply position update")
			continue
		}

		if err := conn.WriteJSON(gin.H{"status": "updated", "vehicle_id": vehicle.ID}); err != nil {
			log.WithError(err).Error("WebSocket write failed")
			return
		}
	}
}
