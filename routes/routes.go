package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logistics/controllers"
	"logistics/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine) {
	// Public routes (no authentication required)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the HC Logistics SaaS!"})
	})
	r.POST("/register", controllers.Register)
	r.POST("/login", controllers.Login)
	r.POST("/seed-data", controllers.SeedData)

	// The realtime channel authenticates inside the handler so browser
	// clients can pass the token as a query parameter
	r.GET("/ws/updates", controllers.WebSocketUpdates)

	// Protected routes (authentication required)
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", controllers.Me)

		// Vehicles (writes are manager-or-admin, reads any authenticated user)
		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", controllers.ListVehicles)
			vehicles.GET("/:id", controllers.GetVehicleByID)
			vehicles.POST("", middleware.ManagerAuthMiddleware(), controllers.CreateVehicle)
			vehicles.PUT("/:id", middleware.ManagerAuthMiddleware(), controllers.UpdateVehicle)
			vehicles.DELETE("/:id", middleware.ManagerAuthMiddleware(), controllers.DeleteVehicle)
		}

		// Drivers
		drivers := protected.Group("/drivers")
		{
			drivers.GET("", controllers.ListDrivers)
			drivers.GET("/:id", controllers.GetDriverByID)
			drivers.POST("", middleware.ManagerAuthMiddleware(), controllers.CreateDriver)
			drivers.PUT("/:id", middleware.ManagerAuthMiddleware(), controllers.UpdateDriver)
			drivers.DELETE("/:id", middleware.ManagerAuthMiddleware(), controllers.DeleteDriver)
		}

		// Documents
		protected.POST("/driver-documents", middleware.ManagerAuthMiddleware(), controllers.UploadDriverDocument)
		protected.GET("/driver-documents/:driver_id", controllers.ListDriverDocuments)
		protected.POST("/vehicle-documents", middleware.ManagerAuthMiddleware(), controllers.UploadVehicleDocument)
		protected.GET("/vehicle-documents/:vehicle_id", controllers.ListVehicleDocuments)

		// Costs
		protected.POST("/costs", middleware.ManagerAuthMiddleware(), controllers.CreateCost)
		protected.GET("/costs", controllers.ListCosts)

		// Maintenance
		protected.POST("/maintenance-records", middleware.ManagerAuthMiddleware(), controllers.CreateMaintenanceRecord)
		protected.GET("/maintenance-records", controllers.ListMaintenanceRecords)

		// Telemetry
		protected.POST("/optimize-route", controllers.OptimizeRoute)
		protected.GET("/simulated-updates", controllers.SimulatedUpdates)

		// Admin routes
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/users", controllers.ListUsers)
			admin.POST("/users", controllers.AdminCreateUser)
			admin.GET("/users/:id", controllers.GetUserByID)
			admin.PUT("/users/:id", controllers.UpdateUser)
			admin.DELETE("/users/:id", controllers.DeleteUser)
			admin.GET("/user-activity", controllers.ListUserActivity)
		}

		protected.POST("/backup", middleware.AdminAuthMiddleware(), controllers.CreateBackup)
		protected.POST("/restore", middleware.AdminAuthMiddleware(), controllers.RestoreBackup)
	}
}
