package routes

import (
	"github.com/address-verifier/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes thiết lập tất cả API routes.
// Route pipeline có ở cả gốc và dưới /api.
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, geocodeController *controllers.GeocodeController, adminController *controllers.AdminController) {
	for _, base := range []*gin.RouterGroup{&router.RouterGroup, router.Group("/api")} {
		// USPS routes
		usps := base.Group("/usps")
		{
			usps.POST("/standardize-line", addressController.StandardizeLine)
			usps.POST("/retry", addressController.Retry)
			usps.POST("/standardize-lines", addressController.StandardizeLines)
		}

		// HERE routes
		base.POST("/here/geocode-line", geocodeController.GeocodeLine)
		base.POST("/verify-line", addressController.VerifyLine)
		base.GET("/county/resolve", geocodeController.ResolveCounty)
	}

	// API v1 group
	v1 := router.Group("/v1")
	{
		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.GET("/counties", adminController.ListCounties)
			admin.POST("/counties/seed", adminController.SeedCounties)
		}

		// Health check route
		v1.GET("/health", addressController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	// Root health check
	router.GET("/health", addressController.HealthCheck)

	// Readiness check
	router.GET("/ready", adminController.Ready)

	// Liveness check
	router.GET("/live", addressController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, geocodeController *controllers.GeocodeController, adminController *controllers.AdminController) {
	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController, adminController)
	SetupAPIRoutes(router, addressController, geocodeController, adminController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}
