package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Address Verifier Service",
			"version": "1.0.0",
			"endpoints": map[string]string{
				"standardize_line":  "POST /usps/standardize-line",
				"retry":             "POST /usps/retry",
				"standardize_lines": "POST /usps/standardize-lines",
				"geocode_line":      "POST /here/geocode-line",
				"verify_line":       "POST /verify-line",
				"county_resolve":    "GET /county/resolve?county=&state=",
				"health":            "GET /health",
			},
		})
	})
}
