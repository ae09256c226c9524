package routes

import (
	"time"

	"github.com/address-verifier/helpers/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDHeader header mang request id
const RequestIDHeader = "X-Request-ID"

// SetupMiddleware thiết lập middleware cho router
func SetupMiddleware(router *gin.Engine, logger *zap.Logger) {
	// Recovery middleware
	router.Use(gin.Recovery())

	router.Use(RequestID())
	router.Use(RequestLogger(logger))
}

// RequestID giữ request id từ client hoặc tạo mới
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = utils.GenerateUUID()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger log mỗi request bằng zap
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}
