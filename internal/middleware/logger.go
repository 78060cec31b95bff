package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/logger"
)

// RequestIDHeader carries the per-request ID in responses
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns every request a UUID and logs it once the handler chain returns
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()
		start := time.Now()

		c.Set(constants.ContextKeyRequest, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		fields := []interface{}{
			"request_id", reqID,
			"method", c.Request.Method,
			"uri", c.Request.URL.RequestURI(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"response_size", c.Writer.Size(),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, "user_id", userID)
		}

		switch {
		case len(c.Errors) > 0:
			logger.Log.Errorw(c.Errors.String(), fields...)
		case c.Writer.Status() >= 500:
			logger.Log.Errorw("request", fields...)
		default:
			logger.Log.Infow("request", fields...)
		}
	}
}

// GetRequestID returns the ID assigned by RequestLogger
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequest)
}
