package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints a minimal request log including request_id and, when the auth
// middleware has run, the last four digits of the caller's phone number. Full
// phone numbers never reach the logs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		reqID := GetRequestID(c)
		status := c.Writer.Status()

		log.Printf("[HTTP] request_id=%s method=%s path=%s status=%d latency_ms=%.3f bytes=%d ip=%s user=%s",
			reqID,
			c.Request.Method,
			c.Request.URL.Path,
			status,
			float64(latency.Microseconds())/1000.0,
			c.Writer.Size(),
			c.ClientIP(),
			logUser(c),
		)
	}
}

func logUser(c *gin.Context) string {
	phone := GetPhoneNumber(c)
	if len(phone) < 4 {
		return "-"
	}
	return "*" + phone[len(phone)-4:]
}
