package handlers

import (
	"net/http"

	intconfig "trainbuddy/internal/config"
	"trainbuddy/internal/domain"

	"github.com/gin-gonic/gin"
)

// Health reports process liveness.
func Health(c *gin.Context) {
	OK(c, gin.H{"status": "ok"})
}

// DBCheck pings the database so deploys can verify connectivity.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"errorCode": domain.CodeDBUnavailable,
			"message":   "Database is unavailable",
		})
		return
	}
	OK(c, gin.H{"database": "up"})
}
