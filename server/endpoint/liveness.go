package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var processStart = time.Now()

// Liveness answers as long as the process can serve HTTP. Components are
// never consulted, so a database outage does not get the process restarted.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "alive",
			"service":        serviceName,
			"uptime_seconds": int64(time.Since(processStart).Seconds()),
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
