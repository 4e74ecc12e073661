package handlers

import (
	"net/http"

	"tripmarket/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers GET /health from the last background probe.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code, label := http.StatusOK, "ok"
	if !status.Healthy && !status.CheckedAt.IsZero() {
		code, label = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{
		"status":    label,
		"services":  status.Services,
		"checkedAt": status.CheckedAt,
	})
}
