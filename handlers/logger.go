package handlers

import (
	"tripmarket/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped Zap logger from the Gin context, or the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(utils.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// subject returns the authenticated caller id set by the auth middleware.
func subject(c *gin.Context) string {
	return c.GetString(utils.SubjectKey)
}
