package middleware

import (
	"net/http"
	"strings"

	"tripmarket/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware validates the bearer token and stores its subject and role
// in the context. With roles given, tokens carrying any other role are refused.
func JWTAuthMiddleware(secret []byte, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortJSON(c, http.StatusUnauthorized, "unauthenticated", "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ExtractClaims(secret, tokenString)
		if err != nil {
			zap.L().Debug("Rejected token", zap.Error(err), zap.String("ip", getClientIP(c)))
			utils.AbortJSON(c, http.StatusUnauthorized, "unauthenticated", "Invalid token")
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			utils.AbortJSON(c, http.StatusForbidden, "forbidden", "Token role is not allowed here")
			return
		}

		c.Set(utils.SubjectKey, claims.Subject)
		c.Set(utils.RoleKey, claims.Role)
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// VendorScopeMiddleware lets a vendor token act only on its own :vendorId.
// Admin tokens may act on any vendor.
func VendorScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(utils.RoleKey) == utils.RoleAdmin {
			c.Next()
			return
		}
		if c.GetString(utils.RoleKey) != utils.RoleVendor || c.GetString(utils.SubjectKey) != c.Param("vendorId") {
			utils.AbortJSON(c, http.StatusForbidden, "forbidden", "Token does not belong to this vendor")
			return
		}
		c.Next()
	}
}
