package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecobin-telemetry/internal/domain/bin"
	"ecobin-telemetry/pkg/utils"
)

func RoleMiddleware(allowedRoles ...bin.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if actor.Role == allowed {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func DeviceOnly() gin.HandlerFunc {
	return RoleMiddleware(bin.RoleDevice)
}

func OperatorOnly() gin.HandlerFunc {
	return RoleMiddleware(bin.RoleOperator)
}

func HostOrOperator() gin.HandlerFunc {
	return RoleMiddleware(bin.RoleHost, bin.RoleOperator)
}
