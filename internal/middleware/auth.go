package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecobin-telemetry/internal/config"
	"ecobin-telemetry/internal/domain/bin"
	appErrors "ecobin-telemetry/pkg/errors"
	"ecobin-telemetry/pkg/utils"
)

const ActorKey = "actor"

// AuthMiddleware verifies the bearer token and stores the derived actor
// in the request context. Authentication failures answer 401 with an
// empty body; the refusal reason goes on the gin error list for the
// request log only. Role checks happen separately in RoleMiddleware.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(appErrors.ErrMissingCredentials)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			_ = c.Error(appErrors.ErrMissingCredentials)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{})
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{})
			return
		}

		actor := &bin.Actor{SubjectID: claims.Subject}
		// An unknown or absent role claim authenticates but authorizes
		// nothing; RoleMiddleware rejects it with 403.
		if role, ok := bin.ParseRole(claims.EffectiveRole()); ok {
			actor.Role = role
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// GetActor retrieves the authenticated actor from the gin context.
func GetActor(c *gin.Context) (*bin.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(*bin.Actor)
	return actor, ok
}
