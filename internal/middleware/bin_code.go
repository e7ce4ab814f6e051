package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "ecobin-telemetry/pkg/errors"
	"ecobin-telemetry/pkg/utils"
)

// RequireBinCodeMiddleware rejects ingest requests that omit the routing
// key. It runs before the rate limiter and before any body parsing, so a
// keyless request never consumes quota from the shared fallback bucket.
func RequireBinCodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("bin_code") == "" {
			_ = c.Error(appErrors.ErrMissingBinCode)
			utils.ErrorResponse(c, http.StatusBadRequest, "Missing required parameter: bin_code")
			c.Abort()
			return
		}

		c.Next()
	}
}
