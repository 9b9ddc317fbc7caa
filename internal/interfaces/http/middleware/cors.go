// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boutique-backend/internal/config"
)

// CORS allows the storefront and admin SPAs to call the API from their own
// origins. Allowed origins, methods and headers come from config; the header
// list must include X-Cart-Session or guest carts break cross-origin.
func CORS(cfg *config.Config) gin.HandlerFunc {
	methods := strings.Join(cfg.Security.CORSAllowedMethods, ", ")
	headers := strings.Join(cfg.Security.CORSAllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if originAllowed(origin, cfg.Security.CORSAllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// originAllowed matches an origin against the configured list. "*" allows
// everything; "*.example.com" entries match by suffix.
func originAllowed(origin string, allowed []string) bool {
	for _, entry := range allowed {
		if entry == "*" || entry == origin {
			return true
		}
		if strings.HasPrefix(entry, "*.") && strings.HasSuffix(origin, strings.TrimPrefix(entry, "*.")) {
			return true
		}
	}
	return false
}
