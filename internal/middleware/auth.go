// Package middleware provides HTTP middleware for the listings API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/internal/auth"
	"github.com/manojtanwar99/stayvira/internal/metrics"
	"github.com/manojtanwar99/stayvira/internal/models"
)

// PrincipalKey is the gin context key holding the *auth.Principal.
const PrincipalKey = "principal"

const bearerPrefix = "Bearer "

// Authenticator turns a raw bearer token into a principal.
type Authenticator interface {
	Authenticate(token string) (*auth.Principal, error)
}

// Authenticate rejects requests without a valid bearer token. On success the
// principal is stored on the gin context and on the request context.
func Authenticate(authenticator Authenticator, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			m.ObserveTokenRejection(metrics.RejectMissing)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		principal, err := authenticator.Authenticate(token)
		if err != nil {
			m.ObserveTokenRejection(metrics.RejectInvalid)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), principal))
		c.Next()
	}
}

// RequireCapability aborts with 403 unless the authenticated principal's role
// grants capability. It must run after Authenticate.
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		if !principal.Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*auth.Principal); ok && p != nil {
			return p, true
		}
	}
	return auth.FromContext(c.Request.Context())
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
