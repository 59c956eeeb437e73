package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/session"
)

const (
	identityKey = "identity"
	tokenKey    = "session_token"
)

// Auth resolves the bearer token to an Identity and stores it on the
// context. Requests without a valid session are rejected with 401.
func Auth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		identity, err := store.Get(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				if log := GetLogger(c); log != nil {
					log.Error("Session lookup failed", err, map[string]interface{}{
						"path": c.Request.URL.Path,
					})
				}
				abortWithError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Session store unavailable")
				return
			}
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Session expired or invalid")
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, token)
		if log := GetLogger(c); log != nil {
			c.Set(loggerKey, log.WithUserID(identity.ID))
		}

		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !identity.IsAdmin() {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required")
			return
		}
		c.Next()
	}
}

// GetIdentity returns the authenticated caller set by Auth.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	if v, exists := c.Get(identityKey); exists {
		if identity, ok := v.(models.Identity); ok {
			return identity, true
		}
	}
	return models.Identity{}, false
}

// GetSessionToken returns the bearer token validated by Auth.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
