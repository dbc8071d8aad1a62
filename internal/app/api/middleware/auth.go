package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/service/auth"
	"github.com/comunidadhq/backend/internal/platform/redisstore"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/response"
)

// ContextUserIDKey is the gin.Context key the authenticated profile id is
// stored under.
const ContextUserIDKey = "user_id"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// resolveSession validates the bearer token against the session store.
// Returns the profile id, or "" when there is no valid session.
func resolveSession(c *gin.Context, issuer *auth.TokenIssuer, sessions *redisstore.SessionStore) string {
	token := bearerToken(c)
	if token == "" {
		return ""
	}
	claims, err := issuer.ParseAccess(token)
	if err != nil {
		return ""
	}
	// The stored token must match: an older token invalidated by logout or a
	// newer login must not authenticate. A store failure counts as no
	// session (fail closed).
	stored, err := sessions.Get(c.Request.Context(), claims.ProfileID)
	if err != nil || stored != token {
		return ""
	}
	_ = sessions.Extend(c.Request.Context(), claims.ProfileID)
	return claims.ProfileID
}

func attachIdentity(c *gin.Context, profileID string) {
	c.Set(ContextUserIDKey, profileID)
	c.Request = c.Request.WithContext(logctx.WithUserID(c.Request.Context(), profileID))
}

// RequireAuth rejects requests without a valid session.
func RequireAuth(issuer *auth.TokenIssuer, sessions *redisstore.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := resolveSession(c, issuer, sessions)
		if profileID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing or invalid session"))
			return
		}
		attachIdentity(c, profileID)
		c.Next()
	}
}

// OptionalAuth resolves the session when present but never aborts; the
// request proceeds anonymously on any failure. Used for routes (community
// about, discovery) that are viewable without standing.
func OptionalAuth(issuer *auth.TokenIssuer, sessions *redisstore.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if profileID := resolveSession(c, issuer, sessions); profileID != "" {
			attachIdentity(c, profileID)
		}
		c.Next()
	}
}
