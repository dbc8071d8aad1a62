package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/service/auth"
	"github.com/comunidadhq/backend/pkg/response"
	"github.com/comunidadhq/backend/pkg/types"
)

// RequirePlatformAdmin gates the admin surface on the global profile role.
// Must run after RequireAuth.
func RequirePlatformAdmin(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetString(ContextUserIDKey)
		profile, err := authSvc.ProfileByID(c.Request.Context(), profileID)
		if err != nil || profile.Role != types.PlatformRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorT[any](response.APIResponseCodeForbidden, "platform admin role required"))
			return
		}
		c.Next()
	}
}
