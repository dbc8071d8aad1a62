package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comunidadhq/backend/internal/app/service/access"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/response"
)

// ContextDecisionKey is the gin.Context key the settled access decision is
// stored under for downstream handlers.
const ContextDecisionKey = "access_decision"

// CommunityGuard resolves the (slug, identity) permission state and applies
// the routing rules for the given section before any handler runs. The
// decision is re-evaluated on every request, so a join is reflected on the
// next navigation without extra invalidation.
func CommunityGuard(resolver *access.Resolver, base *zap.SugaredLogger, section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		profileID := c.GetString(ContextUserIDKey)

		decision, err := resolver.Resolve(c.Request.Context(), slug, profileID)
		if err != nil {
			logctx.FromGin(c, base).Errorw("access resolution failed", "slug", slug, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.ErrorT[any](response.APIResponseCodeError, "failed to resolve community access"))
			return
		}

		redirect, allowed := decision.RouteFor(section)
		if !allowed {
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}

		c.Set(ContextDecisionKey, decision)
		c.Next()
	}
}

// Decision retrieves the guard's settled decision; handlers behind
// CommunityGuard can rely on it being present.
func Decision(c *gin.Context) *access.Decision {
	if v, ok := c.Get(ContextDecisionKey); ok {
		if d, ok := v.(*access.Decision); ok {
			return d
		}
	}
	return nil
}

// RequireCommunityAdmin gates management sections (settings, payment
// methods, role changes) on the admin membership role.
func RequireCommunityAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := Decision(c)
		if d == nil || !d.IsCommunityAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorT[any](response.APIResponseCodeForbidden, "community admin role required"))
			return
		}
		c.Next()
	}
}
