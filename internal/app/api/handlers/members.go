package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/membership"
	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/response"
	"github.com/comunidadhq/backend/pkg/types"
)

func memberErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, membership.ErrMemberNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, membership.ErrCreatorImmutable):
		return response.APIResponseCodeForbidden
	case errors.Is(err, membership.ErrInvalidRole):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

// ApiListMembers
// @Summary      Community roster
// @Tags         Members
// @Produce      json
// @Param        search  query  string  false  "name or email filter"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/community/{slug}/members [get]
func ApiListMembers(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membership.ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		members, total, err := svc.List(c.Request.Context(), d.Community.ID, &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(listResponse[models.CommunityMember]{Items: members, Total: total}))
	}
}

type changeRoleRequest struct {
	Role types.MemberRole `json:"role" binding:"required"`
}

// ApiChangeMemberRole promotes or demotes a member. Community admin only.
func ApiChangeMemberRole(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changeRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		err := svc.ChangeRole(c.Request.Context(), d.Community.ID, c.Param("profile_id"), req.Role)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](memberErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiRemoveMember kicks a member out. Community admin only.
func ApiRemoveMember(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		err := svc.Remove(c.Request.Context(), d.Community.ID, c.Param("profile_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](memberErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiLeaveCommunity removes the viewer's own membership.
func ApiLeaveCommunity(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		err := svc.Remove(c.Request.Context(), d.Community.ID, c.GetString(middleware.ContextUserIDKey))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](memberErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
