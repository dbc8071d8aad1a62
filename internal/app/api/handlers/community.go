package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/community"
	"github.com/comunidadhq/backend/internal/app/service/membership"
	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/response"
)

// listResponse is the shared paged-list envelope body.
type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// ApiDiscoverCommunities
// @Summary      Browse communities
// @Tags         Community
// @Produce      json
// @Param        search  query  string  false  "name filter"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /communities [get]
func ApiDiscoverCommunities(svc *community.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req community.ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, total, err := svc.List(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(listResponse[models.Community]{Items: items, Total: total}))
	}
}

// ApiCreateCommunity
// @Summary      Create a community
// @Tags         Community
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.Community]
// @Router       /api/v1/communities [post]
func ApiCreateCommunity(svc *community.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req community.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		created, err := svc.Create(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), &req)
		if errors.Is(err, community.ErrSlugTaken) {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// ApiMyCommunities lists the viewer's communities for the switcher.
func ApiMyCommunities(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.CommunitiesOf(c.Request.Context(), c.GetString(middleware.ContextUserIDKey))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(list))
	}
}

type aboutResponse struct {
	Community  any    `json:"community"`
	State      string `json:"state"`
	MemberRole string `json:"member_role,omitempty"`
}

// ApiCommunityAbout serves the one page visible without membership. The
// viewer's settled state rides along so the client can offer join or enter.
func ApiCommunityAbout() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		if d == nil || d.Community == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "community not found"))
			return
		}
		resp := aboutResponse{Community: d.Community, State: string(d.State)}
		if d.Membership != nil {
			resp.MemberRole = string(d.Membership.Role)
		}
		c.JSON(http.StatusOK, response.OKT(resp))
	}
}

// ApiUpdateCommunity edits community settings. Community admin only.
func ApiUpdateCommunity(svc *community.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req community.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		updated, err := svc.Update(c.Request.Context(), d.Community.ID, &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// ApiDeleteCommunity removes the community and everything inside it.
func ApiDeleteCommunity(svc *community.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		if err := svc.Delete(c.Request.Context(), d.Community.ID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
