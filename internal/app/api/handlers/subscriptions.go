package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/subscription"
	"github.com/comunidadhq/backend/pkg/response"
	"github.com/comunidadhq/backend/pkg/types"
)

func subscriptionErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, subscription.ErrNotPending):
		return response.APIResponseCodeConflict
	default:
		return response.APIResponseCodeError
	}
}

// ApiCommunitySubscriptions lists the community's join requests for its
// admins, pending first by default.
func ApiCommunitySubscriptions(store *subscription.GormStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		// Scope to the guarded community regardless of client filters.
		d := middleware.Decision(c)
		req.Filters = append(req.Filters, &types.CommonFilter{
			Field:    "community_id",
			Operator: types.CommonFilterOperatorEq,
			Values:   []any{d.Community.ID},
		})
		res, err := store.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// ApiApproveSubscription
// @Summary      Validate a payment and activate the membership
// @Tags         Subscriptions
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/community/{slug}/subscriptions/{id}/approve [post]
func ApiApproveSubscription(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Approve(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserIDKey))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](subscriptionErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiRejectSubscription marks a join request cancelled without granting
// anything.
func ApiRejectSubscription(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Reject(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserIDKey))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](subscriptionErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
