package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/paymentmethod"
	"github.com/comunidadhq/backend/internal/app/service/subscription"
	"github.com/comunidadhq/backend/pkg/response"
)

// ApiJoinFree
// @Summary      Join a free community
// @Tags         Join
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/community/{slug}/join [post]
func ApiJoinFree(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		err := svc.JoinFree(c.Request.Context(), d.Community, c.GetString(middleware.ContextUserIDKey))
		switch {
		case errors.Is(err, subscription.ErrNotFree):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		case errors.Is(err, subscription.ErrAlreadyMember):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
			return
		case err != nil:
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiJoinPaymentMethods lists the enabled payment options shown in the paid
// join dialog.
func ApiJoinPaymentMethods(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		configs, err := svc.EnabledForCommunity(c.Request.Context(), d.Community.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(configs))
	}
}

type paidJoinRequest struct {
	CommunityPaymentMethodID string `json:"community_payment_method_id" binding:"required"`
}

// ApiRequestPaidJoin
// @Summary      Request membership in a paid community
// @Description  Records a pending subscription awaiting payment validation
// @Tags         Join
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.CommunitySubscription]
// @Router       /api/v1/community/{slug}/join/request [post]
func ApiRequestPaidJoin(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paidJoinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		sub, err := svc.RequestPaidJoin(c.Request.Context(), d.Community,
			c.GetString(middleware.ContextUserIDKey), req.CommunityPaymentMethodID)
		switch {
		case errors.Is(err, subscription.ErrNotPaid),
			errors.Is(err, subscription.ErrPaymentMethodUnavailable):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		case errors.Is(err, subscription.ErrAlreadyMember),
			errors.Is(err, subscription.ErrPendingExists):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
			return
		case err != nil:
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// ApiJoinStatus reports the viewer's pending request, if any, so the client
// can show "awaiting validation" instead of the join button.
func ApiJoinStatus(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		pending, err := svc.PendingFor(c.Request.Context(), d.Community.ID,
			c.GetString(middleware.ContextUserIDKey))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{
			"member":  d.Permitted(),
			"pending": pending,
		}))
	}
}

// ApiCancelJoinRequest withdraws the viewer's own pending request.
func ApiCancelJoinRequest(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.CancelOwn(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserIDKey))
		switch {
		case errors.Is(err, subscription.ErrSubscriptionNotFound):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		case errors.Is(err, subscription.ErrNotPending):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
			return
		case err != nil:
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
