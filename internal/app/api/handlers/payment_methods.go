package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/paymentmethod"
	"github.com/comunidadhq/backend/pkg/response"
)

func paymentMethodErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, paymentmethod.ErrMethodNotFound),
		errors.Is(err, paymentmethod.ErrConfigNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, paymentmethod.ErrNameTaken),
		errors.Is(err, paymentmethod.ErrConfigExists),
		errors.Is(err, paymentmethod.ErrMethodInUse):
		return response.APIResponseCodeConflict
	default:
		return response.APIResponseCodeError
	}
}

// ApiPaymentMethodCatalog lists every catalog method so community admins can
// pick which to configure.
func ApiPaymentMethodCatalog(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		methods, err := svc.Catalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(methods))
	}
}

type createCatalogEntryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ApiAdminCreatePaymentMethod adds a catalog entry. Platform admin only.
func ApiAdminCreatePaymentMethod(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCatalogEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		method, err := svc.CreateCatalogEntry(c.Request.Context(), req.Name)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](paymentMethodErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(method))
	}
}

// ApiAdminDeletePaymentMethod removes an unreferenced catalog entry.
func ApiAdminDeletePaymentMethod(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCatalogEntry(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](paymentMethodErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiCommunityPaymentConfigs lists the community's configured methods,
// enabled or not. Community admin only.
func ApiCommunityPaymentConfigs(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		configs, err := svc.Configs(c.Request.Context(), d.Community.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(configs))
	}
}

// ApiConfigurePaymentMethod
// @Summary      Attach a payment method to a community
// @Tags         PaymentMethods
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.CommunityPaymentMethod]
// @Router       /api/v1/community/{slug}/payment_methods [post]
func ApiConfigurePaymentMethod(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentmethod.ConfigRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		cfg, err := svc.Configure(c.Request.Context(), d.Community.ID, &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](paymentMethodErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cfg))
	}
}

// ApiUpdatePaymentConfig edits instructions, QR image or enablement.
func ApiUpdatePaymentConfig(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentmethod.ConfigUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		cfg, err := svc.UpdateConfig(c.Request.Context(), d.Community.ID, c.Param("config_id"), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](paymentMethodErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cfg))
	}
}

// ApiRemovePaymentConfig detaches a method from the community.
func ApiRemovePaymentConfig(svc *paymentmethod.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		if err := svc.RemoveConfig(c.Request.Context(), d.Community.ID, c.Param("config_id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](paymentMethodErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
