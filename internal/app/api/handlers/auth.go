package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/auth"
	"github.com/comunidadhq/backend/pkg/response"
)

// ApiSignUp
// @Summary      Register a new profile
// @Description  Creates an unconfirmed profile and emails a verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  auth.SignUpRequest  true  "signup payload"
// @Success      200  {object}  response.APIResponse[models.Profile]
// @Router       /auth/signup [post]
func ApiSignUp(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		profile, err := svc.SignUp(c.Request.Context(), &req)
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(profile))
	}
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ApiVerifyEmail
// @Summary      Confirm an email address
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /auth/verify_email [post]
func ApiVerifyEmail(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		err := svc.VerifyEmail(c.Request.Context(), req.Email, req.Code)
		if errors.Is(err, auth.ErrInvalidCode) {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type resendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ApiResendVerification re-sends the verification code. Always answers ok so
// the endpoint cannot be used to probe registered emails.
func ApiResendVerification(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resendVerificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		_ = svc.ResendVerification(c.Request.Context(), req.Email)
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ApiLogin
// @Summary      Authenticate and open a session
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[auth.LoginResult]
// @Router       /auth/login [post]
func ApiLogin(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		result, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, auth.ErrEmailNotVerified):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeEmailUnverified, err.Error()))
			return
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
			return
		case err != nil:
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ApiRefresh rotates the token pair from a refresh token.
func ApiRefresh(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		pair, err := svc.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(pair))
	}
}

// ApiLogout drops the active session.
func ApiLogout(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetString(middleware.ContextUserIDKey)
		if err := svc.Logout(c.Request.Context(), profileID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiMe
// @Summary      Current profile
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.Profile]
// @Router       /api/v1/me [get]
func ApiMe(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := svc.ProfileByID(c.Request.Context(), c.GetString(middleware.ContextUserIDKey))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(profile))
	}
}

// ApiUpdateMe applies a partial profile update.
func ApiUpdateMe(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		profile, err := svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(profile))
	}
}

// RegisterAuthPublicRoutes mounts the unauthenticated auth endpoints.
func RegisterAuthPublicRoutes(r gin.IRouter, svc *auth.Service) {
	r.POST("/auth/signup", ApiSignUp(svc))
	r.POST("/auth/verify_email", ApiVerifyEmail(svc))
	r.POST("/auth/resend_verification", ApiResendVerification(svc))
	r.POST("/auth/login", ApiLogin(svc))
	r.POST("/auth/refresh", ApiRefresh(svc))
}

// RegisterAuthPrivateRoutes mounts the session-bound auth endpoints.
func RegisterAuthPrivateRoutes(r gin.IRouter, svc *auth.Service) {
	r.POST("/auth/logout", ApiLogout(svc))
	r.GET("/me", ApiMe(svc))
	r.PATCH("/me", ApiUpdateMe(svc))
}
