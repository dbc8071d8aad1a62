package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/events"
	"github.com/comunidadhq/backend/pkg/response"
)

func eventErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, events.ErrEventNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, events.ErrInvalidWindow):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

// ApiListEvents
// @Summary      Community calendar
// @Tags         Calendar
// @Produce      json
// @Param        from  query  string  false  "window start (YYYY-MM-DD)"
// @Param        to    query  string  false  "window end (YYYY-MM-DD)"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/community/{slug}/calendar [get]
func ApiListEvents(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req events.ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		list, err := svc.List(c.Request.Context(), d.Community.ID, &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(list))
	}
}

// ApiGetEvent returns one calendar entry.
func ApiGetEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		event, err := svc.ByID(c.Request.Context(), d.Community.ID, c.Param("event_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](eventErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(event))
	}
}

// ApiCreateEvent schedules an event. Community admin only.
func ApiCreateEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req events.EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		event, err := svc.Create(c.Request.Context(), d.Community.ID,
			c.GetString(middleware.ContextUserIDKey), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](eventErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(event))
	}
}

// ApiUpdateEvent reschedules or edits an event. Community admin only.
func ApiUpdateEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req events.EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		event, err := svc.Update(c.Request.Context(), d.Community.ID, c.Param("event_id"), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](eventErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(event))
	}
}

// ApiDeleteEvent removes an event. Community admin only.
func ApiDeleteEvent(svc *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		if err := svc.Delete(c.Request.Context(), d.Community.ID, c.Param("event_id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](eventErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
