package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/reports"
	"github.com/comunidadhq/backend/pkg/response"
)

// ApiCommunityOverview
// @Summary      Community dashboard counters
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  response.APIResponse[reports.Overview]
// @Router       /api/v1/community/{slug}/reports/overview [get]
func ApiCommunityOverview(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		overview, err := svc.CommunityOverview(c.Request.Context(), d.Community.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(overview))
	}
}

// ApiCommunitySnapshotSeries returns the persisted daily counters for
// charting, bounded by optional from/to dates (YYYY-MM-DD).
func ApiCommunitySnapshotSeries(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		series, err := svc.SnapshotSeries(c.Request.Context(), d.Community.ID,
			c.Query("from"), c.Query("to"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(series))
	}
}

// ApiAdminSnapshotSeries is the platform-admin variant, addressing the
// community by id instead of the guarded slug.
func ApiAdminSnapshotSeries(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		communityID := c.Query("community_id")
		if communityID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "community_id is required"))
			return
		}
		series, err := svc.SnapshotSeries(c.Request.Context(), communityID,
			c.Query("from"), c.Query("to"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(series))
	}
}
