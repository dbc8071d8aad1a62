package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comunidadhq/backend/internal/app/service/reports"
	"github.com/comunidadhq/backend/internal/app/service/subscription"
	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/response"
	"github.com/comunidadhq/backend/pkg/types"
)

// scanRequest is the shared admin list payload: generic filters plus
// pagination and sorting.
type scanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

func (r *scanRequest) normalize(sortColumns map[string]bool) (string, bool, int) {
	sortBy := r.SortBy
	if !sortColumns[sortBy] {
		sortBy = "created_at"
	}
	size := r.Size
	if size <= 0 || size > 200 {
		size = 50
	}
	return sortBy, r.SortOrder != "asc", size
}

func adminScan[T any](db *gorm.DB, c *gin.Context, sortColumns map[string]bool) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
		return
	}
	sortBy, desc, size := req.normalize(sortColumns)

	var model T
	q := db.WithContext(c.Request.Context()).Model(&model).
		Where(clause.Where{Exprs: []clause.Expression{types.FiltersWhere{Filters: req.Filters}}})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
		return
	}

	var items []T
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: desc}).
		Offset(req.From).Limit(size).
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.OKT(listResponse[T]{Items: items, Total: total}))
}

// ApiAdminListProfiles
// @Summary      List and filter platform profiles
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/profiles [post]
func ApiAdminListProfiles(db *gorm.DB) gin.HandlerFunc {
	sortColumns := map[string]bool{"created_at": true, "updated_at": true, "email": true, "full_name": true}
	return func(c *gin.Context) {
		adminScan[models.Profile](db, c, sortColumns)
	}
}

// ApiAdminListCommunities lists communities with generic filters.
func ApiAdminListCommunities(db *gorm.DB) gin.HandlerFunc {
	sortColumns := map[string]bool{"created_at": true, "updated_at": true, "name": true, "members_count": true}
	return func(c *gin.Context) {
		adminScan[models.Community](db, c, sortColumns)
	}
}

// ApiAdminListSubscriptions lists join requests across all communities.
func ApiAdminListSubscriptions(store *subscription.GormStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := store.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type overviewRequest struct {
	WindowDays int `json:"window_days"`
}

// ApiAdminOverview
// @Summary      Platform-wide counters and growth for the admin dashboard
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[reports.PlatformOverview]
// @Router       /api/v1/admin/reports/overview [post]
func ApiAdminOverview(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req overviewRequest
		// body is optional, an empty one means the default window
		_ = c.ShouldBindJSON(&req)
		ov, err := svc.Overview(c.Request.Context(), req.WindowDays)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(ov))
	}
}

// ApiAdminTopCommunities ranks communities for the platform dashboard.
func ApiAdminTopCommunities(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 10
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		top, err := svc.TopCommunities(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(top))
	}
}
