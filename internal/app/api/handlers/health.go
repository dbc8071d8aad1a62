package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiHealthz
// @Summary      Health check
// @Description  Returns service status
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func ApiHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func RegisterHealthRoutes(r gin.IRouter) {
	r.GET("/healthz", ApiHealthz)
}
