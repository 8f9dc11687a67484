package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitalfit/backend/pkg/response"
)

// @Summary      Health check
// @Description  Returns service status with a timestamp, usable as a liveness probe by an external scheduler
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, response.OKT(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}))
}

func RegisterHealthRoutes(r gin.IRouter) {
	r.GET("/healthz", Healthz)
}
