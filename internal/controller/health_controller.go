package controller

import (
	"context"
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 3 * time.Second

type HealthController struct {
	API service.TutorAPI
}

func NewHealthController(api service.TutorAPI) *HealthController {
	return &HealthController{API: api}
}

func (c *HealthController) HealthCheck(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthProbeTimeout)
	defer cancel()

	// 检查辅导后端
	if err := c.API.Ping(probeCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Tutor backend unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"backend": "up",
		},
	})
}
