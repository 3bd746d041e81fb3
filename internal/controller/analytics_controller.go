package controller

import (
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Index 图表页；拉取失败时显示空图表和提示
func (c *AnalyticsController) Index(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	charts, err := c.AnalyticsService.GetCharts(ctx.Request.Context(), state.UserID)
	data := gin.H{"Charts": charts}
	if err != nil {
		data["Error"] = service.MsgAnalyticsFailed
	}

	render(ctx, tplAnalytics, "Analytics", data)
}

// GetCharts 四组图表数据
func (c *AnalyticsController) GetCharts(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	charts, err := c.AnalyticsService.GetCharts(ctx.Request.Context(), state.UserID)
	if err != nil {
		util.BadGateway(ctx, service.MsgAnalyticsFailed)
		return
	}

	util.Success(ctx, charts)
}
