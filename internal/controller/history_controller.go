package controller

import (
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	HistoryService *service.HistoryService
}

func NewHistoryController(historyService *service.HistoryService) *HistoryController {
	return &HistoryController{HistoryService: historyService}
}

func (c *HistoryController) Index(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	data := gin.H{}
	rows, err := c.HistoryService.Rows(ctx.Request.Context(), state.UserID)
	if err != nil {
		data["Error"] = service.MsgHistoryFailed
	}
	data["Rows"] = rows

	render(ctx, tplHistory, "History", data)
}

// Export 下载 xlsx
func (c *HistoryController) Export(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	content, err := c.HistoryService.Export(ctx.Request.Context(), state.UserID)
	if err != nil {
		util.BadGateway(ctx, service.MsgHistoryFailed)
		return
	}

	filename := fmt.Sprintf("quiz_history_%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(200, util.MimeXLSX, content)
}
