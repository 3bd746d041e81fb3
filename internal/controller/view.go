package controller

import (
	"dsa_tutor_web/internal/middleware"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 页面模板
const (
	tplQuiz      = "quiz.html"
	tplChat      = "chat.html"
	tplCodeEval  = "code_eval.html"
	tplHistory   = "history.html"
	tplAnalytics = "analytics.html"
)

// currentState 取会话状态，缺失说明中间件未挂载
func currentState(ctx *gin.Context) (*model.ViewState, bool) {
	state := middleware.ViewState(ctx)
	if state == nil {
		util.InternalServerError(ctx)
		return nil, false
	}
	return state, true
}

func render(ctx *gin.Context, name, title string, data gin.H) {
	data["Title"] = title
	ctx.HTML(http.StatusOK, name, data)
}

// redirect 表单提交后跳回页面
func redirect(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
}
