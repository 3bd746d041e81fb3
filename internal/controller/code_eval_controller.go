package controller

import (
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CodeEvalController struct {
	CodeEvalService *service.CodeEvalService
}

func NewCodeEvalController(codeEvalService *service.CodeEvalService) *CodeEvalController {
	return &CodeEvalController{CodeEvalService: codeEvalService}
}

func (c *CodeEvalController) Index(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	language := state.CodeEval.Language
	if language == "" {
		language = model.DefaultCodeLanguage
	}

	render(ctx, tplCodeEval, "Code Eval", gin.H{
		"State":     state.CodeEval,
		"Language":  language,
		"Languages": model.CodeLanguages,
	})
}

func (c *CodeEvalController) Evaluate(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	_, err := c.CodeEvalService.Evaluate(
		ctx.Request.Context(),
		state,
		ctx.PostForm("topic"),
		ctx.PostForm("language"),
		ctx.PostForm("code"),
	)
	if errors.Is(err, util.ErrUnknownLanguage) {
		util.BadRequest(ctx, err.Error())
		return
	}
	redirect(ctx, "/code")
}
