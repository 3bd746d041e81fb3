package controller

import (
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Index 测验页，每次进入都刷新主题锁定状态
func (c *QuizController) Index(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	// 拉取失败时沿用上次的主题列表
	_ = c.QuizService.LoadTopics(ctx.Request.Context(), state)

	render(ctx, tplQuiz, "Quiz", gin.H{
		"Topics": state.Quiz.Topics,
		"Quiz":   state.Quiz,
	})
}

func (c *QuizController) Start(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	topic := strings.TrimSpace(ctx.PostForm("topic"))
	if topic == "" {
		util.BadRequest(ctx, "topic is required")
		return
	}

	// 错误信息已写入视图状态
	_ = c.QuizService.StartQuiz(ctx.Request.Context(), state, topic)
	redirect(ctx, "/")
}

func (c *QuizController) Answer(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	index := util.MustParseInt(ctx.PostForm("index"))
	if err := c.QuizService.SelectAnswer(state, index, ctx.PostForm("option")); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	redirect(ctx, "/")
}

func (c *QuizController) Submit(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	answers, err := parseAnswers(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err = c.QuizService.Submit(ctx.Request.Context(), state, answers)
	if errors.Is(err, util.ErrQuestionIndex) || errors.Is(err, util.ErrUnknownOption) {
		util.BadRequest(ctx, err.Error())
		return
	}
	redirect(ctx, "/")
}

// parseAnswers 读取 answer_<序号> 表单字段
func parseAnswers(ctx *gin.Context) (model.QuizAnswers, error) {
	if err := ctx.Request.ParseForm(); err != nil {
		return nil, err
	}

	answers := model.QuizAnswers{}
	for key, values := range ctx.Request.PostForm {
		if !strings.HasPrefix(key, util.AnswerFieldPrefix) || len(values) == 0 {
			continue
		}
		index := util.MustParseInt(strings.TrimPrefix(key, util.AnswerFieldPrefix))
		if index < 0 {
			return nil, util.ErrQuestionIndex
		}
		answers[index] = values[len(values)-1]
	}
	return answers, nil
}
