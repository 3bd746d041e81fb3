package service

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/util"
	"dsa_tutor_web/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const MsgCodeEvalFailed = "Failed to evaluate code."

type CodeEvalService struct {
	API TutorAPI
}

func NewCodeEvalService(api TutorAPI) *CodeEvalService {
	return &CodeEvalService{API: api}
}

func validLanguage(lang string) bool {
	for _, l := range model.CodeLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Evaluate 代码或主题为空时不提交，返回是否发起了请求
func (s *CodeEvalService) Evaluate(ctx context.Context, state *model.ViewState, topic, language, code string) (bool, error) {
	if language == "" {
		language = model.DefaultCodeLanguage
	}
	if !validLanguage(language) {
		return false, util.ErrUnknownLanguage
	}

	eval := &state.CodeEval
	eval.Topic = topic
	eval.Language = language
	eval.Code = code

	if strings.TrimSpace(code) == "" || strings.TrimSpace(topic) == "" {
		return false, nil
	}

	feedback, err := s.API.EvaluateCode(ctx, state.UserID, topic, language, code)
	if err != nil {
		logger.Log.Error("Failed to evaluate code",
			zap.String("topic", topic),
			zap.String("language", language),
			zap.Error(err),
		)
		eval.Feedback = model.Feedback{{Key: "error", Value: MsgCodeEvalFailed}}
		return true, nil
	}

	eval.Feedback = feedback
	return true, nil
}
