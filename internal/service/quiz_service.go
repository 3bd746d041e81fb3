package service

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/util"
	"dsa_tutor_web/pkg/logger"

	"go.uber.org/zap"
)

// 测验页的提示文案
const (
	MsgQuizFetchFailed  = "Failed to fetch quiz."
	MsgQuizSubmitFailed = "Failed to submit quiz."
	MsgQuizSubmitted    = "✅ Quiz submitted successfully!"
	MsgQuizLocked       = "Quiz locked. Complete previous quiz first."
)

type QuizService struct {
	API TutorAPI
}

func NewQuizService(api TutorAPI) *QuizService {
	return &QuizService{API: api}
}

// LoadTopics 每次渲染测验页都重新拉取主题状态；失败时保留上次结果
func (s *QuizService) LoadTopics(ctx context.Context, state *model.ViewState) error {
	topics, err := s.API.ListTopics(ctx, state.UserID)
	if err != nil {
		logger.Log.Warn("Failed to fetch quiz topics", zap.String("user_id", state.UserID), zap.Error(err))
		return err
	}
	state.Quiz.Topics = topics
	return nil
}

func (s *QuizService) topicLocked(state *model.ViewState, topic string) bool {
	for _, t := range state.Quiz.Topics {
		if t.Topic == topic {
			return t.Locked()
		}
	}
	return false
}

// StartQuiz 拉取指定主题的题目；锁定的主题不会请求后端
func (s *QuizService) StartQuiz(ctx context.Context, state *model.ViewState, topic string) error {
	quiz := &state.Quiz
	quiz.SelectedTopic = topic
	quiz.Error = ""
	quiz.UnlockedTopic = ""
	quiz.SubmitMessage = ""
	quiz.LastResult = nil

	if s.topicLocked(state, topic) {
		quiz.Error = MsgQuizLocked
		return util.ErrTopicLocked
	}

	payload, err := s.API.FetchQuiz(ctx, state.UserID, topic)
	if be, ok := IsBackendError(err); ok {
		quiz.Error = be.Message
		quiz.UnlockedTopic = be.UnlockedTopic
		quiz.Questions = []model.QuizQuestion{}
		return err
	}
	if err != nil {
		logger.Log.Error("Failed to fetch quiz", zap.String("topic", topic), zap.Error(err))
		quiz.Error = MsgQuizFetchFailed
		return err
	}

	quiz.Questions = payload.Questions
	quiz.Answers = model.QuizAnswers{}
	quiz.Difficulty = payload.Difficulty
	return nil
}

// SelectAnswer 单选：同一题再次选择会覆盖之前的选项
func (s *QuizService) SelectAnswer(state *model.ViewState, index int, option string) error {
	quiz := &state.Quiz
	if index < 0 || index >= len(quiz.Questions) {
		return util.ErrQuestionIndex
	}

	offered := false
	for _, opt := range quiz.Questions[index].Options {
		if opt == option {
			offered = true
			break
		}
	}
	if !offered {
		return util.ErrUnknownOption
	}

	if quiz.Answers == nil {
		quiz.Answers = model.QuizAnswers{}
	}
	quiz.Answers[index] = option
	return nil
}

// Submit 合并表单中的选项后一次性提交；成功后清空题目并刷新主题状态
func (s *QuizService) Submit(ctx context.Context, state *model.ViewState, answers model.QuizAnswers) error {
	quiz := &state.Quiz
	quiz.SubmitMessage = ""

	if len(quiz.Questions) == 0 {
		return util.ErrNoActiveQuiz
	}

	for idx, opt := range answers {
		if err := s.SelectAnswer(state, idx, opt); err != nil {
			return err
		}
	}
	if quiz.Answers == nil {
		quiz.Answers = model.QuizAnswers{}
	}

	result, err := s.API.SubmitQuiz(ctx, state.UserID, quiz.SelectedTopic, quiz.Answers)
	if be, ok := IsBackendError(err); ok {
		quiz.SubmitMessage = be.Message
		return err
	}
	if err != nil {
		logger.Log.Error("Failed to submit quiz", zap.String("topic", quiz.SelectedTopic), zap.Error(err))
		quiz.SubmitMessage = MsgQuizSubmitFailed
		return err
	}

	quiz.SubmitMessage = MsgQuizSubmitted
	quiz.LastResult = result
	quiz.Questions = []model.QuizQuestion{}
	quiz.Answers = model.QuizAnswers{}

	// 刷新锁定状态，失败不影响提交结果
	_ = s.LoadTopics(ctx, state)
	return nil
}
