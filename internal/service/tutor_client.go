package service

import (
	"bytes"
	"context"
	"dsa_tutor_web/internal/config"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/pkg/monitoring"
	"dsa_tutor_web/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TutorAPI 辅导后端的 REST 接口
type TutorAPI interface {
	ListTopics(ctx context.Context, userID string) ([]model.TopicStatus, error)
	QuizHistory(ctx context.Context, userID string) ([]model.QuizAttempt, error)
	FetchQuiz(ctx context.Context, userID, topic string) (*QuizPayload, error)
	SubmitQuiz(ctx context.Context, userID, topic string, answers model.QuizAnswers) (*model.QuizSubmitResult, error)
	Chat(ctx context.Context, userID, input string) (*model.ChatReply, error)
	EvaluateCode(ctx context.Context, userID, topic, language, code string) (model.Feedback, error)
	Ping(ctx context.Context) error
}

// /dsa 的 mode 取值
const (
	ModeQuiz       = "quiz"
	ModeQuizSubmit = "quiz_submit"
	ModeChat       = "chat"
	ModeCodeEval   = "code_eval"
)

// BackendError 后端在 200 响应中返回的 error 字段
type BackendError struct {
	Message       string
	UnlockedTopic string
}

func (e *BackendError) Error() string {
	return e.Message
}

// StatusError 后端返回非 2xx 状态码
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tutor backend error (status %d): %s", e.StatusCode, e.Body)
}

// IsBackendError 判断是否为应用层错误，是则返回其内容
func IsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// QuizPayload quiz 模式的返回
type QuizPayload struct {
	Topic      string               `json:"topic"`
	Questions  []model.QuizQuestion `json:"questions"`
	Difficulty int                  `json:"difficulty"`
}

type dsaRequest struct {
	Mode      string             `json:"mode"`
	UserID    string             `json:"user_id"`
	Topic     string             `json:"topic,omitempty"`
	Language  string             `json:"language,omitempty"`
	UserInput string             `json:"user_input,omitempty"`
	Answers   *model.QuizAnswers `json:"answers,omitempty"`
}

type TutorClient struct {
	baseURL string
	client  *http.Client
}

func NewTutorClient(cfg config.BackendConfig) *TutorClient {
	return &TutorClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *TutorClient) ListTopics(ctx context.Context, userID string) ([]model.TopicStatus, error) {
	body, err := c.call(ctx, "quiz_topics", http.MethodGet, "/quiz_topics", url.Values{"user_id": {userID}}, nil, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Topics []model.TopicStatus `json:"topics"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode quiz topics: %w", err)
	}
	if resp.Topics == nil {
		resp.Topics = []model.TopicStatus{}
	}
	return resp.Topics, nil
}

func (c *TutorClient) QuizHistory(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	body, err := c.call(ctx, "quiz_history", http.MethodGet, "/quiz_history", url.Values{"user_id": {userID}}, nil, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		History []model.QuizAttempt `json:"history"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode quiz history: %w", err)
	}
	if resp.History == nil {
		resp.History = []model.QuizAttempt{}
	}
	return resp.History, nil
}

func (c *TutorClient) FetchQuiz(ctx context.Context, userID, topic string) (*QuizPayload, error) {
	body, err := c.dsa(ctx, dsaRequest{Mode: ModeQuiz, UserID: userID, Topic: topic}, true)
	if err != nil {
		return nil, err
	}

	var payload QuizPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	if payload.Questions == nil {
		payload.Questions = []model.QuizQuestion{}
	}
	return &payload, nil
}

func (c *TutorClient) SubmitQuiz(ctx context.Context, userID, topic string, answers model.QuizAnswers) (*model.QuizSubmitResult, error) {
	if answers == nil {
		answers = model.QuizAnswers{}
	}
	req := dsaRequest{Mode: ModeQuizSubmit, UserID: userID, Topic: topic, Answers: &answers}
	body, err := c.dsa(ctx, req, true)
	if err != nil {
		return nil, err
	}

	var result model.QuizSubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode quiz submit: %w", err)
	}
	return &result, nil
}

// Chat 不检查 error 字段，缺少 response 时由调用方兜底
func (c *TutorClient) Chat(ctx context.Context, userID, input string) (*model.ChatReply, error) {
	body, err := c.dsa(ctx, dsaRequest{Mode: ModeChat, UserID: userID, UserInput: input}, false)
	if err != nil {
		return nil, err
	}

	return parseChatReply(body)
}

// parseChatReply 只取需要的字段，附加字段类型不符时按原文展示
func parseChatReply(body []byte) (*model.ChatReply, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("decode chat reply: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	return &model.ChatReply{
		Response:      root.Get("response").String(),
		DetectedTopic: root.Get("detected_topic").String(),
		Complexity:    root.Get("complexity").String(),
	}, nil
}

// EvaluateCode 返回按后端键顺序排列的反馈；error 字段同样作为一项反馈展示
func (c *TutorClient) EvaluateCode(ctx context.Context, userID, topic, language, code string) (model.Feedback, error) {
	req := dsaRequest{Mode: ModeCodeEval, UserID: userID, Topic: topic, Language: language, UserInput: code}
	body, err := c.dsa(ctx, req, false)
	if err != nil {
		return nil, err
	}
	return ParseFeedback(body)
}

// Ping 只要后端有 HTTP 响应即视为可达
func (c *TutorClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ParseFeedback 将任意 JSON 对象展开为有序的键值对
func ParseFeedback(body []byte) (model.Feedback, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid feedback JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("feedback is not an object: %s", root.Type)
	}

	feedback := model.Feedback{}
	root.ForEach(func(key, value gjson.Result) bool {
		feedback = append(feedback, model.FeedbackItem{Key: key.String(), Value: value.String()})
		return true
	})
	return feedback, nil
}

func (c *TutorClient) dsa(ctx context.Context, payload dsaRequest, checkAppError bool) ([]byte, error) {
	return c.call(ctx, "dsa_"+payload.Mode, http.MethodPost, "/dsa", nil, payload, checkAppError)
}

func (c *TutorClient) call(ctx context.Context, name, method, path string, query url.Values, payload any, checkAppError bool) ([]byte, error) {
	start := time.Now()
	body, err := c.roundTrip(ctx, name, method, path, query, payload)
	if err == nil && checkAppError {
		err = appError(body)
	}

	outcome := "ok"
	if err != nil {
		outcome = "failure"
		if _, ok := IsBackendError(err); ok {
			outcome = "app_error"
		}
	}
	monitoring.ObserveBackend(name, outcome, time.Since(start))

	return body, err
}

func (c *TutorClient) roundTrip(ctx context.Context, name, method, path string, query url.Values, payload any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	req, span := tracing.StartClientSpan(ctx, req, "tutor."+name)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.url", target))

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", name, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

func appError(body []byte) error {
	msg := gjson.GetBytes(body, "error")
	if !msg.Exists() || msg.String() == "" {
		return nil
	}
	return &BackendError{
		Message:       msg.String(),
		UnlockedTopic: gjson.GetBytes(body, "unlocked_topic").String(),
	}
}
