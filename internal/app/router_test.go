package app

import (
	"context"
	"dsa_tutor_web/internal/config"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/repository"
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAPI struct {
	mu          sync.Mutex
	calls       map[string]int
	lastAnswers model.QuizAnswers
	pingErr     error
	chatErr     error
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListTopics(ctx context.Context, userID string) ([]model.TopicStatus, error) {
	f.count("topics")
	return []model.TopicStatus{
		{Topic: "Stack", Status: model.TopicTakeQuiz},
		{Topic: "Tower of Hanoi", Status: model.TopicLocked},
	}, nil
}

func (f *fakeAPI) QuizHistory(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	f.count("history")
	return []model.QuizAttempt{
		{Topic: "Stack", Question: "What does LIFO stand for?", UserAnswer: "Stack", CorrectAnswer: "Stack", IsCorrect: true, TimeSpentSeconds: 3, Timestamp: "2024-03-02 10:00:00"},
		{Topic: "Queue", UserAnswer: "A", CorrectAnswer: "B", IsCorrect: false, Timestamp: "2024-03-03 10:00:00"},
	}, nil
}

func (f *fakeAPI) FetchQuiz(ctx context.Context, userID, topic string) (*service.QuizPayload, error) {
	f.count("quiz")
	if topic == "Queue" {
		return nil, &service.BackendError{Message: service.MsgQuizLocked, UnlockedTopic: "Stack"}
	}
	return &service.QuizPayload{
		Topic:      topic,
		Difficulty: 3,
		Questions:  []model.QuizQuestion{{Question: "Which structure is LIFO?", Options: []string{"Stack", "Queue"}}},
	}, nil
}

func (f *fakeAPI) SubmitQuiz(ctx context.Context, userID, topic string, answers model.QuizAnswers) (*model.QuizSubmitResult, error) {
	f.count("submit")
	f.mu.Lock()
	f.lastAnswers = answers
	f.mu.Unlock()
	return &model.QuizSubmitResult{CorrectAnswers: 1, Accuracy: 100, Difficulty: 2}, nil
}

func (f *fakeAPI) Chat(ctx context.Context, userID, input string) (*model.ChatReply, error) {
	f.count("chat")
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &model.ChatReply{Response: "A stack is LIFO.", DetectedTopic: "Stack"}, nil
}

func (f *fakeAPI) EvaluateCode(ctx context.Context, userID, topic, language, code string) (model.Feedback, error) {
	f.count("eval")
	return model.Feedback{{Key: "time_complexity", Value: "O(n)"}}, nil
}

func (f *fakeAPI) Ping(ctx context.Context) error {
	return f.pingErr
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Backend:   config.BackendConfig{BaseURL: "http://backend.invalid", UserID: "test_user"},
		Session:   config.SessionConfig{Secret: "router-test-secret-router-test-secret", CookieName: "dsa_tutor_session", IdleTTL: time.Hour, Store: util.SessionStoreMemory},
		Chat:      config.ChatConfig{KeywordDisplayLimit: 10},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
}

func newTestApp(t *testing.T) (*App, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{calls: map[string]int{}}
	app, err := New(testConfig(), api, repository.NewMemorySessionRepository())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app, api
}

// browser 在请求之间携带会话 cookie
type browser struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(h http.Handler) *browser {
	return &browser{handler: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func TestQuizFlow(t *testing.T) {
	app, api := newTestApp(t)
	b := newBrowser(app.Router)

	w := b.do(http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Tower of Hanoi") || !strings.Contains(body, "disabled") {
		t.Errorf("locked topic should render a disabled control:\n%s", body)
	}
	if len(b.cookies) == 0 {
		t.Fatal("session cookie not issued")
	}

	w = b.do(http.MethodPost, "/quiz/start", url.Values{"topic": {"Stack"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("start quiz = %d %q", w.Code, w.Header().Get("Location"))
	}

	w = b.do(http.MethodGet, "/", nil)
	if !strings.Contains(w.Body.String(), "Which structure is LIFO?") {
		t.Fatalf("questions not rendered:\n%s", w.Body.String())
	}

	w = b.do(http.MethodPost, "/quiz/submit", url.Values{"answer_0": {"Stack"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("submit = %d", w.Code)
	}
	if api.lastAnswers[0] != "Stack" {
		t.Errorf("submitted answers = %v", api.lastAnswers)
	}

	w = b.do(http.MethodGet, "/", nil)
	if !strings.Contains(w.Body.String(), "Quiz submitted successfully") {
		t.Errorf("submit message missing:\n%s", w.Body.String())
	}
}

func TestQuizAnswerSelection(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(app.Router)

	b.do(http.MethodGet, "/", nil)
	b.do(http.MethodPost, "/quiz/start", url.Values{"topic": {"Stack"}})

	w := b.do(http.MethodPost, "/quiz/answer", url.Values{"index": {"0"}, "option": {"Queue"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("answer = %d", w.Code)
	}
	w = b.do(http.MethodGet, "/", nil)
	if !strings.Contains(w.Body.String(), `value="Queue" checked`) {
		t.Errorf("selected option not checked:\n%s", w.Body.String())
	}

	w = b.do(http.MethodPost, "/quiz/answer", url.Values{"index": {"5"}, "option": {"Queue"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range index = %d", w.Code)
	}
	w = b.do(http.MethodPost, "/quiz/answer", url.Values{"index": {"0"}, "option": {"Heap"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown option = %d", w.Code)
	}
}

func TestLockedTopicDoesNotCallBackend(t *testing.T) {
	app, api := newTestApp(t)
	b := newBrowser(app.Router)

	b.do(http.MethodGet, "/", nil)
	b.do(http.MethodPost, "/quiz/start", url.Values{"topic": {"Tower of Hanoi"}})

	if n := api.called("quiz"); n != 0 {
		t.Errorf("locked topic fetched quiz %d times", n)
	}
	w := b.do(http.MethodGet, "/", nil)
	if !strings.Contains(w.Body.String(), service.MsgQuizLocked) {
		t.Errorf("locked message missing:\n%s", w.Body.String())
	}
}

func TestBackendLockShowsUnlockedTopic(t *testing.T) {
	app, api := newTestApp(t)
	b := newBrowser(app.Router)

	b.do(http.MethodPost, "/quiz/start", url.Values{"topic": {"Queue"}})
	if n := api.called("quiz"); n != 1 {
		t.Fatalf("quiz calls = %d", n)
	}

	body := b.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, service.MsgQuizLocked) || !strings.Contains(body, "Currently unlocked: Stack") {
		t.Errorf("lock error or unlocked topic missing:\n%s", body)
	}
}

func TestChatRoutes(t *testing.T) {
	app, api := newTestApp(t)
	b := newBrowser(app.Router)

	w := b.do(http.MethodPost, "/chat/send", url.Values{"message": {"   "}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("blank send = %d", w.Code)
	}
	if n := api.called("chat"); n != 0 {
		t.Fatalf("blank input called backend %d times", n)
	}

	b.do(http.MethodPost, "/chat/send", url.Values{"message": {"Explain the binary search and linked list"}})
	if n := api.called("chat"); n != 1 {
		t.Fatalf("chat calls = %d", n)
	}

	w = b.do(http.MethodGet, "/chat", nil)
	body := w.Body.String()
	if !strings.Contains(body, "A stack is LIFO.") || !strings.Contains(body, "Explain binary search") {
		t.Errorf("chat page missing reply or keywords:\n%s", body)
	}

	w = b.do(http.MethodGet, "/api/chat/keywords", nil)
	var resp struct {
		Code int `json:"code"`
		Data struct {
			Keywords []model.KeywordEntry `json:"keywords"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode keywords: %v", err)
	}
	if len(resp.Data.Keywords) != 2 || resp.Data.Keywords[1].Word != "linked list" {
		t.Errorf("keywords = %+v", resp.Data.Keywords)
	}

	b.do(http.MethodPost, "/chat/clear", url.Values{})
	w = b.do(http.MethodGet, "/chat", nil)
	if strings.Contains(w.Body.String(), "A stack is LIFO.") {
		t.Error("messages survived clear")
	}
}

func TestChatBackendFailure(t *testing.T) {
	app, api := newTestApp(t)
	api.chatErr = errors.New("connection refused")
	b := newBrowser(app.Router)

	b.do(http.MethodPost, "/chat/send", url.Values{"message": {"What is a heap?"}})
	w := b.do(http.MethodGet, "/chat", nil)
	if !strings.Contains(w.Body.String(), service.MsgChatFailed) {
		t.Errorf("failure message missing:\n%s", w.Body.String())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	app, _ := newTestApp(t)
	alice := newBrowser(app.Router)
	bob := newBrowser(app.Router)

	alice.do(http.MethodPost, "/chat/send", url.Values{"message": {"What is a trie?"}})

	w := bob.do(http.MethodGet, "/chat", nil)
	if strings.Contains(w.Body.String(), "What is a trie?") {
		t.Error("chat history leaked across sessions")
	}
	w = alice.do(http.MethodGet, "/chat", nil)
	if !strings.Contains(w.Body.String(), "What is a trie?") {
		t.Error("chat history lost for the owning session")
	}
}

func TestCodeEvalRoutes(t *testing.T) {
	app, api := newTestApp(t)
	b := newBrowser(app.Router)

	w := b.do(http.MethodPost, "/code/eval", url.Values{"topic": {"Stack"}, "language": {"Rust"}, "code": {"fn main(){}"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown language = %d", w.Code)
	}

	b.do(http.MethodPost, "/code/eval", url.Values{"topic": {"Stack"}, "code": {""}})
	if n := api.called("eval"); n != 0 {
		t.Errorf("blank code evaluated %d times", n)
	}

	b.do(http.MethodPost, "/code/eval", url.Values{"topic": {"Stack"}, "language": {"Python"}, "code": {"print(1)"}})
	w = b.do(http.MethodGet, "/code", nil)
	body := w.Body.String()
	if !strings.Contains(body, "time_complexity") || !strings.Contains(body, `value="Python" selected`) {
		t.Errorf("feedback or language missing:\n%s", body)
	}
}

func TestHistoryAndAnalytics(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(app.Router)

	w := b.do(http.MethodGet, "/history", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "✅") {
		t.Errorf("history page = %d:\n%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "What does LIFO stand for?") {
		t.Error("question column not rendered")
	}

	w = b.do(http.MethodGet, "/history/export", nil)
	if ct := w.Header().Get("Content-Type"); ct != util.MimeXLSX {
		t.Errorf("export content type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty workbook")
	}

	w = b.do(http.MethodGet, "/api/analytics", nil)
	var resp struct {
		Data model.AnalyticsCharts `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if resp.Data.Correctness.Correct != 1 || resp.Data.Correctness.Incorrect != 1 {
		t.Errorf("correctness = %+v", resp.Data.Correctness)
	}

	w = b.do(http.MethodGet, "/analytics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Topic Distribution") {
		t.Errorf("analytics page = %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	app, api := newTestApp(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("health check should not create a session")
	}

	api.pingErr = errors.New("down")
	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("health with backend down = %d", w.Code)
	}
}

func TestApplyConfigUpdatesServices(t *testing.T) {
	app, _ := newTestApp(t)

	cfg := testConfig()
	cfg.Chat.KeywordDisplayLimit = 3
	cfg.Analytics.Chronological = true
	cfg.Backend.UserID = "other_user"
	app.ApplyConfig(cfg)

	if got := app.services.chat.KeywordLimit(); got != 3 {
		t.Errorf("keyword limit = %d", got)
	}
	if app.CurrentConfig().Backend.UserID != "other_user" {
		t.Error("current config not replaced")
	}
}
