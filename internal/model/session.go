package model

import "time"

// QuizViewState 测验页的会话状态
type QuizViewState struct {
	Topics        []TopicStatus     `json:"topics"`
	SelectedTopic string            `json:"selectedTopic"`
	Questions     []QuizQuestion    `json:"questions"`
	Answers       QuizAnswers       `json:"answers"`
	Difficulty    int               `json:"difficulty"`
	Error         string            `json:"error"`
	UnlockedTopic string            `json:"unlockedTopic"`
	SubmitMessage string            `json:"submitMessage"`
	LastResult    *QuizSubmitResult `json:"lastResult,omitempty"`
}

// ChatViewState 聊天页的会话状态
type ChatViewState struct {
	Messages []ChatMessage  `json:"messages"`
	Keywords []KeywordEntry `json:"keywords"`
	Reply    *ChatReply     `json:"reply,omitempty"`
}

// CodeEvalViewState 代码评测页的会话状态
type CodeEvalViewState struct {
	Topic    string   `json:"topic"`
	Language string   `json:"language"`
	Code     string   `json:"code"`
	Feedback Feedback `json:"feedback"`
}

// ViewState 一个浏览器会话下各视图的本地状态
type ViewState struct {
	SessionID string            `json:"sessionId"`
	UserID    string            `json:"userId"`
	Quiz      QuizViewState     `json:"quiz"`
	Chat      ChatViewState     `json:"chat"`
	CodeEval  CodeEvalViewState `json:"codeEval"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
