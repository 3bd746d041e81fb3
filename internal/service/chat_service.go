package service

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/pkg/keywords"
	"dsa_tutor_web/pkg/logger"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	MsgChatNoResponse = "Sorry, no response."
	MsgChatFailed     = "Error fetching response."

	DefaultKeywordDisplayLimit = 10
)

type ChatService struct {
	API TutorAPI

	mu           sync.RWMutex
	keywordLimit int
}

func NewChatService(api TutorAPI, keywordLimit int) *ChatService {
	s := &ChatService{API: api}
	s.SetKeywordLimit(keywordLimit)
	return s
}

// SetKeywordLimit 配置热更新时调用
func (s *ChatService) SetKeywordLimit(limit int) {
	if limit <= 0 {
		limit = DefaultKeywordDisplayLimit
	}
	s.mu.Lock()
	s.keywordLimit = limit
	s.mu.Unlock()
}

func (s *ChatService) KeywordLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keywordLimit
}

// Send 发送一条消息。空白输入直接忽略，既不请求后端也不追加消息
func (s *ChatService) Send(ctx context.Context, state *model.ViewState, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	chat := &state.Chat
	isCode := keywords.IsCode(text)
	chat.Messages = append(chat.Messages, model.ChatMessage{Sender: model.SenderUser, Text: text, IsCode: isCode})

	if !isCode {
		index := len(chat.Messages) - 1
		for _, phrase := range keywords.Extract(text) {
			chat.Keywords = append(chat.Keywords, model.KeywordEntry{Word: phrase, Index: index})
		}
	}

	reply, err := s.API.Chat(ctx, state.UserID, text)
	if err != nil {
		logger.Log.Error("Failed to fetch chat response", zap.String("user_id", state.UserID), zap.Error(err))
		chat.Messages = append(chat.Messages, model.ChatMessage{Sender: model.SenderBot, Text: MsgChatFailed})
		return true
	}

	answer := reply.Response
	if answer == "" {
		answer = MsgChatNoResponse
	}
	chat.Reply = reply
	chat.Messages = append(chat.Messages, model.ChatMessage{
		Sender: model.SenderBot,
		Text:   answer,
		IsCode: keywords.IsCode(answer),
	})
	return true
}

// RecentKeywords 最近的若干条关键短语，旧的在前
func (s *ChatService) RecentKeywords(state *model.ViewState) []model.KeywordEntry {
	entries := state.Chat.Keywords
	limit := s.KeywordLimit()
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]model.KeywordEntry, len(entries))
	copy(out, entries)
	return out
}

// Clear 清空对话
func (s *ChatService) Clear(state *model.ViewState) {
	state.Chat = model.ChatViewState{}
}
