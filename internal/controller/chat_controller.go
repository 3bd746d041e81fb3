package controller

import (
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

func (c *ChatController) Index(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	render(ctx, tplChat, "Chatbot", gin.H{
		"Messages": state.Chat.Messages,
		"Keywords": c.ChatService.RecentKeywords(state),
		"Reply":    state.Chat.Reply,
	})
}

// Send 空白消息直接回到聊天页
func (c *ChatController) Send(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	c.ChatService.Send(ctx.Request.Context(), state, ctx.PostForm("message"))
	redirect(ctx, "/chat")
}

func (c *ChatController) Clear(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	c.ChatService.Clear(state)
	redirect(ctx, "/chat")
}

// Keywords 最近的关键短语
func (c *ChatController) Keywords(ctx *gin.Context) {
	state, ok := currentState(ctx)
	if !ok {
		return
	}

	util.Success(ctx, gin.H{
		"keywords": c.ChatService.RecentKeywords(state),
		"limit":    c.ChatService.KeywordLimit(),
	})
}
