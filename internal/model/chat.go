package model

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage 聊天消息，按顺序追加
type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	IsCode bool   `json:"isCode"`
}

// KeywordEntry 从第 Index 条消息中提取出的关键短语
type KeywordEntry struct {
	Word  string `json:"word"`
	Index int    `json:"index"`
}

// ChatReply 后端 chat 模式的返回
type ChatReply struct {
	Response      string `json:"response"`
	DetectedTopic string `json:"detected_topic"`
	Complexity    string `json:"complexity"`
}
