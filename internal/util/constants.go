package util

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// 上下文键
const ContextKeyViewState = "view_state"

const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// 表单中题目选项字段的前缀，如 answer_0
const AnswerFieldPrefix = "answer_"
