package util

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session token")
	ErrSessionCorrupt  = errors.New("stored session state is unreadable")
	ErrTopicLocked     = errors.New("topic is locked")
	ErrNoActiveQuiz    = errors.New("no active quiz")
	ErrQuestionIndex   = errors.New("question index out of range")
	ErrUnknownOption   = errors.New("option not offered for question")
	ErrUnknownLanguage = errors.New("unsupported language")
)
