package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TopicState 题目主题的解锁状态
type TopicState string

const (
	TopicTakeQuiz   TopicState = "Take Quiz"
	TopicRetakeQuiz TopicState = "Retake Quiz"
	TopicLocked     TopicState = "Locked"
)

// TopicStatus 主题及其状态
type TopicStatus struct {
	Topic  string     `json:"topic"`
	Status TopicState `json:"status"`
}

// Locked 已锁定的主题不可开始测验
func (t TopicStatus) Locked() bool {
	return t.Status == TopicLocked
}

// QuizQuestion 单道选择题
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizAnswers 题目下标 -> 选中的选项（单选，后选覆盖先选）
type QuizAnswers map[int]string

// QuizAttempt 一次答题记录，由后端产生，客户端只读
type QuizAttempt struct {
	Topic            string  `json:"topic"`
	Question         string  `json:"question,omitempty"`
	UserAnswer       string  `json:"user_answer"`
	CorrectAnswer    string  `json:"correct_answer"`
	IsCorrect        Flag    `json:"is_correct"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
	Timestamp        string  `json:"timestamp"`
}

// QuizSubmitResult 提交测验后后端返回的统计
type QuizSubmitResult struct {
	Message          string  `json:"message"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         float64 `json:"accuracy"`
	Difficulty       int     `json:"difficulty"`
}

// Flag 兼容 true/false 与 SQLite 的 0/1
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false", "null", `""`:
		*f = false
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid boolean value %s", data)
	}
	*f = n != 0
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}
