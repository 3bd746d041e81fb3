package model

// 支持评测的语言
var CodeLanguages = []string{"C", "C++", "Python"}

const DefaultCodeLanguage = "C"

// FeedbackItem 代码评测反馈中的一项，顺序与后端返回的 JSON 键顺序一致
type FeedbackItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Feedback 评测反馈
type Feedback []FeedbackItem

// Get 按键取值
func (f Feedback) Get(key string) (string, bool) {
	for _, item := range f {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}
