// Package keywords 从聊天输入中提取关键短语，并识别疑似代码的消息。
package keywords

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxPhraseTokens 每个短语最多保留的词数
const MaxPhraseTokens = 4

var separators = regexp.MustCompile(`(?i),|\band\b|\bor\b`)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "all", "am", "an", "and", "any", "are", "as", "at",
		"be", "been", "before", "being", "between", "both", "but", "by",
		"can", "could", "did", "do", "does", "doing", "during",
		"each", "for", "from", "had", "has", "have", "having", "he", "her", "here", "him", "his", "how",
		"i", "if", "in", "into", "is", "it", "its", "itself",
		"just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "of", "off", "on", "once", "only", "or", "other", "our", "out", "over", "own",
		"please", "same", "she", "should", "so", "some", "such",
		"than", "that", "the", "their", "them", "then", "there", "these", "they", "this", "those",
		"through", "to", "too", "under", "until", "up", "us",
		"very", "was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why",
		"will", "with", "would", "you", "your", "yours",
	} {
		stopwords[w] = struct{}{}
	}
}

// IsStopword 大小写不敏感的停用词判断
func IsStopword(token string) bool {
	_, ok := stopwords[strings.ToLower(token)]
	return ok
}

func isNumber(token string) bool {
	n, err := strconv.ParseFloat(token, 64)
	return err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
}

// Extract 按 "," "and" "or" 切分，每段保留至多 4 个有效词组成一个短语。
// and/or 只作为独立单词切分，"android"、"sorting" 这类包含它们的词保持完整。
func Extract(text string) []string {
	phrases := make([]string, 0)

	for _, fragment := range separators.Split(text, -1) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		kept := make([]string, 0, MaxPhraseTokens)
		for _, token := range strings.Fields(fragment) {
			if utf8.RuneCountInString(token) <= 1 || IsStopword(token) || isNumber(token) {
				continue
			}
			kept = append(kept, token)
			if len(kept) == MaxPhraseTokens {
				break
			}
		}

		if len(kept) > 0 {
			phrases = append(phrases, strings.Join(kept, " "))
		}
	}

	return phrases
}
