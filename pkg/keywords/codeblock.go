package keywords

import "strings"

// 出现任意一个即视为代码
var codeMarkers = []string{
	"```",
	"#include",
	"int main",
	"class ",
	"def ",
	"public static void main",
	"{",
	"}",
	"print(",
	"return ",
	";",
	"System.out",
	"cout",
	"cin",
}

// IsCode 启发式判断消息是否包含代码，允许误判
func IsCode(text string) bool {
	for _, marker := range codeMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
