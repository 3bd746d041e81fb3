package util

import (
	"strconv"
	"strings"
)

// MustParseInt 将字符串转换为整数，解析失败时返回 -1
func MustParseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}
