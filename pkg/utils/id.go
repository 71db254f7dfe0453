package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成主键（uuid v4）
func NewID() string { return uuid.NewString() }

// NormalizeEmail 去空格并转小写；唯一性按规范化后的值判断
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
