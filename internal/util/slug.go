package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// GenerateBlogID 根据标题生成可读的唯一标识：清洗后的标题加随机后缀
func GenerateBlogID(title string) string {
	slug := nonAlphanumeric.ReplaceAllString(title, " ")
	slug = strings.Join(strings.Fields(slug), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return slug + "-" + suffix
}

// GenerateUsername 从邮箱前缀生成用户名，冲突时调用方追加随机后缀
func GenerateUsername(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

// RandomSuffix 返回指定长度的随机后缀
func RandomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// GenerateUploadKey 生成唯一的上传对象名
func GenerateUploadKey() string {
	return fmt.Sprintf("%s-%d.jpeg", uuid.NewString(), time.Now().UnixMilli())
}
