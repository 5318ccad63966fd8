package util

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	hasDigit = regexp.MustCompile(`\d`)
	hasLower = regexp.MustCompile(`[a-z]`)
	hasUpper = regexp.MustCompile(`[A-Z]`)
)

// IsPasswordValid 校验密码：6-20位，至少一个数字、一个小写和一个大写字母
func IsPasswordValid(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}
	return hasDigit.MatchString(password) && hasLower.MatchString(password) && hasUpper.MatchString(password)
}

// ValidateTagList 验证标签列表不超过10个，发布时的下限由服务层校验
func ValidateTagList(fl validator.FieldLevel) bool {
	tags, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	return len(tags) <= 10
}
