// Package validation 写入路径的请求校验，封装 go-playground/validator 单例
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Error 单个字段的校验失败，Message 可直接返回给前端
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// CountWords 按空白切分计数，首尾空白不计
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("maxwords", validateMaxWords)
	})
	return validate
}

// maxwords=N 字数上限
func validateMaxWords(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return CountWords(fl.Field().String()) <= limit
}

// ValidateStruct 返回第一个失败字段的 *Error，通过时返回 nil
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &Error{
		Field:   fe.Field(),
		Tag:     fe.Tag(),
		Message: message(fe),
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "maxwords":
		text, _ := fe.Value().(string)
		return fmt.Sprintf("Maximum %s words per response. You have %d.", fe.Param(), CountWords(text))
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// IsValidationError 判断是否为可直接返回400的校验错误
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
