package pkg

import "errors"

// 请求边界上的错误种类，业务错误用 %w 包装它们
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicate       = errors.New("duplicate")
)

// FieldErrors 表单校验失败时的字段级错误
type FieldErrors map[string]string

// ValidationError 携带字段错误的 InvalidInput
type ValidationError struct {
	Msg    string
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
