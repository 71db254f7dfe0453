package domain

import "errors"

// 业务错误（上层用 errors.Is 判断并映射成 HTTP 状态）
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrDuplicateIdentity = errors.New("email is already in use")
	ErrNotFound          = errors.New("not found")
	ErrPersistence       = errors.New("persistence failure")
	ErrHashing           = errors.New("password hashing failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
)
